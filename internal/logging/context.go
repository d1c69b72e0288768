package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type contextKey string

const (
	loggerKey  contextKey = "logger"
	traceIDKey contextKey = "trace_id"
)

// GenerateTraceID generates a new random trace ID; WithTraceContext uses it
// to tag a fresh context. Scan loggers carry the run id instead (ScanContext).
func GenerateTraceID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// FromContext retrieves the logger carried on ctx, or Default() if none was set.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok {
		return l
	}
	return Default()
}

// NewContext returns ctx carrying l, retrievable later via FromContext.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// WithTraceContext stamps ctx with a fresh trace ID and returns a logger
// tagged with it.
func WithTraceContext(ctx context.Context) (context.Context, *Logger) {
	traceID := GenerateTraceID()
	l := Default().WithTraceID(traceID)
	newCtx := context.WithValue(ctx, traceIDKey, traceID)
	newCtx = context.WithValue(newCtx, loggerKey, l)
	return newCtx, l
}

// ScanContext creates a logger context for one orchestrated scan run.
func ScanContext(runID, scanType string) *Logger {
	return Default().WithFields(map[string]interface{}{
		"run_id":    runID,
		"scan_type": scanType,
	}).WithComponent("scan")
}

// CoinContext creates a logger context for one coin's per-scan pipeline.
func CoinContext(runID, symbol string) *Logger {
	return Default().WithFields(map[string]interface{}{
		"run_id": runID,
		"symbol": symbol,
	}).WithComponent("coin")
}

// ProviderContext creates a logger context for a provider-client call.
func ProviderContext(kind, clientID, symbol string) *Logger {
	return Default().WithFields(map[string]interface{}{
		"kind":      kind,
		"client_id": clientID,
		"symbol":    symbol,
	}).WithComponent("provider")
}

// BotContext creates a logger context for one bot's evaluation of one coin.
func BotContext(botName, symbol, category string) *Logger {
	return Default().WithFields(map[string]interface{}{
		"bot":      botName,
		"symbol":   symbol,
		"category": category,
	}).WithComponent("bot")
}

// AggregationContext creates a logger context for the aggregation engine.
func AggregationContext(runID, symbol string, voteCount int) *Logger {
	return Default().WithFields(map[string]interface{}{
		"run_id": runID,
		"symbol": symbol,
		"votes":  voteCount,
	}).WithComponent("aggregation")
}

// OutcomeContext creates a logger context for outcome-tracker operations.
func OutcomeContext(predictionID, botName string) *Logger {
	return Default().WithFields(map[string]interface{}{
		"prediction_id": predictionID,
		"bot":           botName,
	}).WithComponent("outcome")
}

// WeightingContext creates a logger context for adaptive-weighting operations.
func WeightingContext(botName, regime string) *Logger {
	return Default().WithFields(map[string]interface{}{
		"bot":    botName,
		"regime": regime,
	}).WithComponent("weighting")
}

// DatabaseContext creates a logger context for store operations.
func DatabaseContext(operation, table string) *Logger {
	return Default().WithFields(map[string]interface{}{
		"operation": operation,
		"table":     table,
	}).WithComponent("store")
}

// SchedulerContext creates a logger context for a named cron job.
func SchedulerContext(job string) *Logger {
	return Default().WithFields(map[string]interface{}{
		"job": job,
	}).WithComponent("scheduler")
}
