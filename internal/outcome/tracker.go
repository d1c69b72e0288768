// Package outcome implements C7: scan-independent passes, fired by C9, that
// sample prices for every coin with a pending prediction, detect the
// first take-profit/stop-loss crossing, and finalize predictions that
// reach the 24h/48h/7d horizons untouched, grounded in the teacher's
// internal/risk.TrailingStopManager (stateful per-symbol price tracking,
// long/short-mirrored trigger logic) and internal/bot.TradingBot's
// ticker-driven monitoring goroutine, per spec.md §4.7.
package outcome

import (
	"context"
	"time"

	"signalengine/internal/logging"
	"signalengine/internal/providers"
	"signalengine/internal/store"
	"signalengine/internal/weighting"
)

// PriceSource is the subset of the OHLCV router C7 needs to sample a
// coin's current price, kept as an interface so tests can substitute a
// fake instead of a live provider router.
type PriceSource interface {
	OHLCV(ctx context.Context, symbol, timeframe string, depth int) (providers.OHLCVSeries, error)
}

// horizons are the checkpoints spec.md §4.7 names, evaluated in ascending
// order so a prediction finalizes at the first one it's old enough for;
// PredictionsOlderThan's pending-only filter makes later checkpoints a
// no-op once that has happened.
var horizons = []time.Duration{24 * time.Hour, 48 * time.Hour, 7 * 24 * time.Hour}

// Tracker runs the C7 sampling and horizon-evaluation passes; C9 drives
// their cadence, so Tracker itself holds no ticker state.
type Tracker struct {
	prices PriceSource
	repo   *store.Repository
}

func NewTracker(prices PriceSource, repo *store.Repository) *Tracker {
	return &Tracker{prices: prices, repo: repo}
}

// SampleAndDetectOnce runs one pass of price sampling and TP/SL crossing
// detection; C9 fires this every 15 minutes.
func (t *Tracker) SampleAndDetectOnce(ctx context.Context) {
	t.sampleAndDetect(ctx)
}

// EvaluateHorizonsOnce runs one pass of 24h/48h/7d horizon finalization;
// C9 fires this every 15 minutes alongside SampleAndDetectOnce.
func (t *Tracker) EvaluateHorizonsOnce(ctx context.Context) {
	t.evaluateHorizons(ctx)
}

// sampleAndDetect fetches a fresh price for every coin with pending
// predictions, appends a PricePoint, and checks each of that coin's
// pending predictions for a TP/SL crossing.
func (t *Tracker) sampleAndDetect(ctx context.Context) {
	log := logging.Default().WithComponent("outcome")

	coins, err := t.repo.DistinctPendingCoins(ctx)
	if err != nil {
		log.WithError(err).Error("list pending coins failed")
		return
	}

	for _, coin := range coins {
		price, err := t.currentPrice(ctx, coin)
		if err != nil {
			log.WithError(err).Debug("price sample failed", "coin", coin)
			continue
		}

		_ = t.repo.InsertPricePoint(ctx, &store.PricePoint{Coin: coin, Price: price, RecordedAt: time.Now().UTC()})

		preds, err := t.repo.GetPendingPredictions(ctx, coin)
		if err != nil {
			log.WithError(err).Debug("list pending predictions failed", "coin", coin)
			continue
		}
		for _, p := range preds {
			t.detectCrossing(ctx, p, price)
		}
	}
}

// currentPrice samples the last close of the shortest candle the OHLCV
// router serves; spec.md §4.7 says "fetch current price via C2" without
// naming a dedicated endpoint, so the tracker reuses the same router the
// scan orchestrator uses rather than adding a new provider contract.
func (t *Tracker) currentPrice(ctx context.Context, symbol string) (float64, error) {
	series, err := t.prices.OHLCV(ctx, symbol, "1h", 1)
	if err != nil {
		return 0, err
	}
	if len(series.Candles) == 0 {
		return 0, errNoCandles{symbol}
	}
	return series.Candles[len(series.Candles)-1].C, nil
}

// detectCrossing checks one prediction against the sampled price and, on
// the first TP/SL crossing, records the event and finalizes the outcome.
func (t *Tracker) detectCrossing(ctx context.Context, p *store.BotPrediction, price float64) {
	var eventType store.TPSLEventType
	var status store.OutcomeStatus
	var hit bool

	switch p.PositionDirection {
	case store.DirectionLong:
		switch {
		case price >= p.TargetPrice:
			eventType, status, hit = store.EventTakeProfit, store.OutcomeSuccess, true
		case price <= p.StopLoss:
			eventType, status, hit = store.EventStopLoss, store.OutcomeFailed, true
		}
	case store.DirectionShort:
		switch {
		case price <= p.TargetPrice:
			eventType, status, hit = store.EventTakeProfit, store.OutcomeSuccess, true
		case price >= p.StopLoss:
			eventType, status, hit = store.EventStopLoss, store.OutcomeFailed, true
		}
	}
	if !hit {
		return
	}

	pnl := profitLossPercent(p, price)
	now := time.Now().UTC()
	_ = t.repo.InsertTPSLEvent(ctx, &store.TPSLEvent{
		PredictionID:      p.ID,
		EventType:         eventType,
		EntryPrice:        p.EntryPrice,
		TargetPrice:       p.TargetPrice,
		ActualHitPrice:    price,
		HitAt:             now,
		HoursToHit:        now.Sub(p.Timestamp).Hours(),
		ProfitLossPercent: pnl,
	})
	_ = t.repo.FinalizePredictionOutcome(ctx, p.ID, status, price, pnl)
	t.recordProbationOutcome(ctx, p.BotName, status == store.OutcomeSuccess)
}

// evaluateHorizons finalizes predictions that reached 24h/48h/7d without a
// TP/SL crossing, classifying them success/failed/partial per spec.md §4.7.
func (t *Tracker) evaluateHorizons(ctx context.Context) {
	log := logging.Default().WithComponent("outcome")

	for _, age := range horizons {
		preds, err := t.repo.PredictionsOlderThan(ctx, age)
		if err != nil {
			log.WithError(err).Debug("list aged predictions failed", "age", age.String())
			continue
		}
		for _, p := range preds {
			price, err := t.currentPrice(ctx, p.CoinSymbol)
			if err != nil {
				continue
			}
			status := classifyHorizonOutcome(p, price)
			_ = t.repo.FinalizePredictionOutcome(ctx, p.ID, status, price, profitLossPercent(p, price))
			t.recordProbationOutcome(ctx, p.BotName, status == store.OutcomeSuccess)
		}
	}
}

// recordProbationOutcome tallies a finalized prediction against its bot's
// probation counters when that bot is currently on probation; C8's
// ProcessLifecycle later judges the tally once it reaches 20 predictions.
func (t *Tracker) recordProbationOutcome(ctx context.Context, botName string, correct bool) {
	prob, err := t.repo.GetBotProbationStatus(ctx, botName)
	if err != nil || !prob.IsOnProbation {
		return
	}
	weighting.RecordProbationPrediction(prob, correct)
	_ = t.repo.UpsertBotProbationStatus(ctx, prob)
}

// classifyHorizonOutcome applies spec.md §4.7's success/failed/partial rule
// for a prediction that reached a horizon without a TP/SL crossing. Taken
// literally, "correct if price moved past entry" and "partial if moved
// >=50% toward target" overlap to the point partial is unreachable (any
// >=50% approach to a target beyond entry already means price > entry,
// i.e. already correct) so this reads the three-way split as a single
// progress scale instead: >=50% of the way to target is a clear success,
// any positive progress short of that is partial, and no progress at all
// (or the wrong direction entirely) is a failure.
func classifyHorizonOutcome(p *store.BotPrediction, price float64) store.OutcomeStatus {
	progress := progressTowardTarget(p, price)
	switch {
	case progress >= 0.5:
		return store.OutcomeSuccess
	case progress > 0:
		return store.OutcomePartial
	default:
		return store.OutcomeFailed
	}
}

// progressTowardTarget is how far price has moved from entry toward
// target_price, as a fraction of the full entry-to-target distance,
// clamped to [0, 1] so an overshoot past target still reads as 1.0.
func progressTowardTarget(p *store.BotPrediction, price float64) float64 {
	span := p.TargetPrice - p.EntryPrice
	if span == 0 {
		return 0
	}
	progress := (price - p.EntryPrice) / span
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// profitLossPercent mirrors spec.md §4.7's formula: direction x (hit_price
// - entry) / entry x leverage, direction being +1 for LONG and -1 for SHORT,
// scaled by 100 so the result is a percentage.
func profitLossPercent(p *store.BotPrediction, hitPrice float64) float64 {
	sign := 1.0
	if p.PositionDirection == store.DirectionShort {
		sign = -1.0
	}
	return sign * (hitPrice - p.EntryPrice) / p.EntryPrice * float64(p.Leverage) * 100
}

type errNoCandles struct{ symbol string }

func (e errNoCandles) Error() string { return "no candles returned for " + e.symbol }
