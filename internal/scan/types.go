// Package scan implements C6: the scan orchestrator that resolves a coin
// universe, runs the full per-coin pipeline (fetch, indicators, bot bank,
// aggregation, persistence) with bounded concurrency, and tracks each run's
// lifecycle, grounded in the teacher's internal/scanner.Scanner worker-pool
// pattern (symbolChan/resultChan/sync.WaitGroup), generalized from
// "evaluate strategies against klines" to the full C1-C5 pipeline per
// spec.md §4.6.
package scan

import (
	"time"

	"github.com/google/uuid"

	"signalengine/internal/store"
)

// Profile names one of the scan profiles spec.md §4.6 names (full, alt,
// watchlist); it controls universe size and the confidence threshold used
// to decide whether a coin's recommendation is worth keeping.
type Profile struct {
	Name                string
	CronSpec            string // cadence C9 schedules this profile on
	ScanType            string
	FilterScope         store.FilterScope
	CoinLimit           int
	MinPrice            *float64
	MaxPrice            *float64
	ConfidenceThreshold float64
}

// Config bundles the orchestrator's tunables, populated from the config
// package at wiring time.
type Config struct {
	WorkerCount       int
	Deadline          time.Duration // overall wall-clock budget for one run
	DeadlineReserve   time.Duration // stop scheduling new coins this long before Deadline
	FlushEvery        int           // counters flush cadence, spec.md §4.6 step 5
	StablecoinSymbols map[string]bool
	OptionsAllowlist  map[string]bool // coins queried for options data; Deribit only lists majors
	OnChainAllowlist  map[string]bool // coins queried for on-chain enrichment; nil/empty means query every coin
}

// DefaultConfig mirrors the teacher's ScannerConfig defaults, scaled to a
// multi-provider pipeline instead of a single-exchange klines fetch.
func DefaultConfig() Config {
	return Config{
		WorkerCount:     8,
		Deadline:        20 * time.Minute,
		DeadlineReserve: 20 * time.Second,
		FlushEvery:      10,
		StablecoinSymbols: map[string]bool{
			"USDT": true, "USDC": true, "BUSD": true, "DAI": true, "TUSD": true, "FDUSD": true,
		},
		OptionsAllowlist: map[string]bool{"BTC": true, "ETH": true, "SOL": true},
	}
}

// Status is the externally-visible snapshot of one run, returned by
// ScanStatus and polled by the CLI/API layer.
type Status struct {
	RunID          uuid.UUID
	ScanType       string
	State          store.ScanRunStatus
	StartedAt      time.Time
	CompletedAt    *time.Time
	CoinsTotal     int
	CoinsProcessed int
	SignalsFound   int
	Error          string
}

// coinResult is the outcome of one coin's pipeline run, fed back to the
// orchestrator's collector goroutine over resultChan.
type coinResult struct {
	symbol     string
	recorded   bool // true if a recommendation was persisted (confidence cleared the threshold)
	err        error
}
