// Package store is the persistence layer: a Postgres-backed implementation
// of the abstract relational store spec.md treats as a collaborator (tables,
// row-level access enforced by the store, a realtime change feed). Entities
// here mirror spec.md §3 field-for-field; the spec's canonical names win over
// any field-name drift observed in the teacher.
package store

import (
	"time"

	"github.com/google/uuid"
)

// ScanRunStatus is the lifecycle state of one orchestrated scan.
type ScanRunStatus string

const (
	ScanRunRunning   ScanRunStatus = "running"
	ScanRunCompleted ScanRunStatus = "completed"
	ScanRunFailed    ScanRunStatus = "failed"
)

// FilterScope narrows the universe selection for a scan.
type FilterScope string

const (
	FilterScopeAll FilterScope = "all"
	FilterScopeAlt FilterScope = "alt"
)

// ScanRun is one orchestrated scan, spec.md §3.
type ScanRun struct {
	ID                  uuid.UUID
	StartedAt           time.Time
	CompletedAt         *time.Time
	Status              ScanRunStatus
	ScanType            string
	FilterScope         FilterScope
	MinPrice            *float64
	MaxPrice            *float64
	CoinLimit           int
	ConfidenceThreshold float64
	TotalCoins          int
	TotalBots           int
	TotalSignals        int
	Error               *string
}

// Direction is a bot's or recommendation's directional call.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Recommendation is the aggregated per-coin output of one scan, spec.md §3.
// Created during aggregation; never mutated afterward.
type Recommendation struct {
	ID                       uuid.UUID
	RunID                    uuid.UUID
	Coin                     string
	Ticker                   string
	CurrentPrice             float64
	ConsensusDirection       Direction
	AvgConfidence            float64
	BotCount                 int
	LongBots                 int
	ShortBots                int
	AvgEntry                 float64
	AvgTakeProfit            float64
	AvgStopLoss              float64
	Predicted24h             *float64
	Predicted48h             *float64
	Predicted7d              *float64
	PredictedChange24h       *float64
	PredictedChange48h       *float64
	PredictedChange7d        *float64
	MarketRegime             string
	RegimeConfidence         float64
	AIReasoning              *string
	ActionPlan               *string
	RiskAssessment           *string
	MarketContext            *string
	TimeframeAlignmentScore  int
	DominantTimeframeRegime  string
	OnchainSignal            *string
	SocialSentimentScore     *float64
	RiskNotes                []string
	CreatedAt                time.Time
}

// OutcomeStatus is the lifecycle of a per-bot prediction's result.
type OutcomeStatus string

const (
	OutcomePending OutcomeStatus = "pending"
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomePartial OutcomeStatus = "partial"
)

// BotPrediction is a per-bot record tied to a Recommendation, spec.md §3.
// Created at scan time; outcome_* fields are filled in later by the outcome
// tracker (C7).
type BotPrediction struct {
	ID                 uuid.UUID
	RunID              uuid.UUID
	BotName            string
	CoinSymbol         string
	CoinName           string
	EntryPrice         float64
	TargetPrice        float64
	StopLoss           float64
	PositionDirection  Direction
	ConfidenceScore    int
	Leverage           int
	Timestamp          time.Time
	MarketRegime       string
	OutcomeStatus      OutcomeStatus
	OutcomeCheckedAt   *time.Time
	OutcomePrice       *float64
	ProfitLossPercent  *float64
}

// PricePoint is appended every sampling interval by C7, spec.md §3.
type PricePoint struct {
	ID         uuid.UUID
	Coin       string
	Price      float64
	Volume24h  *float64
	MarketCap  *float64
	RecordedAt time.Time
}

// TPSLEventType distinguishes a take-profit hit from a stop-loss hit.
type TPSLEventType string

const (
	EventTakeProfit TPSLEventType = "TAKE_PROFIT"
	EventStopLoss   TPSLEventType = "STOP_LOSS"
)

// TPSLEvent records the first crossing of take-profit or stop-loss observed
// by the outcome tracker. At most one exists per prediction, spec.md §3.
type TPSLEvent struct {
	ID                uuid.UUID
	PredictionID       uuid.UUID
	EventType          TPSLEventType
	EntryPrice         float64
	TargetPrice        float64
	ActualHitPrice     float64
	HitAt              time.Time
	HoursToHit         float64
	ProfitLossPercent  float64
}

// WeightHistoryEntry is one append-only entry in a bot's weight history.
type WeightHistoryEntry struct {
	At     time.Time `json:"at"`
	From   float64   `json:"from"`
	To     float64   `json:"to"`
	Reason string    `json:"reason"`
}

// BotAccuracyMetrics rolls up a bot's accuracy per regime, spec.md §3,
// updated by the adaptive-weighting component (C8).
type BotAccuracyMetrics struct {
	BotName            string
	MarketRegime       string
	TotalPredictions   int
	CorrectPredictions int
	AccuracyRate       float64
	AvgProfitLoss      float64
	WinRate            float64
	Last7dAccuracy     float64
	Last30dAccuracy    float64
	CurrentWeight      float64
	IsEnabled          bool
	AutoDisabledAt     *time.Time
	AutoDisabledReason *string
	WeightHistory      []WeightHistoryEntry
}

// BotProbationStatus holds a bot's probation lifecycle and guardrails,
// spec.md §3 ("BotProbationStatus / BotGuardrails").
type BotProbationStatus struct {
	BotName                   string
	IsOnProbation             bool
	ProbationStart            *time.Time
	ProbationEnd              *time.Time
	ProbationPredictionsCount int
	ProbationCorrectCount     int
	TimesDisabled             int
	TimesReenabled            int
	PermanentlyDisabled       bool
	MaxLeverage               int
	MinConfidenceRequired     float64
	StopLossMultiplier        float64
	MaxPositionSizePercent    float64
	IsProbationMode           bool
}

// DefaultGuardrails returns the non-probation guardrail defaults a bot is
// restored to when probation ends successfully.
func DefaultGuardrails(botName string) BotProbationStatus {
	return BotProbationStatus{
		BotName:                botName,
		MaxLeverage:            5,
		MinConfidenceRequired:  0.60,
		StopLossMultiplier:     1.0,
		MaxPositionSizePercent: 5,
	}
}

// ProbationGuardrails returns the tighter guardrails a bot enters on re-enable.
func ProbationGuardrails(botName string) BotProbationStatus {
	return BotProbationStatus{
		BotName:                botName,
		IsProbationMode:        true,
		MaxLeverage:            3,
		MinConfidenceRequired:  0.70,
		StopLossMultiplier:     0.50,
		MaxPositionSizePercent: 2,
	}
}
