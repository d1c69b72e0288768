// Package aggregation implements C5: the ten-step algorithm that combines
// one coin's bot votes into a single Recommendation, grounded in the
// teacher's internal/confluence/scorer.go (weighted multi-factor scoring
// with a grade/confidence mapping), generalized from five fixed weights to
// a regime x category table and extended with consensus/contrarian/
// multi-timeframe/external-signal/AI-refinement steps the teacher's scorer
// does not have.
package aggregation

import (
	"time"

	"github.com/google/uuid"

	"signalengine/internal/bots"
	"signalengine/internal/indicators"
	"signalengine/internal/providers"
)

// Input bundles everything C5 needs for one coin's aggregation pass.
type Input struct {
	RunID        uuid.UUID
	Coin         string
	Ticker       string
	CurrentPrice float64
	Timestamp    time.Time

	Votes      []bots.Vote
	BotWeights map[string]float64 // bot_name -> current_weight from the C8 snapshot; 1.0 if absent

	Regime           indicators.Regime
	TimeframeRegimes map[string]indicators.RegimeLabel // keys: "1h", "4h", "1d", "1w"

	Sentiment *providers.Sentiment
	OnChain   *providers.OnChain
}

// Decision is C5's output: the persisted Recommendation plus one per-bot
// prediction row for every gated vote on either side, spec.md §3 ("Recommendation" and
// "BotPrediction").
type Decision struct {
	Recommendation Recommendation
	Predictions    []Prediction
}

// Recommendation mirrors store.Recommendation's aggregation-relevant
// fields; the scan orchestrator (C6) maps it onto the persisted entity,
// keeping this package free of a store import.
type Recommendation struct {
	ID                      uuid.UUID
	RunID                   uuid.UUID
	Coin                    string
	Ticker                  string
	CurrentPrice            float64
	ConsensusDirection      bots.Direction
	AvgConfidence           float64
	BotCount                int
	LongBots                int
	ShortBots               int
	AvgEntry                float64
	AvgTakeProfit           float64
	AvgStopLoss             float64
	Predicted24h            *float64
	Predicted48h            *float64
	Predicted7d             *float64
	PredictedChange24h      *float64
	PredictedChange48h      *float64
	PredictedChange7d       *float64
	MarketRegime            string
	RegimeConfidence        float64
	AIReasoning             *string
	ActionPlan              *string
	RiskAssessment          *string
	MarketContext           *string
	TimeframeAlignmentScore int
	DominantTimeframeRegime string
	OnchainSignal           *string
	SocialSentimentScore    *float64
	RiskNotes               []string
	CreatedAt               time.Time
}

// Prediction is the per-bot record the scan orchestrator persists alongside
// the recommendation, one per gated vote (winning and losing side alike).
type Prediction struct {
	BotName           string
	CoinSymbol        string
	EntryPrice        float64
	TargetPrice       float64
	StopLoss          float64
	PositionDirection bots.Direction
	ConfidenceScore   int
	Leverage          int
	MarketRegime      string
}
