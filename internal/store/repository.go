package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"signalengine/internal/events"
)

// Repository provides data access methods over the Postgres pool, mirroring
// the teacher's database.Repository wrapper shape.
type Repository struct {
	db     *DB
	events *events.EventBus
}

// NewRepository creates a repository. bus may be nil, in which case change
// events are simply not published.
func NewRepository(db *DB, bus *events.EventBus) *Repository {
	return &Repository{db: db, events: bus}
}

func (r *Repository) publish(fn func()) {
	if r.events != nil {
		fn()
	}
}

// sanitize replaces NaN/±Inf with nil so no non-finite value ever reaches a
// numeric column, per spec.md §3/§7.
func sanitize(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ============================================================================
// ScanRun
// ============================================================================

// CreateScanRun inserts a new ScanRun with status=running.
func (r *Repository) CreateScanRun(ctx context.Context, run *ScanRun) error {
	run.ID = uuid.New()
	run.StartedAt = time.Now().UTC()
	run.Status = ScanRunRunning

	const q = `
		INSERT INTO scan_runs (id, started_at, status, scan_type, filter_scope, min_price, max_price,
			coin_limit, confidence_threshold, total_coins, total_bots, total_signals)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,0,0,0)
	`
	_, err := r.db.Pool.Exec(ctx, q, run.ID, run.StartedAt, run.Status, run.ScanType, run.FilterScope,
		run.MinPrice, run.MaxPrice, run.CoinLimit, run.ConfidenceThreshold)
	if err != nil {
		return fmt.Errorf("create scan run: %w", err)
	}
	r.publish(func() { r.events.PublishScanRunCreated(run.ID.String(), run.ScanType) })
	return nil
}

// UpdateScanRunCounters refreshes the running counters on a ScanRun, used
// after every batched flush (every 10 coins per spec.md §4.6 step 5).
func (r *Repository) UpdateScanRunCounters(ctx context.Context, id uuid.UUID, totalCoins, totalBots, totalSignals int) error {
	const q = `UPDATE scan_runs SET total_coins=$2, total_bots=$3, total_signals=$4 WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, id, totalCoins, totalBots, totalSignals)
	return err
}

// FinalizeScanRun transitions a ScanRun to completed or failed.
func (r *Repository) FinalizeScanRun(ctx context.Context, id uuid.UUID, status ScanRunStatus, errMsg *string, processed, total int) error {
	now := time.Now().UTC()
	const q = `UPDATE scan_runs SET status=$2, completed_at=$3, error=$4 WHERE id=$1`
	if _, err := r.db.Pool.Exec(ctx, q, id, status, now, errMsg); err != nil {
		return fmt.Errorf("finalize scan run: %w", err)
	}
	r.publish(func() { r.events.PublishScanRunStatusChanged(id.String(), string(status), processed, total) })
	return nil
}

// GetScanRun retrieves a ScanRun by id.
func (r *Repository) GetScanRun(ctx context.Context, id uuid.UUID) (*ScanRun, error) {
	const q = `
		SELECT id, started_at, completed_at, status, scan_type, filter_scope, min_price, max_price,
			coin_limit, confidence_threshold, total_coins, total_bots, total_signals, error
		FROM scan_runs WHERE id=$1
	`
	run := &ScanRun{}
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&run.ID, &run.StartedAt, &run.CompletedAt, &run.Status, &run.ScanType, &run.FilterScope,
		&run.MinPrice, &run.MaxPrice, &run.CoinLimit, &run.ConfidenceThreshold,
		&run.TotalCoins, &run.TotalBots, &run.TotalSignals, &run.Error,
	)
	if err != nil {
		return nil, fmt.Errorf("get scan run: %w", err)
	}
	return run, nil
}

// ============================================================================
// Recommendation + BotPrediction (batched, atomic per coin)
// ============================================================================

// SaveCoinResult persists one coin's Recommendation together with its
// BotPrediction rows in a single transaction, satisfying the invariant that
// they are written atomically (spec.md §5).
func (r *Repository) SaveCoinResult(ctx context.Context, rec *Recommendation, preds []*BotPrediction) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rec.ID = uuid.New()
	rec.CreatedAt = time.Now().UTC()

	const recQ = `
		INSERT INTO recommendations (id, run_id, coin, ticker, current_price, consensus_direction,
			avg_confidence, bot_count, long_bots, short_bots, avg_entry, avg_take_profit, avg_stop_loss,
			predicted_24h, predicted_48h, predicted_7d, predicted_change_24h, predicted_change_48h,
			predicted_change_7d, market_regime, regime_confidence, ai_reasoning, action_plan,
			risk_assessment, market_context, timeframe_alignment_score, dominant_timeframe_regime,
			onchain_signal, social_sentiment_score, risk_notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31)
	`
	_, err = tx.Exec(ctx, recQ, rec.ID, rec.RunID, rec.Coin, rec.Ticker, sanitize(rec.CurrentPrice), rec.ConsensusDirection,
		sanitize(rec.AvgConfidence), rec.BotCount, rec.LongBots, rec.ShortBots,
		sanitize(rec.AvgEntry), sanitize(rec.AvgTakeProfit), sanitize(rec.AvgStopLoss),
		rec.Predicted24h, rec.Predicted48h, rec.Predicted7d,
		rec.PredictedChange24h, rec.PredictedChange48h, rec.PredictedChange7d,
		rec.MarketRegime, sanitize(rec.RegimeConfidence), rec.AIReasoning, rec.ActionPlan,
		rec.RiskAssessment, rec.MarketContext, rec.TimeframeAlignmentScore, rec.DominantTimeframeRegime,
		rec.OnchainSignal, rec.SocialSentimentScore, rec.RiskNotes, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}

	const predQ = `
		INSERT INTO bot_predictions (id, run_id, bot_name, coin_symbol, coin_name, entry_price, target_price,
			stop_loss, position_direction, confidence_score, leverage, timestamp, market_regime, outcome_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,'pending')
	`
	for _, p := range preds {
		p.ID = uuid.New()
		p.RunID = rec.RunID
		if p.Timestamp.IsZero() {
			p.Timestamp = rec.CreatedAt
		}
		p.OutcomeStatus = OutcomePending
		if _, err := tx.Exec(ctx, predQ, p.ID, p.RunID, p.BotName, p.CoinSymbol, p.CoinName,
			sanitize(p.EntryPrice), sanitize(p.TargetPrice), sanitize(p.StopLoss), p.PositionDirection,
			p.ConfidenceScore, p.Leverage, p.Timestamp, p.MarketRegime); err != nil {
			return fmt.Errorf("insert bot prediction (%s): %w", p.BotName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	r.publish(func() {
		r.events.PublishRecommendationCreated(rec.RunID.String(), rec.Coin, string(rec.ConsensusDirection), rec.AvgConfidence)
	})
	return nil
}
