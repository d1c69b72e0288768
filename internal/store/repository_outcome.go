package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GetPendingPredictions returns every BotPrediction still awaiting outcome
// evaluation, optionally restricted to a single coin symbol (empty = all).
func (r *Repository) GetPendingPredictions(ctx context.Context, coinSymbol string) ([]*BotPrediction, error) {
	q := `
		SELECT id, run_id, bot_name, coin_symbol, coin_name, entry_price, target_price, stop_loss,
			position_direction, confidence_score, leverage, timestamp, market_regime, outcome_status,
			outcome_checked_at, outcome_price, profit_loss_percent
		FROM bot_predictions WHERE outcome_status = 'pending'
	`
	args := []interface{}{}
	if coinSymbol != "" {
		q += " AND coin_symbol = $1"
		args = append(args, coinSymbol)
	}

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending predictions: %w", err)
	}
	defer rows.Close()

	var out []*BotPrediction
	for rows.Next() {
		p := &BotPrediction{}
		if err := rows.Scan(&p.ID, &p.RunID, &p.BotName, &p.CoinSymbol, &p.CoinName, &p.EntryPrice,
			&p.TargetPrice, &p.StopLoss, &p.PositionDirection, &p.ConfidenceScore, &p.Leverage,
			&p.Timestamp, &p.MarketRegime, &p.OutcomeStatus, &p.OutcomeCheckedAt, &p.OutcomePrice,
			&p.ProfitLossPercent); err != nil {
			return nil, fmt.Errorf("scan pending prediction: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DistinctPendingCoins returns the set of coin symbols with at least one
// pending prediction, used by C7's 15-minute sampler to know which coins to
// fetch prices for.
func (r *Repository) DistinctPendingCoins(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT DISTINCT coin_symbol FROM bot_predictions WHERE outcome_status = 'pending'`)
	if err != nil {
		return nil, fmt.Errorf("query distinct pending coins: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertPricePoint appends one sampled price for a coin (append-only).
func (r *Repository) InsertPricePoint(ctx context.Context, p *PricePoint) error {
	p.ID = uuid.New()
	const q = `INSERT INTO price_points (id, coin, price, volume_24h, market_cap, recorded_at) VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.db.Pool.Exec(ctx, q, p.ID, p.Coin, sanitize(p.Price), p.Volume24h, p.MarketCap, p.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert price point: %w", err)
	}
	return nil
}

// InsertTPSLEvent records the first TP/SL crossing for a prediction. The
// UNIQUE(prediction_id) constraint makes a duplicate insert for an
// already-finalized prediction fail safely rather than silently double-write,
// which the caller (C7) treats as "already handled" and ignores.
func (r *Repository) InsertTPSLEvent(ctx context.Context, ev *TPSLEvent) error {
	ev.ID = uuid.New()
	const q = `
		INSERT INTO tpsl_events (id, prediction_id, event_type, entry_price, target_price,
			actual_hit_price, hit_at, hours_to_hit, profit_loss_percent)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (prediction_id) DO NOTHING
	`
	_, err := r.db.Pool.Exec(ctx, q, ev.ID, ev.PredictionID, ev.EventType, sanitize(ev.EntryPrice),
		sanitize(ev.TargetPrice), sanitize(ev.ActualHitPrice), ev.HitAt, ev.HoursToHit, sanitize(ev.ProfitLossPercent))
	if err != nil {
		return fmt.Errorf("insert tpsl event: %w", err)
	}
	return nil
}

// FinalizePredictionOutcome marks a prediction's outcome fields. Idempotent:
// it only transitions predictions still `pending`, so rerunning C7 against an
// already-finalized prediction is a no-op (spec.md §4.7).
func (r *Repository) FinalizePredictionOutcome(ctx context.Context, id uuid.UUID, status OutcomeStatus, price float64, pnlPercent float64) error {
	now := time.Now().UTC()
	const q = `
		UPDATE bot_predictions
		SET outcome_status=$2, outcome_checked_at=$3, outcome_price=$4, profit_loss_percent=$5
		WHERE id=$1 AND outcome_status='pending'
	`
	_, err := r.db.Pool.Exec(ctx, q, id, status, now, sanitize(price), sanitize(pnlPercent))
	if err != nil {
		return fmt.Errorf("finalize prediction outcome: %w", err)
	}
	return nil
}

// PredictionsOlderThan returns still-pending predictions whose timestamp is
// at least `age` in the past, used to drive the 24h/48h/7d horizon
// evaluations.
func (r *Repository) PredictionsOlderThan(ctx context.Context, age time.Duration) ([]*BotPrediction, error) {
	cutoff := time.Now().UTC().Add(-age)
	const q = `
		SELECT id, run_id, bot_name, coin_symbol, coin_name, entry_price, target_price, stop_loss,
			position_direction, confidence_score, leverage, timestamp, market_regime, outcome_status,
			outcome_checked_at, outcome_price, profit_loss_percent
		FROM bot_predictions WHERE outcome_status = 'pending' AND timestamp <= $1
	`
	rows, err := r.db.Pool.Query(ctx, q, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query aged predictions: %w", err)
	}
	defer rows.Close()

	var out []*BotPrediction
	for rows.Next() {
		p := &BotPrediction{}
		if err := rows.Scan(&p.ID, &p.RunID, &p.BotName, &p.CoinSymbol, &p.CoinName, &p.EntryPrice,
			&p.TargetPrice, &p.StopLoss, &p.PositionDirection, &p.ConfidenceScore, &p.Leverage,
			&p.Timestamp, &p.MarketRegime, &p.OutcomeStatus, &p.OutcomeCheckedAt, &p.OutcomePrice,
			&p.ProfitLossPercent); err != nil {
			return nil, fmt.Errorf("scan aged prediction: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
