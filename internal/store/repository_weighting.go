package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// BotSnapshot is the immutable, scan-start view of one bot's weight and
// eligibility, read once per scan per spec.md §5 ("BotAccuracyMetrics is
// read at scan start into an immutable snapshot; C8 writes do not affect the
// running scan").
type BotSnapshot struct {
	BotName         string
	Regime          string
	Weight          float64
	IsEnabled       bool
	IsOnProbation   bool
	PermanentlyOff  bool
	MaxLeverage     int
	MinConfidence   float64
	SLMultiplier    float64
	MaxPositionPct  float64
}

// LoadBotSnapshot joins bot_accuracy_metrics and bot_probation_status for the
// given regime into the immutable per-scan view C4/C5 consult.
func (r *Repository) LoadBotSnapshot(ctx context.Context, regime string) (map[string]BotSnapshot, error) {
	const q = `
		SELECT m.bot_name, m.current_weight, m.is_enabled,
			COALESCE(p.is_on_probation, false), COALESCE(p.permanently_disabled, false),
			COALESCE(p.max_leverage, 5), COALESCE(p.min_confidence_required, 0.60),
			COALESCE(p.stop_loss_multiplier, 1.0), COALESCE(p.max_position_size_percent, 5)
		FROM bot_accuracy_metrics m
		LEFT JOIN bot_probation_status p ON p.bot_name = m.bot_name
		WHERE m.market_regime = $1
	`
	rows, err := r.db.Pool.Query(ctx, q, regime)
	if err != nil {
		return nil, fmt.Errorf("load bot snapshot: %w", err)
	}
	defer rows.Close()

	out := make(map[string]BotSnapshot)
	for rows.Next() {
		var s BotSnapshot
		s.Regime = regime
		if err := rows.Scan(&s.BotName, &s.Weight, &s.IsEnabled, &s.IsOnProbation, &s.PermanentlyOff,
			&s.MaxLeverage, &s.MinConfidence, &s.SLMultiplier, &s.MaxPositionPct); err != nil {
			return nil, fmt.Errorf("scan bot snapshot: %w", err)
		}
		out[s.BotName] = s
	}
	return out, rows.Err()
}

// GetBotAccuracyMetrics retrieves a bot's rolled-up metrics for one regime.
// When no row can be read it returns an unsaved default (weight 1.0,
// enabled) with a nil error; it writes nothing itself.
func (r *Repository) GetBotAccuracyMetrics(ctx context.Context, botName, regime string) (*BotAccuracyMetrics, error) {
	const q = `
		SELECT bot_name, market_regime, total_predictions, correct_predictions, accuracy_rate,
			avg_profit_loss, win_rate, last_7d_accuracy, last_30d_accuracy, current_weight, is_enabled,
			auto_disabled_at, auto_disabled_reason, weight_history
		FROM bot_accuracy_metrics WHERE bot_name=$1 AND market_regime=$2
	`
	m := &BotAccuracyMetrics{}
	var historyJSON []byte
	err := r.db.Pool.QueryRow(ctx, q, botName, regime).Scan(
		&m.BotName, &m.MarketRegime, &m.TotalPredictions, &m.CorrectPredictions, &m.AccuracyRate,
		&m.AvgProfitLoss, &m.WinRate, &m.Last7dAccuracy, &m.Last30dAccuracy, &m.CurrentWeight,
		&m.IsEnabled, &m.AutoDisabledAt, &m.AutoDisabledReason, &historyJSON)
	if err != nil {
		return &BotAccuracyMetrics{BotName: botName, MarketRegime: regime, CurrentWeight: 1.0, IsEnabled: true}, nil
	}
	if len(historyJSON) > 0 {
		_ = json.Unmarshal(historyJSON, &m.WeightHistory)
	}
	return m, nil
}

// UpsertBotAccuracyMetrics writes a bot's recomputed accuracy rollup back.
func (r *Repository) UpsertBotAccuracyMetrics(ctx context.Context, m *BotAccuracyMetrics) error {
	historyJSON, err := json.Marshal(m.WeightHistory)
	if err != nil {
		return fmt.Errorf("marshal weight history: %w", err)
	}
	const q = `
		INSERT INTO bot_accuracy_metrics (bot_name, market_regime, total_predictions, correct_predictions,
			accuracy_rate, avg_profit_loss, win_rate, last_7d_accuracy, last_30d_accuracy, current_weight,
			is_enabled, auto_disabled_at, auto_disabled_reason, weight_history)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (bot_name, market_regime) DO UPDATE SET
			total_predictions=$3, correct_predictions=$4, accuracy_rate=$5, avg_profit_loss=$6,
			win_rate=$7, last_7d_accuracy=$8, last_30d_accuracy=$9, current_weight=$10, is_enabled=$11,
			auto_disabled_at=$12, auto_disabled_reason=$13, weight_history=$14
	`
	_, err = r.db.Pool.Exec(ctx, q, m.BotName, m.MarketRegime, m.TotalPredictions, m.CorrectPredictions,
		m.AccuracyRate, m.AvgProfitLoss, m.WinRate, m.Last7dAccuracy, m.Last30dAccuracy, m.CurrentWeight,
		m.IsEnabled, m.AutoDisabledAt, m.AutoDisabledReason, historyJSON)
	if err != nil {
		return fmt.Errorf("upsert bot accuracy metrics: %w", err)
	}
	if !m.IsEnabled && r.events != nil {
		reason := ""
		if m.AutoDisabledReason != nil {
			reason = *m.AutoDisabledReason
		}
		r.events.PublishBotDisabled(m.BotName, reason, false)
	}
	return nil
}

// AccuracyWindow aggregates outcome data for a bot/regime over a rolling window.
type AccuracyWindow struct {
	TotalPredictions   int
	CorrectPredictions int
	AccuracyRate       float64
	AvgProfitLoss      float64
	WinRate            float64
}

// ComputeAccuracyWindow aggregates finalized predictions for (bot, regime)
// within the last `window`.
func (r *Repository) ComputeAccuracyWindow(ctx context.Context, botName, regime string, window time.Duration) (AccuracyWindow, error) {
	cutoff := time.Now().UTC().Add(-window)
	const q = `
		SELECT count(*),
			count(*) FILTER (WHERE outcome_status IN ('success','partial')),
			COALESCE(avg(profit_loss_percent), 0),
			count(*) FILTER (WHERE profit_loss_percent > 0)
		FROM bot_predictions
		WHERE bot_name=$1 AND market_regime=$2 AND outcome_status != 'pending' AND timestamp >= $3
	`
	var total, correct, wins int
	var avgPnL float64
	if err := r.db.Pool.QueryRow(ctx, q, botName, regime, cutoff).Scan(&total, &correct, &avgPnL, &wins); err != nil {
		return AccuracyWindow{}, fmt.Errorf("compute accuracy window: %w", err)
	}
	w := AccuracyWindow{TotalPredictions: total, CorrectPredictions: correct, AvgProfitLoss: avgPnL}
	if total > 0 {
		w.AccuracyRate = float64(correct) / float64(total)
		w.WinRate = float64(wins) / float64(total)
	}
	return w, nil
}

// GetBotProbationStatus retrieves (or default-initializes) a bot's probation
// lifecycle row.
func (r *Repository) GetBotProbationStatus(ctx context.Context, botName string) (*BotProbationStatus, error) {
	const q = `
		SELECT bot_name, is_on_probation, probation_start, probation_end, probation_predictions_count,
			probation_correct_count, times_disabled, times_reenabled, permanently_disabled, max_leverage,
			min_confidence_required, stop_loss_multiplier, max_position_size_percent, is_probation_mode
		FROM bot_probation_status WHERE bot_name=$1
	`
	p := &BotProbationStatus{}
	err := r.db.Pool.QueryRow(ctx, q, botName).Scan(&p.BotName, &p.IsOnProbation, &p.ProbationStart,
		&p.ProbationEnd, &p.ProbationPredictionsCount, &p.ProbationCorrectCount, &p.TimesDisabled,
		&p.TimesReenabled, &p.PermanentlyDisabled, &p.MaxLeverage, &p.MinConfidenceRequired,
		&p.StopLossMultiplier, &p.MaxPositionSizePercent, &p.IsProbationMode)
	if err != nil {
		d := DefaultGuardrails(botName)
		return &d, nil
	}
	return p, nil
}

// UpsertBotProbationStatus writes a bot's probation lifecycle row back.
func (r *Repository) UpsertBotProbationStatus(ctx context.Context, p *BotProbationStatus) error {
	const q = `
		INSERT INTO bot_probation_status (bot_name, is_on_probation, probation_start, probation_end,
			probation_predictions_count, probation_correct_count, times_disabled, times_reenabled,
			permanently_disabled, max_leverage, min_confidence_required, stop_loss_multiplier,
			max_position_size_percent, is_probation_mode)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (bot_name) DO UPDATE SET
			is_on_probation=$2, probation_start=$3, probation_end=$4, probation_predictions_count=$5,
			probation_correct_count=$6, times_disabled=$7, times_reenabled=$8, permanently_disabled=$9,
			max_leverage=$10, min_confidence_required=$11, stop_loss_multiplier=$12,
			max_position_size_percent=$13, is_probation_mode=$14
	`
	_, err := r.db.Pool.Exec(ctx, q, p.BotName, p.IsOnProbation, p.ProbationStart, p.ProbationEnd,
		p.ProbationPredictionsCount, p.ProbationCorrectCount, p.TimesDisabled, p.TimesReenabled,
		p.PermanentlyDisabled, p.MaxLeverage, p.MinConfidenceRequired, p.StopLossMultiplier,
		p.MaxPositionSizePercent, p.IsProbationMode)
	if err != nil {
		return fmt.Errorf("upsert bot probation status: %w", err)
	}
	if p.PermanentlyDisabled && r.events != nil {
		r.events.PublishBotDisabled(p.BotName, "permanently_disabled", true)
	}
	return nil
}

// AllBotNames returns every bot name ever recorded in bot_accuracy_metrics,
// used by C8's nightly sweep.
func (r *Repository) AllBotNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT DISTINCT bot_name FROM bot_accuracy_metrics`)
	if err != nil {
		return nil, fmt.Errorf("query bot names: %w", err)
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
