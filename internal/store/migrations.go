package store

// migrations is the ordered list of idempotent schema statements, applied
// sequentially by DB.RunMigrations — the same raw-SQL-slice approach the
// teacher's database.RunMigrations uses.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS scan_runs (
		id UUID PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		status TEXT NOT NULL,
		scan_type TEXT NOT NULL,
		filter_scope TEXT NOT NULL,
		min_price DOUBLE PRECISION,
		max_price DOUBLE PRECISION,
		coin_limit INT NOT NULL,
		confidence_threshold DOUBLE PRECISION NOT NULL,
		total_coins INT NOT NULL DEFAULT 0,
		total_bots INT NOT NULL DEFAULT 0,
		total_signals INT NOT NULL DEFAULT 0,
		error TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES scan_runs(id),
		coin TEXT NOT NULL,
		ticker TEXT NOT NULL,
		current_price DOUBLE PRECISION NOT NULL,
		consensus_direction TEXT NOT NULL,
		avg_confidence DOUBLE PRECISION NOT NULL,
		bot_count INT NOT NULL,
		long_bots INT NOT NULL,
		short_bots INT NOT NULL,
		avg_entry DOUBLE PRECISION NOT NULL,
		avg_take_profit DOUBLE PRECISION NOT NULL,
		avg_stop_loss DOUBLE PRECISION NOT NULL,
		predicted_24h DOUBLE PRECISION,
		predicted_48h DOUBLE PRECISION,
		predicted_7d DOUBLE PRECISION,
		predicted_change_24h DOUBLE PRECISION,
		predicted_change_48h DOUBLE PRECISION,
		predicted_change_7d DOUBLE PRECISION,
		market_regime TEXT NOT NULL,
		regime_confidence DOUBLE PRECISION NOT NULL,
		ai_reasoning TEXT,
		action_plan TEXT,
		risk_assessment TEXT,
		market_context TEXT,
		timeframe_alignment_score INT NOT NULL,
		dominant_timeframe_regime TEXT NOT NULL,
		onchain_signal TEXT,
		social_sentiment_score DOUBLE PRECISION,
		risk_notes TEXT[],
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_run ON recommendations(run_id)`,
	`CREATE TABLE IF NOT EXISTS bot_predictions (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES scan_runs(id),
		bot_name TEXT NOT NULL,
		coin_symbol TEXT NOT NULL,
		coin_name TEXT NOT NULL,
		entry_price DOUBLE PRECISION NOT NULL,
		target_price DOUBLE PRECISION NOT NULL,
		stop_loss DOUBLE PRECISION NOT NULL,
		position_direction TEXT NOT NULL,
		confidence_score INT NOT NULL,
		leverage INT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL,
		market_regime TEXT NOT NULL,
		outcome_status TEXT NOT NULL DEFAULT 'pending',
		outcome_checked_at TIMESTAMPTZ,
		outcome_price DOUBLE PRECISION,
		profit_loss_percent DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bot_predictions_run_coin ON bot_predictions(run_id, coin_symbol)`,
	`CREATE INDEX IF NOT EXISTS idx_bot_predictions_bot_outcome ON bot_predictions(bot_name, outcome_status)`,
	`CREATE TABLE IF NOT EXISTS price_points (
		id UUID PRIMARY KEY,
		coin TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		volume_24h DOUBLE PRECISION,
		market_cap DOUBLE PRECISION,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_price_points_coin_time ON price_points(coin, recorded_at DESC)`,
	`CREATE TABLE IF NOT EXISTS tpsl_events (
		id UUID PRIMARY KEY,
		prediction_id UUID NOT NULL REFERENCES bot_predictions(id),
		event_type TEXT NOT NULL,
		entry_price DOUBLE PRECISION NOT NULL,
		target_price DOUBLE PRECISION NOT NULL,
		actual_hit_price DOUBLE PRECISION NOT NULL,
		hit_at TIMESTAMPTZ NOT NULL,
		hours_to_hit DOUBLE PRECISION NOT NULL,
		profit_loss_percent DOUBLE PRECISION NOT NULL,
		UNIQUE (prediction_id)
	)`,
	`CREATE TABLE IF NOT EXISTS bot_accuracy_metrics (
		bot_name TEXT NOT NULL,
		market_regime TEXT NOT NULL,
		total_predictions INT NOT NULL DEFAULT 0,
		correct_predictions INT NOT NULL DEFAULT 0,
		accuracy_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_profit_loss DOUBLE PRECISION NOT NULL DEFAULT 0,
		win_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_7d_accuracy DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_30d_accuracy DOUBLE PRECISION NOT NULL DEFAULT 0,
		current_weight DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		is_enabled BOOLEAN NOT NULL DEFAULT true,
		auto_disabled_at TIMESTAMPTZ,
		auto_disabled_reason TEXT,
		weight_history JSONB NOT NULL DEFAULT '[]',
		PRIMARY KEY (bot_name, market_regime)
	)`,
	`CREATE TABLE IF NOT EXISTS bot_probation_status (
		bot_name TEXT PRIMARY KEY,
		is_on_probation BOOLEAN NOT NULL DEFAULT false,
		probation_start TIMESTAMPTZ,
		probation_end TIMESTAMPTZ,
		probation_predictions_count INT NOT NULL DEFAULT 0,
		probation_correct_count INT NOT NULL DEFAULT 0,
		times_disabled INT NOT NULL DEFAULT 0,
		times_reenabled INT NOT NULL DEFAULT 0,
		permanently_disabled BOOLEAN NOT NULL DEFAULT false,
		max_leverage INT NOT NULL DEFAULT 5,
		min_confidence_required DOUBLE PRECISION NOT NULL DEFAULT 0.60,
		stop_loss_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		max_position_size_percent DOUBLE PRECISION NOT NULL DEFAULT 5,
		is_probation_mode BOOLEAN NOT NULL DEFAULT false
	)`,
}
