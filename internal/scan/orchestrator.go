package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"signalengine/internal/aggregation"
	"signalengine/internal/bots"
	"signalengine/internal/indicators"
	"signalengine/internal/logging"
	"signalengine/internal/metrics"
	"signalengine/internal/providers"
	"signalengine/internal/store"
)

// Orchestrator runs scans over the coin universe and persists their
// results, grounded in the teacher's internal/scanner.Scanner.
type Orchestrator struct {
	ohlcv   *providers.OHLCVRouter
	derivs  *providers.DerivativesRouter
	options *providers.OptionsRouter
	onchain *providers.OnChainRouter
	sent    *providers.SentimentRouter
	engine  *aggregation.Engine
	repo    *store.Repository
	cfg     Config

	mu      sync.RWMutex
	current *Status
	history map[uuid.UUID]*Status
}

func NewOrchestrator(
	ohlcv *providers.OHLCVRouter,
	derivs *providers.DerivativesRouter,
	options *providers.OptionsRouter,
	onchain *providers.OnChainRouter,
	sent *providers.SentimentRouter,
	engine *aggregation.Engine,
	repo *store.Repository,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		ohlcv: ohlcv, derivs: derivs, options: options, onchain: onchain, sent: sent,
		engine: engine, repo: repo, cfg: cfg,
		history: make(map[uuid.UUID]*Status),
	}
}

// StartScan launches one scan run in a background goroutine and returns its
// run ID immediately; the run's progress is polled via ScanStatus.
func (o *Orchestrator) StartScan(ctx context.Context, p Profile, botWeights map[string]store.BotSnapshot) (uuid.UUID, error) {
	run := &store.ScanRun{
		ScanType:            p.ScanType,
		FilterScope:         p.FilterScope,
		MinPrice:            p.MinPrice,
		MaxPrice:            p.MaxPrice,
		CoinLimit:           p.CoinLimit,
		ConfidenceThreshold: p.ConfidenceThreshold,
	}
	if err := o.repo.CreateScanRun(ctx, run); err != nil {
		return uuid.Nil, fmt.Errorf("create scan run: %w", err)
	}

	st := &Status{RunID: run.ID, ScanType: p.ScanType, State: store.ScanRunRunning, StartedAt: run.StartedAt}
	o.mu.Lock()
	o.current = st
	o.history[run.ID] = st
	o.mu.Unlock()

	go o.runScan(run, p, botWeights)
	return run.ID, nil
}

// ScanStatus returns the last known status of a run by ID.
func (o *Orchestrator) ScanStatus(id uuid.UUID) (Status, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	st, ok := o.history[id]
	if !ok {
		return Status{}, false
	}
	return *st, true
}

func (o *Orchestrator) runScan(run *store.ScanRun, p Profile, botWeights map[string]store.BotSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.Deadline)
	defer cancel()

	log := logging.ScanContext(run.ID.String(), p.ScanType)
	start := time.Now()
	log.Info("scan started", "scan_type", p.ScanType, "filter_scope", string(p.FilterScope))

	universe, err := o.resolveUniverse(ctx, p)
	if err != nil {
		o.finalize(ctx, run, store.ScanRunFailed, err, 0, 0)
		log.WithError(err).Error("universe resolution failed")
		return
	}

	enabledBots := bots.Enabled(snapshotMap(botWeights))
	metrics.SetBotCounts(len(enabledBots), len(bots.All()))
	weights := make(map[string]float64, len(botWeights))
	for name, s := range botWeights {
		weights[name] = s.Weight
	}

	resultChan := make(chan coinResult, len(universe))
	symbolChan := make(chan providers.Coin, len(universe))

	var wg sync.WaitGroup
	for i := 0; i < o.cfg.WorkerCount; i++ {
		wg.Add(1)
		go o.worker(ctx, run, p, enabledBots, weights, botWeights, symbolChan, resultChan, &wg)
	}

	deadlineCtx, deadlineCancel := context.WithCancel(ctx)
	defer deadlineCancel()
	go o.watchDeadline(ctx, deadlineCancel, o.cfg.DeadlineReserve)

	go func() {
		defer close(symbolChan)
		for _, c := range universe {
			select {
			case symbolChan <- c:
			case <-deadlineCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	processed, signals, failures := 0, 0, 0
	for res := range resultChan {
		processed++
		if res.err != nil {
			failures++
			log.WithError(res.err).Debug("coin pipeline failed", "symbol", res.symbol)
		}
		if res.recorded {
			signals++
		}
		o.updateProgress(run.ID, processed, signals)

		if processed%o.cfg.FlushEvery == 0 {
			_ = o.repo.UpdateScanRunCounters(ctx, run.ID, processed, len(enabledBots), signals)
		}
	}

	// Deadline exceeded is an ordinary completion, not a failure: the run
	// finishes with whatever coins made it through before the reserve
	// window closed the symbol feed, per spec.md §7. status stays
	// ScanRunCompleted here; the only path to ScanRunFailed is the
	// universe-resolution failure above. A ScanRun row that cannot be
	// created never reaches runScan (StartScan returns the error), and
	// runScan has no cancellation path other than its own deadline.
	status := store.ScanRunCompleted
	o.finalize(ctx, run, status, nil, processed, signals)
	metrics.RecordScanCompletion(p.ScanType, string(status), time.Since(start).Seconds(), processed, signals)

	log.Info("scan completed", "duration", time.Since(start).String(),
		"coins_total", len(universe), "coins_processed", processed, "signals", signals, "failures", failures)
}

func (o *Orchestrator) watchDeadline(ctx context.Context, cancel context.CancelFunc, reserve time.Duration) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return
	}
	timer := time.NewTimer(time.Until(deadline) - reserve)
	defer timer.Stop()
	select {
	case <-timer.C:
		cancel()
	case <-ctx.Done():
	}
}

func (o *Orchestrator) worker(
	ctx context.Context,
	run *store.ScanRun,
	p Profile,
	enabledBots []bots.Bot,
	weights map[string]float64,
	botWeights map[string]store.BotSnapshot,
	symbolChan <-chan providers.Coin,
	resultChan chan<- coinResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()
	for coin := range symbolChan {
		select {
		case <-ctx.Done():
			return
		default:
		}
		resultChan <- o.scanCoin(ctx, run, p, coin, enabledBots, weights, botWeights)
	}
}

// scanCoin runs the full C1-C5 pipeline for one coin: fetch OHLCV and
// cross-source context, compute indicators, poll the bot bank, aggregate,
// and persist a recommendation when it clears the profile's confidence
// threshold.
func (o *Orchestrator) scanCoin(
	ctx context.Context,
	run *store.ScanRun,
	p Profile,
	coin providers.Coin,
	enabledBots []bots.Bot,
	weights map[string]float64,
	botWeights map[string]store.BotSnapshot,
) coinResult {
	log := logging.CoinContext(run.ID.String(), coin.Symbol)

	series, err := o.ohlcv.OHLCV(ctx, coin.Symbol, "1d", 250)
	if err != nil {
		return coinResult{symbol: coin.Symbol, err: fmt.Errorf("ohlcv: %w", err)}
	}
	series4h, err4h := o.ohlcv.OHLCV(ctx, coin.Symbol, "4h", 250)
	var candles4h []indicators.Candle
	if err4h == nil {
		candles4h = toIndicatorCandles(series4h.Candles)
	}

	candles := toIndicatorCandles(series.Candles)
	fv := indicators.Compute(coin.Symbol, "1d", candles, candles4h)

	timeframeRegimes := map[string]indicators.RegimeLabel{"1d": fv.Regime.Label}
	if fv.Regime4h != nil {
		timeframeRegimes["4h"] = fv.Regime4h.Label
	}
	for _, tf := range []string{"1h", "1w"} {
		if s, err := o.ohlcv.OHLCV(ctx, coin.Symbol, tf, 250); err == nil {
			r := indicators.ClassifyRegime(toIndicatorCandles(s.Candles))
			timeframeRegimes[tf] = r.Label
		}
	}

	var derivs *providers.Derivatives
	if d, err := o.derivs.Derivs(ctx, coin.Symbol); err == nil {
		derivs = &d
	} else {
		log.Debug("derivatives unavailable", "reason", err.Error())
	}
	var onchain *providers.OnChain
	if len(o.cfg.OnChainAllowlist) == 0 || o.cfg.OnChainAllowlist[coin.Symbol] {
		if oc, err := o.onchain.OnChain(ctx, coin.Symbol); err == nil {
			onchain = &oc
		}
	}
	var sentiment *providers.Sentiment
	if s, err := o.sent.Sentiment(ctx, coin.Symbol); err == nil {
		sentiment = &s
	}
	var options *providers.Options
	if o.cfg.OptionsAllowlist[coin.Symbol] {
		if opt, err := o.options.Options(ctx, coin.Symbol); err == nil {
			options = &opt
		} else {
			log.Debug("options unavailable", "reason", err.Error())
		}
	}

	fs := bots.FeatureSet{
		Symbol:       coin.Symbol,
		CurrentPrice: coin.CurrentPrice,
		Features:     fv,
		RawCandles:   candles,
	}
	if derivs != nil {
		fs.FundingRate, fs.OpenInterest, fs.LongShortRatio = &derivs.FundingRate, &derivs.OpenInterest, &derivs.LongShortRatio
	}
	if onchain != nil {
		fs.WhaleActivity, fs.ExchangeFlows, fs.OnChainSignal = &onchain.WhaleActivity, &onchain.ExchangeFlows, &onchain.OverallSignal
	}
	if sentiment != nil {
		fs.SentimentScore = &sentiment.Score
	}
	if options != nil {
		fs.PutCallRatio, fs.IV, fs.MaxPain = &options.PutCallRatio, &options.IV, &options.MaxPain
	}

	var votes []bots.Vote
	for _, b := range enabledBots {
		botFS := fs
		botFS.MaxLeverage, botFS.MinConfidence = bots.Guardrails(b.Name(), botWeights)
		v, ok := b.Analyze(botFS)
		if !ok {
			continue
		}
		votes = append(votes, *v)
	}

	decision := o.engine.Aggregate(ctx, aggregation.Input{
		RunID:            run.ID,
		Coin:             coin.Symbol,
		Ticker:           coin.Symbol,
		CurrentPrice:     coin.CurrentPrice,
		Timestamp:        time.Now().UTC(),
		Votes:            votes,
		BotWeights:       weights,
		Regime:           fv.Regime,
		TimeframeRegimes: timeframeRegimes,
		Sentiment:        sentiment,
		OnChain:          onchain,
	})
	if decision == nil || decision.Recommendation.AvgConfidence < p.ConfidenceThreshold {
		return coinResult{symbol: coin.Symbol, recorded: false}
	}

	rec := toStoreRecommendation(decision.Recommendation)
	preds := make([]*store.BotPrediction, 0, len(decision.Predictions))
	for _, pr := range decision.Predictions {
		preds = append(preds, toStorePrediction(pr, coin.Name))
	}
	if err := o.repo.SaveCoinResult(ctx, &rec, preds); err != nil {
		return coinResult{symbol: coin.Symbol, err: fmt.Errorf("persist: %w", err)}
	}
	return coinResult{symbol: coin.Symbol, recorded: true}
}

// resolveUniverse fetches the top-coins universe and drops stablecoins,
// which never carry a directional signal, per spec.md §4.6 step 1.
func (o *Orchestrator) resolveUniverse(ctx context.Context, p Profile) ([]providers.Coin, error) {
	coins, err := o.ohlcv.TopCoins(ctx, providers.TopCoinsRequest{
		Limit: p.CoinLimit, Scope: string(p.FilterScope), MinPrice: p.MinPrice, MaxPrice: p.MaxPrice,
	})
	if err != nil {
		return nil, err
	}
	out := make([]providers.Coin, 0, len(coins))
	for _, c := range coins {
		if o.cfg.StablecoinSymbols[c.Symbol] {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (o *Orchestrator) updateProgress(runID uuid.UUID, processed, signals int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st, ok := o.history[runID]; ok {
		st.CoinsProcessed = processed
		st.SignalsFound = signals
	}
}

func (o *Orchestrator) finalize(ctx context.Context, run *store.ScanRun, status store.ScanRunStatus, err error, processed, signals int) {
	var errMsg *string
	if err != nil {
		msg := err.Error()
		errMsg = &msg
	}
	_ = o.repo.FinalizeScanRun(ctx, run.ID, status, errMsg, processed, signals)

	o.mu.Lock()
	defer o.mu.Unlock()
	if st, ok := o.history[run.ID]; ok {
		now := time.Now().UTC()
		st.State = status
		st.CompletedAt = &now
		st.CoinsProcessed = processed
		st.SignalsFound = signals
		if err != nil {
			st.Error = err.Error()
		}
	}
}

func toIndicatorCandles(cs []providers.Candle) []indicators.Candle {
	out := make([]indicators.Candle, len(cs))
	for i, c := range cs {
		out[i] = indicators.Candle{T: c.T, O: c.O, H: c.H, L: c.L, C: c.C, V: c.V}
	}
	return out
}

func snapshotMap(in map[string]store.BotSnapshot) map[string]store.BotSnapshot {
	if in == nil {
		return map[string]store.BotSnapshot{}
	}
	return in
}

func toStoreRecommendation(r aggregation.Recommendation) store.Recommendation {
	return store.Recommendation{
		ID:                      r.ID,
		RunID:                   r.RunID,
		Coin:                    r.Coin,
		Ticker:                  r.Ticker,
		CurrentPrice:            r.CurrentPrice,
		ConsensusDirection:      store.Direction(r.ConsensusDirection),
		AvgConfidence:           r.AvgConfidence,
		BotCount:                r.BotCount,
		LongBots:                r.LongBots,
		ShortBots:               r.ShortBots,
		AvgEntry:                r.AvgEntry,
		AvgTakeProfit:           r.AvgTakeProfit,
		AvgStopLoss:             r.AvgStopLoss,
		Predicted24h:            r.Predicted24h,
		Predicted48h:            r.Predicted48h,
		Predicted7d:             r.Predicted7d,
		PredictedChange24h:      r.PredictedChange24h,
		PredictedChange48h:      r.PredictedChange48h,
		PredictedChange7d:       r.PredictedChange7d,
		MarketRegime:            r.MarketRegime,
		RegimeConfidence:        r.RegimeConfidence,
		AIReasoning:             r.AIReasoning,
		ActionPlan:              r.ActionPlan,
		RiskAssessment:          r.RiskAssessment,
		MarketContext:           r.MarketContext,
		TimeframeAlignmentScore: r.TimeframeAlignmentScore,
		DominantTimeframeRegime: r.DominantTimeframeRegime,
		OnchainSignal:           r.OnchainSignal,
		SocialSentimentScore:    r.SocialSentimentScore,
		RiskNotes:               r.RiskNotes,
		CreatedAt:               r.CreatedAt,
	}
}

func toStorePrediction(p aggregation.Prediction, coinName string) *store.BotPrediction {
	return &store.BotPrediction{
		BotName:           p.BotName,
		CoinSymbol:        p.CoinSymbol,
		CoinName:          coinName,
		EntryPrice:        p.EntryPrice,
		TargetPrice:       p.TargetPrice,
		StopLoss:          p.StopLoss,
		PositionDirection: store.Direction(p.PositionDirection),
		ConfidenceScore:   p.ConfidenceScore,
		Leverage:          p.Leverage,
		MarketRegime:      p.MarketRegime,
	}
}
