// Command signalengine wires C1-C9 together behind a small cobra CLI,
// grounded in sawpanic-cryptorun's single-package cmd/cryptorun main
// (package-level rootCmd plus flag-bound subcommand vars) generalized from
// a provider-probe tool to serve/scan/status over this service's own
// scan pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"signalengine/config"
	"signalengine/internal/aggregation"
	"signalengine/internal/logging"
	"signalengine/internal/metrics"
	"signalengine/internal/outcome"
	"signalengine/internal/providers"
	"signalengine/internal/scan"
	"signalengine/internal/scheduler"
	"signalengine/internal/store"
	"signalengine/internal/weighting"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "signalengine",
	Short: "Multi-bot crypto signal generation engine",
	Long: `signalengine scans the crypto market through an ensemble of independent
trading bots, aggregates their votes into consensus recommendations, tracks
how those recommendations played out, and adjusts each bot's influence
accordingly.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler forever, firing scans and background jobs on their configured cadences",
	RunE:  runServe,
}

var scanProfileFlag string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Trigger one scan and block until it completes",
	RunE:  runScan,
}

var statusCmd = &cobra.Command{
	Use:   "status <run-id>",
	Short: "Print a scan run's stored status",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	scanCmd.Flags().StringVar(&scanProfileFlag, "profile", "full", "scan profile name to run")
	rootCmd.AddCommand(serveCmd, scanCmd, statusCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app bundles every wired component a subcommand needs.
type app struct {
	cfg     *config.Config
	repo    *store.Repository
	orch    *scan.Orchestrator
	tracker *outcome.Tracker
	adj     *weighting.Adjuster
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.SetDefault(logging.New(&cfg.Logging))
	metrics.Init()

	vaultSrc, err := config.NewVaultSource(cfg.Vault)
	if err != nil {
		return nil, fmt.Errorf("vault source: %w", err)
	}
	vaultValues, err := vaultSrc.Fetch(ctx)
	if err != nil {
		logging.Default().WithError(err).Warn("vault fetch failed, falling back to environment credentials")
		vaultValues = map[string]string{}
	}
	creds := config.ResolveCredentials(vaultValues)

	db, err := store.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	repo := store.NewRepository(db, nil)

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	}
	cache := providers.NewResponseCache(rdb, cfg.Redis.TTL)

	ohlcvClients := []providers.OHLCVClient{}
	for _, id := range cfg.Providers.OHLCV.Order {
		switch id {
		case "coingecko":
			ohlcvClients = append(ohlcvClients, providers.NewCoinGeckoOHLCVClient(creds.CoinGeckoAPIKey))
		case "binance":
			ohlcvClients = append(ohlcvClients, providers.NewBinanceOHLCVClient())
		}
	}
	ohlcvRouter := providers.NewOHLCVRouter(ohlcvClients, cache, cfg.Providers.OHLCV.PerSecond, cfg.Providers.OHLCV.PerMinute)

	derivsClients := []providers.DerivativesClient{}
	for _, id := range cfg.Providers.Derivatives.Order {
		if id == "binance-derivatives" || id == "binance-futures" {
			derivsClients = append(derivsClients, providers.NewBinanceDerivativesClient())
		}
	}
	derivsRouter := providers.NewDerivativesRouter(derivsClients, cache, cfg.Providers.Derivatives.PerSecond, cfg.Providers.Derivatives.PerMinute)

	onchainClients := []providers.OnChainClient{}
	for _, id := range cfg.Providers.OnChain.Order {
		if id == "glassnode" {
			onchainClients = append(onchainClients, providers.NewGlassnodeOnChainClient(creds.GlassnodeAPIKey))
		}
	}
	onchainRouter := providers.NewOnChainRouter(onchainClients, cfg.Providers.OnChain.PerSecond, cfg.Providers.OnChain.PerMinute)

	sentClients := []providers.SentimentClient{}
	for _, id := range cfg.Providers.Sentiment.Order {
		if id == "blended-sentiment" {
			sentClients = append(sentClients, providers.NewBlendedSentimentClient(creds.CryptoPanicAPIKey))
		}
	}
	sentRouter := providers.NewSentimentRouter(sentClients, cfg.Providers.Sentiment.PerSecond, cfg.Providers.Sentiment.PerMinute)

	llmClients := []providers.LLMClient{}
	for _, id := range cfg.Providers.LLM.Order {
		switch id {
		case "claude":
			llmClients = append(llmClients, providers.NewClaudeLLMClient(creds.ClaudeAPIKey, "claude-3-haiku-20240307"))
		case "openai":
			llmClients = append(llmClients, providers.NewOpenAILLMClient(creds.OpenAIAPIKey, "gpt-4o-mini"))
		case "deepseek":
			llmClients = append(llmClients, providers.NewDeepSeekLLMClient(creds.DeepSeekAPIKey, "deepseek-chat"))
		}
	}
	llmRouter := providers.NewLLMRouter(llmClients, cfg.Providers.LLM.PerSecond, cfg.Providers.LLM.PerMinute)

	optionsClients := []providers.OptionsClient{}
	for _, id := range cfg.Providers.Options.Order {
		if id == "deribit" {
			optionsClients = append(optionsClients, providers.NewDeribitOptionsClient())
		}
	}
	optionsRouter := providers.NewOptionsRouter(optionsClients, cfg.Providers.Options.PerSecond, cfg.Providers.Options.PerMinute)

	engine := aggregation.NewEngine(llmRouter)

	scanCfg := cfg.Scan.Orchestrator
	scanCfg.StablecoinSymbols = cfg.Providers.StablecoinSet()
	scanCfg.OnChainAllowlist = cfg.Providers.OnChainAllowlistSet()
	scanCfg.OptionsAllowlist = cfg.Providers.OptionsAllowlistSet()
	orch := scan.NewOrchestrator(ohlcvRouter, derivsRouter, optionsRouter, onchainRouter, sentRouter, engine, repo, scanCfg)

	tracker := outcome.NewTracker(ohlcvRouter, repo)
	adj := weighting.NewAdjuster(repo)

	return &app{cfg: cfg, repo: repo, orch: orch, tracker: tracker, adj: adj}, nil
}

// loadBotWeights merges the per-regime bot snapshots into the single map
// the orchestrator's bot bank expects for one run: a bot is treated as
// enabled if any regime's snapshot enables it, and its weight is averaged
// across the regimes it appears in. A true per-coin regime-scoped weight
// lookup would need the orchestrator to re-resolve weights per coin instead
// of once per run; this merge is the documented simplification until that
// lands.
func loadBotWeights(ctx context.Context, repo *store.Repository) (map[string]store.BotSnapshot, error) {
	regimes := []string{"BULL", "BEAR", "SIDEWAYS", "VOLATILE"}
	merged := make(map[string]store.BotSnapshot)
	counts := make(map[string]int)

	for _, regime := range regimes {
		snap, err := repo.LoadBotSnapshot(ctx, regime)
		if err != nil {
			continue
		}
		for name, s := range snap {
			existing, ok := merged[name]
			if !ok {
				merged[name] = s
				counts[name] = 1
				continue
			}
			existing.Weight += s.Weight
			existing.IsEnabled = existing.IsEnabled || s.IsEnabled
			merged[name] = existing
			counts[name]++
		}
	}
	for name, s := range merged {
		if n := counts[name]; n > 0 {
			s.Weight /= float64(n)
			merged[name] = s
		}
	}
	return merged, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	profiles := make([]scan.Profile, 0, len(a.cfg.Scan.Profiles))
	for _, pc := range a.cfg.Scan.Profiles {
		profiles = append(profiles, pc.Profile())
	}

	s := scheduler.New()
	if err := scheduler.RegisterDefaultJobs(s, a.orch, profiles,
		func(ctx context.Context) (map[string]store.BotSnapshot, error) { return loadBotWeights(ctx, a.repo) },
		a.tracker, a.adj,
	); err != nil {
		return fmt.Errorf("register jobs: %w", err)
	}

	s.Start()
	defer s.Stop()

	logging.Default().WithComponent("cmd").Info("scheduler running, press ctrl-c to stop")
	<-ctx.Done()
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	pc, ok := a.cfg.Scan.Profiles[scanProfileFlag]
	if !ok {
		return fmt.Errorf("unknown scan profile %q", scanProfileFlag)
	}

	weights, err := loadBotWeights(ctx, a.repo)
	if err != nil {
		return fmt.Errorf("load bot weights: %w", err)
	}

	runID, err := a.orch.StartScan(ctx, pc.Profile(), weights)
	if err != nil {
		return fmt.Errorf("start scan: %w", err)
	}
	fmt.Printf("scan started: %s\n", runID)

	for {
		time.Sleep(2 * time.Second)
		st, ok := a.orch.ScanStatus(runID)
		if !ok {
			continue
		}
		if st.State == store.ScanRunCompleted || st.State == store.ScanRunFailed {
			fmt.Printf("scan %s finished: status=%s coins=%d signals=%d\n", runID, st.State, st.CoinsProcessed, st.SignalsFound)
			if st.Error != "" {
				fmt.Printf("error: %s\n", st.Error)
			}
			return nil
		}
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id: %w", err)
	}

	run, err := a.repo.GetScanRun(ctx, id)
	if err != nil {
		return fmt.Errorf("load scan run: %w", err)
	}

	fmt.Printf("run_id=%s scan_type=%s status=%s coins=%d/%d signals=%d\n",
		run.ID, run.ScanType, run.Status, run.TotalCoins, run.CoinLimit, run.TotalSignals)
	return nil
}
