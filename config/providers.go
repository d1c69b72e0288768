package config

import "os"

// ProvidersConfig names, per data kind, the ordered client fallback list
// and the uniform rate budget applied to every client in that kind's
// router, grounded in sawpanic-cryptorun's config.ProvidersConfig (a
// per-provider map of rate/budget/circuit settings) generalized from one
// flat provider map to one router per C2 data kind.
type ProvidersConfig struct {
	OHLCV       RouterConfig `yaml:"ohlcv"`
	Derivatives RouterConfig `yaml:"derivatives"`
	Options     RouterConfig `yaml:"options"`
	OnChain     RouterConfig `yaml:"onchain"`
	Sentiment   RouterConfig `yaml:"sentiment"`
	LLM         RouterConfig `yaml:"llm"`

	// StablecoinSymbols are dropped from every scan universe (spec.md
	// §4.6 step 1); OnChainAllowlist restricts on-chain enrichment to
	// coins Glassnode actually tracks well, same idea as the teacher's
	// ScreenerConfig.ExcludeSymbols generalized to an allowlist.
	StablecoinSymbols []string `yaml:"stablecoin_symbols"`
	OnChainAllowlist  []string `yaml:"onchain_allowlist"`

	// OptionsAllowlist restricts options enrichment to coins Deribit
	// actually lists options for; an empty list defaults to the majors.
	OptionsAllowlist []string `yaml:"options_allowlist"`
}

// RouterConfig is the fallback order and shared rate budget for one C2
// router; client credentials are resolved separately via Credentials
// (environment or Vault), never stored in the YAML file.
type RouterConfig struct {
	Order     []string `yaml:"order"`      // client IDs in fallback priority order
	PerSecond float64  `yaml:"per_second"` // token-bucket rate per client
	PerMinute float64  `yaml:"per_minute"`
	Enabled   bool     `yaml:"enabled"`
}

// StablecoinSet converts the configured symbol list into the lookup map
// scan.Config wants.
func (c ProvidersConfig) StablecoinSet() map[string]bool {
	if len(c.StablecoinSymbols) == 0 {
		return map[string]bool{"USDT": true, "USDC": true, "BUSD": true, "DAI": true, "TUSD": true, "FDUSD": true}
	}
	return toSet(c.StablecoinSymbols)
}

// OnChainAllowlistSet converts the configured symbol list into the lookup
// map scan.Config wants. An empty result means "query every coin".
func (c ProvidersConfig) OnChainAllowlistSet() map[string]bool {
	return toSet(c.OnChainAllowlist)
}

// OptionsAllowlistSet converts the configured symbol list into the lookup
// map scan.Config wants, defaulting to the majors Deribit actually lists.
func (c ProvidersConfig) OptionsAllowlistSet() map[string]bool {
	if len(c.OptionsAllowlist) == 0 {
		return map[string]bool{"BTC": true, "ETH": true, "SOL": true}
	}
	return toSet(c.OptionsAllowlist)
}

func toSet(symbols []string) map[string]bool {
	out := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		out[s] = true
	}
	return out
}

func applyProviderEnvOverrides(cfg *Config) {
	if len(cfg.Providers.OHLCV.Order) == 0 {
		cfg.Providers.OHLCV.Order = []string{"coingecko", "binance"}
	}
	if len(cfg.Providers.Derivatives.Order) == 0 {
		cfg.Providers.Derivatives.Order = []string{"binance-derivatives"}
	}
	if len(cfg.Providers.Options.Order) == 0 {
		cfg.Providers.Options.Order = []string{"deribit"}
	}
	if len(cfg.Providers.OnChain.Order) == 0 {
		cfg.Providers.OnChain.Order = []string{"glassnode"}
	}
	if len(cfg.Providers.Sentiment.Order) == 0 {
		cfg.Providers.Sentiment.Order = []string{"blended-sentiment"}
	}
	if len(cfg.Providers.LLM.Order) == 0 {
		cfg.Providers.LLM.Order = []string{"claude", "openai", "deepseek"}
	}

	for _, rc := range []*RouterConfig{
		&cfg.Providers.OHLCV, &cfg.Providers.Derivatives, &cfg.Providers.Options,
		&cfg.Providers.OnChain, &cfg.Providers.Sentiment, &cfg.Providers.LLM,
	} {
		if rc.PerSecond == 0 {
			rc.PerSecond = 5
		}
		if rc.PerMinute == 0 {
			rc.PerMinute = 120
		}
	}
}

// Credentials is the set of provider API keys the process resolves at
// startup, either from the environment (the default, matching the
// teacher's "secrets never live in the YAML file" stance) or from Vault
// when VaultConfig.Enabled is set.
type Credentials struct {
	CoinGeckoAPIKey     string
	GlassnodeAPIKey     string
	CryptoPanicAPIKey   string
	ClaudeAPIKey        string
	OpenAIAPIKey        string
	DeepSeekAPIKey      string
}

// ResolveCredentials reads provider API keys from the environment, falling
// back to Vault-sourced values the VaultSource already fetched when a
// given environment variable is unset.
func ResolveCredentials(vaultValues map[string]string) Credentials {
	return Credentials{
		CoinGeckoAPIKey:   firstNonEmpty(os.Getenv("COINGECKO_API_KEY"), vaultValues["coingecko_api_key"]),
		GlassnodeAPIKey:   firstNonEmpty(os.Getenv("GLASSNODE_API_KEY"), vaultValues["glassnode_api_key"]),
		CryptoPanicAPIKey: firstNonEmpty(os.Getenv("CRYPTOPANIC_API_KEY"), vaultValues["cryptopanic_api_key"]),
		ClaudeAPIKey:      firstNonEmpty(os.Getenv("AI_CLAUDE_API_KEY"), vaultValues["claude_api_key"]),
		OpenAIAPIKey:      firstNonEmpty(os.Getenv("AI_OPENAI_API_KEY"), vaultValues["openai_api_key"]),
		DeepSeekAPIKey:    firstNonEmpty(os.Getenv("AI_DEEPSEEK_API_KEY"), vaultValues["deepseek_api_key"]),
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
