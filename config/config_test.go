package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"signalengine/internal/store"
)

func TestLoadFallsBackToDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	assert.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.NotEmpty(t, cfg.Scan.Profiles)
	assert.Equal(t, 8, cfg.Scan.Orchestrator.WorkerCount)
}

func TestLoadReadsYAMLAndStillAppliesEnvDefaults(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	yamlContent := `
database:
  host: db.internal
  port: 5433
scan:
  profiles:
    watchlist:
      scan_type: watchlist
      cron_spec: "*/10 * * * *"
      filter_scope: all
      coin_limit: 25
      confidence_threshold: 0.7
`
	assert.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Contains(t, cfg.Scan.Profiles, "watchlist")
	assert.Equal(t, 0.7, cfg.Scan.Profiles["watchlist"].ConfidenceThreshold)
}

func TestProfileConfigConvertsToScanProfile(t *testing.T) {
	pc := ProfileConfig{
		CronSpec: "0 */6 * * *", ScanType: "full", FilterScope: "all",
		CoinLimit: 200, ConfidenceThreshold: 0.6,
	}
	p := pc.Profile()
	assert.Equal(t, "full", p.Name)
	assert.Equal(t, store.FilterScopeAll, p.FilterScope)
	assert.Equal(t, 200, p.CoinLimit)
}

func TestStablecoinSetDefaultsWhenUnconfigured(t *testing.T) {
	pc := ProvidersConfig{}
	set := pc.StablecoinSet()
	assert.True(t, set["USDT"])
	assert.True(t, set["USDC"])
	assert.False(t, set["BTC"])
}

func TestOptionsAllowlistSetDefaultsToMajors(t *testing.T) {
	pc := ProvidersConfig{}
	set := pc.OptionsAllowlistSet()
	assert.True(t, set["BTC"])
	assert.False(t, set["DOGE"])
}

func TestOnChainAllowlistSetEmptyWhenUnconfigured(t *testing.T) {
	pc := ProvidersConfig{}
	assert.Empty(t, pc.OnChainAllowlistSet())
}

func TestVaultSourceDisabledReturnsEmptyMap(t *testing.T) {
	src, err := NewVaultSource(VaultConfig{Enabled: false})
	assert.NoError(t, err)
	out, err := src.Fetch(nil)
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestResolveCredentialsPrefersEnvOverVault(t *testing.T) {
	os.Setenv("COINGECKO_API_KEY", "env-key")
	defer os.Unsetenv("COINGECKO_API_KEY")

	creds := ResolveCredentials(map[string]string{"coingecko_api_key": "vault-key", "glassnode_api_key": "vault-only"})
	assert.Equal(t, "env-key", creds.CoinGeckoAPIKey)
	assert.Equal(t, "vault-only", creds.GlassnodeAPIKey)
}
