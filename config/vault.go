package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds HashiCorp Vault configuration for the provider
// credential source, the same shape as the teacher's VaultConfig
// generalized from per-user exchange keys to a single shared set of
// provider API keys.
type VaultConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Address    string `yaml:"address"`
	Token      string `yaml:"token"`
	MountPath  string `yaml:"mount_path"`  // KV secrets engine mount path
	SecretPath string `yaml:"secret_path"` // path under the mount holding provider keys
	TLSEnabled bool   `yaml:"tls_enabled"`
	CACert     string `yaml:"ca_cert"`
}

// VaultSource resolves provider API keys from Vault's KV store, mirroring
// the teacher's vault.Client (same NewClient/disabled-passthrough shape)
// generalized from per-user APIKeyData to a flat key-value secret.
type VaultSource struct {
	client *api.Client
	cfg    VaultConfig
}

// NewVaultSource builds a Vault-backed credential source. When cfg.Enabled
// is false it returns a source whose Fetch always returns an empty map, so
// callers can unconditionally call ResolveCredentials with its result.
func NewVaultSource(cfg VaultConfig) (*VaultSource, error) {
	if !cfg.Enabled {
		return &VaultSource{cfg: cfg}, nil
	}

	vaultCfg := api.DefaultConfig()
	vaultCfg.Address = cfg.Address
	if cfg.TLSEnabled && cfg.CACert != "" {
		if err := vaultCfg.ConfigureTLS(&api.TLSConfig{CACert: cfg.CACert}); err != nil {
			return nil, fmt.Errorf("configure vault tls: %w", err)
		}
	}

	client, err := api.NewClient(vaultCfg)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &VaultSource{client: client, cfg: cfg}, nil
}

// Fetch reads the provider credentials secret and returns it as a flat
// string map keyed by the field names ResolveCredentials expects
// (coingecko_api_key, glassnode_api_key, ...). Returns an empty map when
// Vault is disabled or the secret doesn't exist, so a missing secret falls
// back silently to environment-sourced credentials.
func (v *VaultSource) Fetch(ctx context.Context) (map[string]string, error) {
	if !v.cfg.Enabled {
		return map[string]string{}, nil
	}

	path := fmt.Sprintf("%s/data/%s", v.cfg.MountPath, v.cfg.SecretPath)
	secret, err := v.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read vault secret: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return map[string]string{}, nil
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return map[string]string{}, nil
	}

	out := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out, nil
}
