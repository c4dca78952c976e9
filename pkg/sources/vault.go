package sources

import (
	"sync"

	"github.com/hashicorp/vault/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// VaultConfig holds configuration for connecting to HashiCorp Vault
type VaultConfig struct {
	Address   string `yaml:"address"`
	Token     string `yaml:"token"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// Validate checks if the VaultConfig has all required fields set
func (v VaultConfig) Validate() error {
	if v.Address == "" {
		return errors.New("Vault address is required")
	}
	if v.Token == "" {
		return errors.New("Vault token is required")
	}
	if v.Path == "" {
		return errors.New("Vault path is required")
	}
	return nil
}

// CreateClient creates and configures a Vault API client from this config.
func (v VaultConfig) CreateClient() (*api.Client, error) {
	if err := v.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid Vault configuration")
	}

	config := api.DefaultConfig()
	config.Address = v.Address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Vault client")
	}

	client.SetToken(v.Token)

	if v.Namespace != "" {
		client.SetNamespace(v.Namespace)
	}

	return client, nil
}

// Vault resolves system properties from a HashiCorp Vault secret.
// Supports both KV v1 and KV v2 secret engines. The secret is read once on
// first lookup and cached for the lifetime of the source; a read failure is
// logged and every lookup then reports a miss.
type Vault struct {
	logical *api.Logical
	path    string

	once sync.Once
	data map[string]string
	err  error
}

// NewVault creates a new Vault-backed source
//
// Parameters:
//   - client: Configured Vault API client
//   - path: The Vault path to read secrets from (e.g., "secret/data/myapp")
func NewVault(client *api.Client, path string) *Vault {
	return &Vault{
		logical: client.Logical(),
		path:    path,
	}
}

// Lookup retrieves a property from the cached Vault secret.
func (v *Vault) Lookup(key string) (string, bool) {
	v.once.Do(v.fetch)

	if v.err != nil {
		log.Warn().Err(v.err).Str("vault_path", v.path).Msg("Vault source unavailable")
		return "", false
	}

	value, ok := v.data[key]
	if ok {
		log.Debug().Str("property", key).Str("vault_path", v.path).Msg("Retrieved property from Vault")
	}
	return value, ok
}

// Name returns the source name
func (v *Vault) Name() string {
	return "Vault"
}

func (v *Vault) fetch() {
	secret, err := v.logical.Read(v.path)
	if err != nil {
		v.err = errors.Wrapf(err, "failed to read secret from Vault path %q", v.path)
		return
	}

	if secret == nil || secret.Data == nil {
		v.err = errors.Errorf("no secret found at Vault path %q", v.path)
		return
	}

	v.data, v.err = extractKV(secret.Data)
}

// extractKV normalizes Vault secret data, handling both KV v1 and KV v2
// response formats. Non-string values are skipped.
func extractKV(data map[string]interface{}) (map[string]string, error) {
	if nested := data["data"]; nested != nil {
		// KV v2 format
		dataMap, ok := nested.(map[string]interface{})
		if !ok {
			return nil, errors.New("unexpected data format in KV v2 secret")
		}
		data = dataMap
	}

	kv := make(map[string]string, len(data))
	for k, raw := range data {
		if s, ok := raw.(string); ok {
			kv[k] = s
		}
	}
	return kv, nil
}
