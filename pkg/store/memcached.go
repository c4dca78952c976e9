package store

import (
	"github.com/animalet/properties-go/pkg/properties"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// MemcachedConfig holds configuration for a Memcached-backed property store
type MemcachedConfig struct {
	Addresses []string `yaml:"addresses"`
	// KeyPrefix is prepended to every property key. Defaults to
	// "properties:" when empty.
	KeyPrefix string `yaml:"key_prefix"`
}

// Validate checks if the MemcachedConfig has all required fields set
func (m MemcachedConfig) Validate() error {
	if len(m.Addresses) == 0 {
		return errors.New("at least one Memcached address is required")
	}
	return nil
}

// CreateClient creates a Memcached client from this config.
func (m MemcachedConfig) CreateClient() (*memcache.Client, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return memcache.New(m.Addresses...), nil
}

// Memcached publishes properties as individual prefixed cache entries.
type Memcached struct {
	client *memcache.Client
	prefix string
}

// NewMemcached creates a Memcached-backed store
//
// Parameters:
//   - client: Pre-configured Memcached client
//   - prefix: Key prefix for property entries ("properties:" if empty)
func NewMemcached(client *memcache.Client, prefix string) *Memcached {
	if prefix == "" {
		prefix = "properties:"
	}
	return &Memcached{client: client, prefix: prefix}
}

// Merge writes one cache entry per property.
func (s *Memcached) Merge(m properties.Map) error {
	for _, k := range m.Keys() {
		item := &memcache.Item{
			Key:   s.prefix + k,
			Value: []byte(m[k]),
		}
		if err := s.client.Set(item); err != nil {
			return errors.Wrapf(err, "failed to write property %q to Memcached", k)
		}
	}

	log.Debug().Str("prefix", s.prefix).Int("keys", len(m)).Msg("Merged properties into Memcached")
	return nil
}

// Name returns the store name
func (s *Memcached) Name() string {
	return "Memcached"
}
