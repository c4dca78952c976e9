package properties

import "github.com/animalet/properties-go/internal/snapshot"

// Source is a read-only system property lookup consulted when a token does
// not name a key in the property map. It replaces an ambient process-global
// space so that tests and callers can substitute their own providers.
//
// Example implementations:
//   - Static: fixed in-memory definitions (CLI -D flags, tests)
//   - sources.File: per-key files in a secrets directory
//   - sources.Vault: HashiCorp Vault KV secret
//   - sources.AWS: AWS Secrets Manager secret
type Source interface {
	// Lookup retrieves the value for key. The boolean reports whether the
	// source defines the key; a miss makes the resolver fall through to the
	// next source in the chain.
	Lookup(key string) (string, bool)

	// Name returns a human-readable name for this source (for logging/debugging)
	Name() string
}

// Static is a map-backed Source with fixed definitions.
type Static struct {
	name   string
	values map[string]string
}

// NewStatic creates a Source backed by the given definitions. The map is
// copied so later mutation by the caller does not leak into the source.
func NewStatic(name string, values map[string]string) *Static {
	return &Static{name: name, values: snapshot.StringMap(values)}
}

// Lookup retrieves a definition.
func (s *Static) Lookup(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Name returns the source name
func (s *Static) Name() string {
	return s.name
}

// Chain composes sources; Lookup consults them in order and the first source
// that defines the key wins.
type Chain []Source

// Lookup consults each source in order.
func (c Chain) Lookup(key string) (string, bool) {
	for _, s := range c {
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Name returns the source name
func (c Chain) Name() string {
	return "Chain"
}
