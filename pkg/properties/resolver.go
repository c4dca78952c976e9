package properties

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultExpansionLimit bounds the number of substitutions performed while
// resolving a single key. Legitimate chains stay far below it; a cycle among
// two or more keys would otherwise expand forever.
const DefaultExpansionLimit = 256

// ErrCycle is returned when resolving a key exceeds the expansion limit,
// which indicates a reference cycle in the property set (a = ${b}, b = ${a}).
var ErrCycle = errors.New("property reference cycle detected")

// Resolver substitutes ${name} tokens in the values of a property map.
//
// For each token the fallback chain is consulted in order: other keys of the
// same map, the injected system property source, and (for names with the
// "env." prefix) the environment snapshot. A token that resolves nowhere, or
// that resolves to exactly its own name, is left verbatim and never
// re-expanded. A substituted value is re-scanned, so chains like
// a = pre-${b}-post, b = ${c}, c = val resolve transitively.
type Resolver struct {
	props  Map
	system Source
	env    Environment
	limit  int
}

// NewResolver creates a resolver over props. Both system and env may be nil;
// the corresponding fallback stage is then skipped.
func NewResolver(props Map, system Source, env Environment) *Resolver {
	return &Resolver{
		props:  props,
		system: system,
		env:    env,
		limit:  DefaultExpansionLimit,
	}
}

// SetExpansionLimit overrides the per-key substitution bound. Zero or a
// negative value disables the bound, restoring the legacy behavior in which
// a multi-key cycle never terminates.
func (r *Resolver) SetExpansionLimit(limit int) {
	r.limit = limit
}

// Resolve returns the value of key with all tokens substituted as far as
// possible. The returned string may still contain ${name} markers for names
// that resolved nowhere. The only error condition is ErrCycle.
//
// A value with an unterminated token (an "${" with no closing brace) yields
// the output built up to that point; the dangling fragment is dropped. This
// matches the long-standing behavior of the property loaders this package
// replaces and is deliberate.
func (r *Resolver) Resolve(key string) (string, error) {
	v := r.props[key]
	var out strings.Builder
	expansions := 0

	for {
		idx := strings.Index(v, "${")
		if idx < 0 {
			out.WriteString(v)
			return out.String(), nil
		}

		// emit the prefix, scan past "${"
		out.WriteString(v[:idx])
		rest := v[idx+2:]

		end := strings.Index(rest, "}")
		if end < 0 {
			// unterminated token: stop, dropping the dangling fragment
			return out.String(), nil
		}

		name := rest[:end]
		v = rest[end+1:]

		nv, ok := r.lookup(name)
		if !ok || nv == name {
			// unresolved, or the trivial self-reference x = ${x}:
			// leave the token verbatim and do not expand it again
			out.WriteString("${")
			out.WriteString(name)
			out.WriteString("}")
			continue
		}

		expansions++
		if r.limit > 0 && expansions > r.limit {
			return "", errors.Wrapf(ErrCycle, "resolving property %q exceeded %d expansions", key, r.limit)
		}

		// re-inject the substituted value so it is scanned for further tokens
		v = nv + v
	}
}

// lookup consults the fallback chain for a token name.
func (r *Resolver) lookup(name string) (string, bool) {
	if v, ok := r.props[name]; ok {
		return v, true
	}

	if r.system != nil {
		if v, ok := r.system.Lookup(name); ok {
			return v, true
		}
	}

	if r.env != nil && strings.HasPrefix(name, EnvPrefix) {
		if v, ok := r.env.Lookup(strings.TrimPrefix(name, EnvPrefix)); ok {
			return v, true
		}
	}

	return "", false
}

// ResolveAll resolves every key present in the map when the call starts,
// overwriting each value with its resolved form. Keys are iterated over a
// stable sorted snapshot, so keys added or renamed mid-pass are ignored.
// The first cycle error aborts the pass.
func (r *Resolver) ResolveAll() error {
	for _, key := range r.props.Keys() {
		resolved, err := r.Resolve(key)
		if err != nil {
			return err
		}
		r.props[key] = resolved
	}

	log.Debug().Int("keys", len(r.props)).Msg("Resolved property map")
	return nil
}
