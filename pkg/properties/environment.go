package properties

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// EnvPrefix marks tokens that fall back to the OS environment: a value
// containing ${env.PATH} resolves against the PATH environment variable.
const EnvPrefix = "env."

// Environment is an immutable snapshot of the OS environment variables,
// captured at most once per resolution pass. A nil Environment means no
// snapshot was taken and env.-prefixed tokens are left verbatim.
type Environment map[string]string

// Lookup retrieves an environment variable from the snapshot.
func (e Environment) Lookup(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// EnvironFunc supplies the raw process environment as "KEY=value" entries.
// The default is the OS environment; tests inject their own.
type EnvironFunc func() ([]string, error)

// OSEnviron is the default EnvironFunc, reading the process environment.
func OSEnviron() ([]string, error) {
	return os.Environ(), nil
}

// TakeSnapshot captures the environment once, as a flat string mapping.
// A read failure is propagated to the caller, not retried.
func TakeSnapshot(environ EnvironFunc) (Environment, error) {
	if environ == nil {
		environ = OSEnviron
	}

	entries, err := environ()
	if err != nil {
		return nil, err
	}

	snapshot := make(Environment, len(entries))
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		snapshot[name] = value
	}

	log.Debug().Int("variables", len(snapshot)).Msg("Captured environment snapshot")
	return snapshot, nil
}

// HasEnvironmentReference reports whether any value in the map contains an
// env.-prefixed token. Callers use it to skip the environment snapshot when
// no value could possibly need it; resolution results are identical whether
// or not the probe is used.
func HasEnvironmentReference(m Map) bool {
	for _, v := range m {
		if strings.Contains(v, "${"+EnvPrefix) {
			return true
		}
	}
	return false
}
