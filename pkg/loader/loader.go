// Package loader reads property files into a single map and resolves all
// ${name} placeholders in one pass. It owns everything the resolver core
// does not: locating files, expanding the active-profile token in file
// paths, merge order, and the skip/quiet flags.
package loader

import (
	"os"
	"strings"

	"github.com/animalet/properties-go/pkg/properties"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ProfileToken is the placeholder a file path may carry to be expanded
// against the active profiles, e.g. "conf/${project.activeProfile}.properties".
const ProfileToken = "${project.activeProfile}"

// Loader loads one or more property files, merges them (later files
// overwrite earlier keys) and resolves every placeholder against the merged
// map, the injected system property source and the OS environment.
type Loader struct {
	// Files are the property files to read, in merge order.
	Files []string
	// Profiles are the active profile names tried, in order, when a path
	// contains ProfileToken.
	Profiles []string
	// Quiet downgrades missing or unreadable files to a warning.
	Quiet bool
	// Skip makes Load a no-op.
	Skip bool
	// System is the system property fallback source; may be nil.
	System properties.Source
	// Environ supplies the process environment; nil means the OS environment.
	// It is only invoked when some value actually contains an env. token.
	Environ properties.EnvironFunc
	// ExpansionLimit overrides the resolver's per-key expansion bound when
	// non-zero.
	ExpansionLimit int
}

// Load runs the pipeline and returns the fully resolved property map.
func (l *Loader) Load() (properties.Map, error) {
	if l.Skip {
		log.Info().Msg("Property loading skipped")
		return properties.Map{}, nil
	}

	merged := properties.Map{}
	for _, file := range l.Files {
		path := l.expandProfilePath(file)

		if _, err := os.Stat(path); err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrapf(err, "error accessing properties file %s", path)
			}
			if l.Quiet {
				log.Warn().Str("file", path).Msg("Ignoring missing properties file")
				continue
			}
			return nil, errors.Errorf("properties file not found: %s", path)
		}

		m, err := parseFile(path)
		if err != nil {
			if l.Quiet {
				log.Warn().Err(err).Str("file", path).Msg("Ignoring unreadable properties file")
				continue
			}
			return nil, errors.Wrapf(err, "error reading properties file %s", path)
		}

		log.Debug().Str("file", path).Int("keys", len(m)).Msg("Loaded properties file")
		merged.Merge(m)
	}

	// snapshot the environment only when some value can actually need it
	var env properties.Environment
	if properties.HasEnvironmentReference(merged) {
		var err error
		if env, err = properties.TakeSnapshot(l.Environ); err != nil {
			return nil, errors.Wrap(err, "error getting system environment variables")
		}
	}

	resolver := properties.NewResolver(merged, l.System, env)
	if l.ExpansionLimit != 0 {
		resolver.SetExpansionLimit(l.ExpansionLimit)
	}
	if err := resolver.ResolveAll(); err != nil {
		return nil, err
	}

	return merged, nil
}

// expandProfilePath substitutes ProfileToken against each active profile in
// order; the first expanded path that exists wins. A path without the token,
// or with no matching profile, is returned unchanged.
func (l *Loader) expandProfilePath(path string) string {
	if !strings.Contains(path, ProfileToken) {
		return path
	}

	log.Info().Str("file", path).Msg("Expanding property file path")
	for _, profile := range l.Profiles {
		expanded := strings.ReplaceAll(path, ProfileToken, profile)
		log.Info().Str("profile", profile).Msg("Trying profile")
		if _, err := os.Stat(expanded); err == nil {
			log.Info().Str("file", expanded).Msg("Expanded property file path")
			return expanded
		}
	}
	return path
}
