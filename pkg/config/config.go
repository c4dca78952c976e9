// Package config loads the tool's own YAML settings file: which property
// files to read, the active profiles, the skip/quiet flags, static system
// property definitions, and the optional source and store sections that are
// decoded on demand with Get.
package config

import (
	"os"

	"github.com/animalet/properties-go/internal/snapshot"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the top-level settings file.
//
//	files:
//	  - conf/common.properties
//	  - conf/${project.activeProfile}.properties
//	profiles: [dev, staging]
//	definitions:
//	  build.number: "42"
//	vault:
//	  address: https://vault.example.com
//	  ...
//
// Sections other than the fixed fields (the vault, aws and file sources,
// the stores) land in Other and are decoded by Get.
type Config struct {
	Files       []string          `yaml:"files"`
	Profiles    []string          `yaml:"profiles"`
	Quiet       bool              `yaml:"quiet"`
	Skip        bool              `yaml:"skip"`
	Definitions map[string]string `yaml:"definitions"`
	Other       map[string]any    `yaml:",inline"`
}

// Validatable is implemented by every decodable config section.
type Validatable interface {
	Validate() error
}

// ClientFactory is implemented by config sections that can create clients
// for their backing service (Vault, Redis, databases, ...). The type
// parameter T is the concrete client type.
type ClientFactory[T any] interface {
	Validatable
	// CreateClient creates and configures a client from the config details.
	CreateClient() (T, error)
}

// NewConfig reads and unmarshals the YAML settings file.
func NewConfig(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file %s", file)
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "error parsing config file %s", file)
	}
	return &cfg, nil
}

// Get decodes and validates the named section of the config. A section that
// is not present yields (nil, nil) so callers can treat it as optional. The
// returned section is a deep copy, so callers never share state through it.
func Get[T Validatable](cfg *Config, key string) (*T, error) {
	raw, exists := cfg.Other[key]
	if !exists {
		return nil, nil
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "error marshalling section %q", key)
	}

	var section T
	if err = yaml.Unmarshal(data, &section); err != nil {
		return nil, errors.Wrapf(err, "error parsing section %q", key)
	}

	if err = section.Validate(); err != nil {
		return nil, errors.Wrapf(err, "section %q is invalid", key)
	}

	copied, err := snapshot.Copy(&section)
	if err != nil {
		return nil, errors.Wrapf(err, "error copying section %q", key)
	}
	return copied, nil
}
