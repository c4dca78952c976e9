package sources

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// FileConfig holds configuration for the file-based source
type FileConfig struct {
	SecretsDir string `yaml:"secrets_dir"`
}

// Validate checks if the FileConfig has all required fields set
func (f FileConfig) Validate() error {
	if f.SecretsDir == "" {
		return errors.New("secrets_dir is required for the file source")
	}

	info, err := os.Stat(f.SecretsDir)
	if os.IsNotExist(err) {
		return errors.Errorf("secrets_dir %q does not exist", f.SecretsDir)
	}
	if err != nil {
		return errors.Wrapf(err, "error accessing secrets_dir %q", f.SecretsDir)
	}
	if !info.IsDir() {
		return errors.Errorf("secrets_dir %q is not a directory", f.SecretsDir)
	}
	return nil
}

// CreateClient creates a File source from this config.
func (f FileConfig) CreateClient() (*File, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return NewFile(f.SecretsDir), nil
}

// File resolves system properties from files in a configured directory:
// the property "db_password" reads <secretsDir>/db_password, trimmed of
// whitespace. Useful for Docker secrets, Kubernetes secrets, or local
// development. A property whose file does not exist is a miss, not an error.
type File struct {
	secretsDir string
}

// NewFile creates a new file-based source
//
// Parameters:
//   - secretsDir: The directory containing secret files
func NewFile(secretsDir string) *File {
	return &File{
		secretsDir: secretsDir,
	}
}

// Lookup reads a property from a file in the secrets directory.
func (f *File) Lookup(key string) (string, bool) {
	if f.secretsDir == "" || key == "" {
		return "", false
	}

	// Reject absolute keys and anything escaping the secrets directory
	if filepath.IsAbs(key) {
		log.Warn().Str("key", key).Msg("Rejecting absolute path as file property key")
		return "", false
	}
	path := filepath.Join(f.secretsDir, key)
	if rel, err := filepath.Rel(f.secretsDir, path); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		log.Warn().Str("key", key).Msg("Rejecting file property key escaping the secrets directory")
		return "", false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("file", path).Msg("Error reading property file")
		}
		return "", false
	}

	log.Debug().Str("file", path).Msg("Retrieved property from file")
	return strings.TrimSpace(string(content)), true
}

// Name returns the source name
func (f *File) Name() string {
	return "File"
}
