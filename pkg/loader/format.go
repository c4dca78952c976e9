package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/animalet/properties-go/pkg/properties"
	"github.com/joho/godotenv"
	magiconair "github.com/magiconair/properties"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// parseFile reads a property file and returns its raw key/value pairs.
// The format is picked by extension; unknown extensions are parsed as
// java-style .properties files, the format the tool exists for.
//
// Placeholders are NOT expanded here: every parser is configured as a pure
// reader and expansion happens later in one resolution pass over the merged
// map, so cross-file references work regardless of file order.
func parseFile(path string) (properties.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".env":
		return parseDotenv(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".toml":
		return parseTOML(data)
	default:
		return parseProperties(data)
	}
}

func parseProperties(data []byte) (properties.Map, error) {
	l := &magiconair.Loader{Encoding: magiconair.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing properties file")
	}
	return p.Map(), nil
}

func parseDotenv(data []byte) (properties.Map, error) {
	m, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "error parsing dotenv file")
	}
	return m, nil
}

func parseYAML(data []byte) (properties.Map, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "error parsing YAML file")
	}
	return flatten(doc), nil
}

func parseTOML(data []byte) (properties.Map, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "error parsing TOML file")
	}
	return flatten(doc), nil
}

// flatten converts a nested document into flat dotted keys:
// {"db": {"host": "x"}} becomes {"db.host": "x"}. Lists are joined with
// commas, matching how flat property files usually spell them.
func flatten(doc map[string]any) properties.Map {
	m := properties.Map{}
	flattenInto(m, "", doc)
	return m
}

func flattenInto(m properties.Map, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenInto(m, key, v[k])
		}
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, scalar(item))
		}
		m[prefix] = strings.Join(parts, ",")
	case nil:
		m[prefix] = ""
	default:
		m[prefix] = scalar(v)
	}
}

func scalar(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
