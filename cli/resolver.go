package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Nested mappings are flattened by joining keys with hyphens, so both of the
// following set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Keys may use underscores in place of hyphens. Flags of a subcommand may be
// qualified by the command name:
//
//	gen:
//	  count: 10
//
// Command-line flags override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, err
	}

	cfg := make(config)
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] for flattened YAML documents.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	path *kong.Path,
	flag *kong.Flag,
) (any, error) {
	names := []string{flag.Name}
	if path != nil && path.Command != nil {
		names = append([]string{path.Command.Name + "-" + flag.Name}, names...)
	}

	for _, name := range names {
		if value, ok := r[name]; ok {
			return value, nil
		}

		if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
			return value, nil
		}
	}

	// Not found: let kong use defaults.
	return nil, nil
}

func (r config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := value.(map[string]any); ok {
			r.flatten(key, sub)

			continue
		}

		r[key] = scalar(value)
	}
}

// scalar converts a decoded YAML value into a form kong can map onto a flag.
// Numbers become strings since kong parses them from text; sequences become
// comma-separated lists.
func scalar(value any) any {
	switch v := value.(type) {
	case string, bool, nil:
		return v

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		elems := make([]string, len(v))
		for i, e := range v {
			elems[i] = fmt.Sprint(scalar(e))
		}

		return strings.Join(elems, ",")

	default:
		return fmt.Sprint(v)
	}
}
