package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ly/pkg"
)

// ErrConfig is returned when a configuration file cannot be decoded.
var ErrConfig = pkg.NewError("configuration error")

// resolveYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// The document is a mapping from flag names to values. Names may be written
// with hyphens or underscores:
//
//	log-level: debug
//	log_pretty: false
//	no-std: true
//
// Sequences are joined with commas, the separator kong splits slice flags on.
// Command-line flags override configuration values. An empty file is an empty
// configuration.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, ErrConfig.Wrap(err)
	}

	cfg := make(config, len(doc))

	for key, val := range doc {
		name := strings.ReplaceAll(strings.ToLower(key), "_", "-")

		s, ok := scalar(val)
		if !ok {
			return nil, ErrConfig.With(
				slog.String("key", key),
				slog.String("type", fmt.Sprintf("%T", val)),
			)
		}

		cfg[name] = s
	}

	return cfg, nil
}

// scalar returns v in a form kong can decode into any flag type.
func scalar(v any) (any, bool) {
	switch v := v.(type) {
	case nil, string, bool:
		return v, true

	case int:
		return strconv.Itoa(v), true

	case int64:
		return strconv.FormatInt(v, 10), true

	case uint64:
		return strconv.FormatUint(v, 10), true

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true

	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			s, ok := scalar(e)
			if !ok || s == nil {
				return nil, false
			}

			parts[i] = fmt.Sprint(s)
		}

		return strings.Join(parts, ","), true
	}

	return nil, false
}

// config implements [kong.Resolver] over decoded configuration values keyed
// by hyphenated flag name.
type config map[string]any

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A flag missing from the configuration
// resolves to nil so that kong falls back to its default.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	return c[flag.Name], nil
}
