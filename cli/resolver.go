package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/choixe/choixe"
	"github.com/ardnew/choixe/loader"
)

// resolve returns a [kong.ConfigurationLoader] that parses config files
// written as plain YAML (or JSON, a YAML subset). If the decoded document
// has a top-level mapping named name, that mapping's entries become the
// flag values; otherwise the whole document is used directly.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("config"), "/path/to/config.yaml")
//
// Example config file:
//
//	config:
//	  log-level: debug
//	  log-format: json
//	  log-pretty: true
//
// Command-line flags override config file values.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return config{}, nil
		}

		tree, err := loader.Decode(data)
		if err != nil {
			return config{}, nil
		}

		m, ok := tree.(*choixe.Map)
		if !ok {
			return config{}, nil
		}

		if nested, ok := m.Get(name); ok {
			if nestedMap, ok := nested.(*choixe.Map); ok {
				m = nestedMap
			}
		}

		return config(mapToNative(m)), nil
	}
}

// config implements [kong.Resolver] for YAML-backed configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	return nil, nil
}

// mapToNative converts a [choixe.Map] into a flat map[string]any suitable
// for [kong.Resolver]. Kong expects numeric flag values as strings, so
// int64/float64 entries are formatted accordingly.
func mapToNative(m *choixe.Map) map[string]any {
	result := make(map[string]any, m.Len())

	m.Range(func(key string, val any) bool {
		switch v := val.(type) {
		case int64:
			result[key] = strconv.FormatInt(v, 10)
		case float64:
			result[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			result[key] = v
		}

		return true
	})

	return result
}
