package choixe

import (
	"encoding/json"

	yaml "github.com/goccy/go-yaml"
)

// yamlMapSlice and yamlMapItem alias goccy/go-yaml's order-preserving map
// representation, used by [Map.MarshalYAML] so a processed document's key
// order survives round-tripping through YAML the same way it does
// through JSON.
type yamlMapSlice = yaml.MapSlice

type yamlMapItem = yaml.MapItem

// FormatOptions controls how a processed [Tree] is serialized.
type FormatOptions struct {
	// AllowOpaque permits $call/$model results to appear in the output,
	// serialized as their underlying value. Without it, encountering an
	// [Opaque] leaf fails the whole marshal.
	AllowOpaque bool

	// Indent, when non-empty, is passed to json.MarshalIndent for ToJSON.
	Indent string
}

// ToJSON serializes tree, preserving [Map] key order via its
// MarshalJSON method.
func ToJSON(tree Tree, opts FormatOptions) ([]byte, error) {
	resolved, err := resolveOpaque(tree, opts.AllowOpaque)
	if err != nil {
		return nil, err
	}

	if opts.Indent != "" {
		return json.MarshalIndent(resolved, "", opts.Indent)
	}

	return json.Marshal(resolved)
}

// ToYAML serializes tree using goccy/go-yaml, preserving [Map] key order
// via its MarshalYAML method.
func ToYAML(tree Tree, opts FormatOptions) ([]byte, error) {
	resolved, err := resolveOpaque(tree, opts.AllowOpaque)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(resolved)
}

// ToNative converts tree into plain map[string]any / []any / scalar
// values, discarding [Map]'s ordering. Callers that need to hand a
// result to code outside this package that expects idiomatic Go
// containers should use this instead of serializing and re-decoding.
func ToNative(tree Tree, opts FormatOptions) (any, error) {
	switch v := tree.(type) {
	case *Map:
		out := make(map[string]any, v.Len())

		var err error

		v.Range(func(k string, val any) bool {
			nv, e := ToNative(val, opts)
			if e != nil {
				err = e

				return false
			}

			out[k] = nv

			return true
		})

		if err != nil {
			return nil, err
		}

		return out, nil

	case []any:
		out := make([]any, len(v))

		for i, e := range v {
			nv, err := ToNative(e, opts)
			if err != nil {
				return nil, err
			}

			out[i] = nv
		}

		return out, nil

	case Opaque:
		if !opts.AllowOpaque {
			return nil, ErrTypeMismatch.With(fieldSymbol(v.Symbol))
		}

		return ToNative(v.Value, opts)

	default:
		return v, nil
	}
}

// resolveOpaque walks tree preserving its *Map/[]any shape (so a
// downstream json/yaml Marshal still benefits from Map's order-preserving
// marshalers) while unwrapping or rejecting Opaque leaves.
func resolveOpaque(tree Tree, allow bool) (Tree, error) {
	switch v := tree.(type) {
	case *Map:
		out := NewMap()

		var err error

		v.Range(func(k string, val any) bool {
			rv, e := resolveOpaque(val, allow)
			if e != nil {
				err = e

				return false
			}

			_ = out.Append(k, rv)

			return true
		})

		if err != nil {
			return nil, err
		}

		return out, nil

	case []any:
		out := make([]any, len(v))

		for i, e := range v {
			rv, err := resolveOpaque(e, allow)
			if err != nil {
				return nil, err
			}

			out[i] = rv
		}

		return out, nil

	case Opaque:
		if !allow {
			return nil, ErrTypeMismatch.With(fieldSymbol(v.Symbol))
		}

		return resolveOpaque(v.Value, allow)

	default:
		return v, nil
	}
}
