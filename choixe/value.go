package choixe

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Tree is a generic data tree value. The dynamic type is one of:
// nil, bool, int64, float64, string, []any (sequence), *Map (ordered
// mapping), or Opaque (a $call/$model result embedded as a leaf).
type Tree = any

// entry is a single key-value pair within a [Map], preserving its position.
type entry struct {
	key   string
	value any
}

// Map is an ordered string-keyed mapping. Insertion order is preserved
// across compile and evaluation, matching the data model invariant that
// map key order survives the whole pipeline.
type Map struct {
	entries []entry
	index   map[string]int
}

// NewMap returns an empty ordered map.
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Get returns the value stored under key and whether it was present.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}

	i, ok := m.index[key]
	if !ok {
		return nil, false
	}

	return m.entries[i].value, true
}

// Put inserts or overwrites key, preserving its original position when it
// already exists. This is the last-writer-wins path used by $for's
// map-merge accumulation.
func (m *Map) Put(key string, value any) {
	if i, ok := m.index[key]; ok {
		m.entries[i].value = value

		return
	}

	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry{key: key, value: value})
}

// Append inserts a new key, failing if it already exists. This is the
// strict path used when materializing a regular map node, where a
// collision between two independently evaluated keys is a [ErrDuplicateKey].
func (m *Map) Append(key string, value any) error {
	if _, ok := m.index[key]; ok {
		return ErrDuplicateKey.With(fieldKey(key))
	}

	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry{key: key, value: value})

	return nil
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.entries)
}

// Keys returns the entry keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}

	return keys
}

// Range calls fn for every entry in insertion order, stopping early if fn
// returns false.
func (m *Map) Range(fn func(key string, value any) bool) {
	if m == nil {
		return
	}

	for _, e := range m.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Clone returns a shallow copy of m; entry values are not deep-copied.
func (m *Map) Clone() *Map {
	out := NewMap()
	m.Range(func(k string, v any) bool {
		out.Put(k, v)

		return true
	})

	return out
}

// MarshalJSON implements json.Marshaler, preserving key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf strings.Builder

	buf.WriteByte('{')

	first := true

	var err error

	m.Range(func(k string, v any) bool {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		var kb, vb []byte

		kb, err = json.Marshal(k)
		if err != nil {
			return false
		}

		vb, err = json.Marshal(v)
		if err != nil {
			return false
		}

		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)

		return true
	})
	if err != nil {
		return nil, err
	}

	buf.WriteByte('}')

	return []byte(buf.String()), nil
}

// MarshalYAML implements goccy/go-yaml's order-preserving marshal hook.
func (m *Map) MarshalYAML() (any, error) {
	items := make(yamlMapSlice, 0, m.Len())
	m.Range(func(k string, v any) bool {
		items = append(items, yamlMapItem{Key: k, Value: v})

		return true
	})

	return items, nil
}

// Opaque wraps a value returned by a $call or $model directive. Markup
// writers reject Opaque payloads unless explicitly configured to accept
// them, preserving the type soundness of external serializers.
type Opaque struct {
	Symbol string
	Value  any
}

func (o Opaque) String() string {
	return fmt.Sprintf("Opaque(%s)", o.Symbol)
}

// lookupPath resolves a dotted path against root, descending through *Map
// keys and numeric sequence indices. A missing intermediate yields
// (nil, false) rather than an error.
func lookupPath(root any, path string) (any, bool) {
	if path == "" {
		return root, true
	}

	cur := root

	for _, seg := range strings.Split(path, ".") {
		switch v := cur.(type) {
		case *Map:
			val, ok := v.Get(seg)
			if !ok {
				return nil, false
			}

			cur = val

		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}

			cur = v[idx]

		default:
			return nil, false
		}
	}

	return cur, true
}

// toText coerces a resolved leaf value to its canonical textual form, used
// by bundle concatenation and map-key evaluation.
func toText(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"

	case bool:
		if x {
			return "true"
		}

		return "false"

	case int64:
		return strconv.FormatInt(x, 10)

	case int:
		return strconv.Itoa(x)

	case float64:
		return formatFloat(x)

	case string:
		return x

	case Opaque:
		return fmt.Sprintf("%v", x.Value)

	default:
		return fmt.Sprintf("%v", x)
	}
}

// formatFloat renders f using the minimal unambiguous decimal
// representation for typical configuration-sized magnitudes, falling back
// to exponential notation only outside that range. This resolves an open
// question in the specification; see DESIGN.md.
func formatFloat(f float64) string {
	abs := f

	if abs < 0 {
		abs = -abs
	}

	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
