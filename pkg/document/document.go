package document

import (
	"fmt"
	"sort"
)

// Node is one value in a configuration document tree. The concrete types are
// Map, Seq, String, Number, Bool and Null, so merge logic can switch over the
// full set instead of shape-checking at runtime.
type Node interface {
	isNode()
}

// Map is an object node keyed by string.
type Map map[string]Node

// Seq is a sequence node. Sequences are atomic for merging purposes: an
// overlay sequence always replaces a base sequence wholesale.
type Seq []Node

// String is a scalar string node.
type String string

// Number is a scalar numeric node.
type Number float64

// Bool is a scalar boolean node.
type Bool bool

// Null is an explicit null node. Note that null is a value; an absent key is
// not, and only the latter leaves base values untouched during a merge.
type Null struct{}

func (Map) isNode()    {}
func (Seq) isNode()    {}
func (String) isNode() {}
func (Number) isNode() {}
func (Bool) isNode()   {}
func (Null) isNode()   {}

// FromAny converts a value produced by a generic decoder (encoding/json,
// goccy/go-yaml) into a Node. Unsupported shapes (non-string map keys,
// channels, etc.) are reported rather than coerced.
func FromAny(v any) (Node, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case map[string]any:
		m := make(Map, len(val))
		for k, raw := range val {
			node, err := FromAny(raw)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			m[k] = node
		}
		return m, nil
	case []any:
		s := make(Seq, 0, len(val))
		for i, raw := range val {
			node, err := FromAny(raw)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			s = append(s, node)
		}
		return s, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// ToAny converts a Node back into plain Go values suitable for any encoder.
func ToAny(n Node) any {
	switch val := n.(type) {
	case Map:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = ToAny(child)
		}
		return out
	case Seq:
		out := make([]any, 0, len(val))
		for _, child := range val {
			out = append(out, ToAny(child))
		}
		return out
	case String:
		return string(val)
	case Number:
		return float64(val)
	case Bool:
		return bool(val)
	case Null:
		return nil
	default:
		return nil
	}
}

// Clone returns a deep copy of the node.
func Clone(n Node) Node {
	switch val := n.(type) {
	case Map:
		out := make(Map, len(val))
		for k, child := range val {
			out[k] = Clone(child)
		}
		return out
	case Seq:
		out := make(Seq, 0, len(val))
		for _, child := range val {
			out = append(out, Clone(child))
		}
		return out
	default:
		// Scalars are immutable.
		return n
	}
}

// Equal reports deep equality of two nodes.
func Equal(a, b Node) bool {
	switch av := a.(type) {
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, child := range av {
			other, ok := bv[k]
			if !ok || !Equal(child, other) {
				return false
			}
		}
		return true
	case Seq:
		bv, ok := b.(Seq)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i, child := range av {
			if !Equal(child, bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Keys returns the sorted key set of a map node.
func Keys(m Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
