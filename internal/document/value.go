package document

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	// KindNull is an explicit or implicit YAML null
	KindNull Kind = iota
	// KindScalar is a string, number or boolean, kept as its source text
	KindScalar
	// KindMapping is a key/value mapping with document key order
	KindMapping
	// KindSequence is an ordered list of values
	KindSequence
	// KindUnsupported covers aliases and anything else the analysis does not traverse
	KindUnsupported
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "unsupported"
	}
}

// Entry is a single key/value pair of a mapping
type Entry struct {
	Key   string
	Value *Value
}

// Value is a node of a parsed configuration document.
// Exactly one of scalar, entries or items is meaningful, selected by kind.
type Value struct {
	kind    Kind
	scalar  string
	tag     string
	entries []Entry
	index   map[string]int
	items   []*Value
	line    int
}

// Kind returns the variant held by v. A nil Value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// Line returns the 1-based source line of v, or 0 if unknown
func (v *Value) Line() int {
	if v == nil {
		return 0
	}
	return v.line
}

// Scalar returns the scalar text and true when v is a scalar
func (v *Value) Scalar() (string, bool) {
	if v.Kind() != KindScalar {
		return "", false
	}
	return v.scalar, true
}

// Entries returns the mapping entries in document order, or nil for non-mappings
func (v *Value) Entries() []Entry {
	if v.Kind() != KindMapping {
		return nil
	}
	return v.entries
}

// Items returns the sequence items, or nil for non-sequences
func (v *Value) Items() []*Value {
	if v.Kind() != KindSequence {
		return nil
	}
	return v.items
}

// Get looks up key in a mapping
func (v *Value) Get(key string) (*Value, bool) {
	if v.Kind() != KindMapping {
		return nil, false
	}
	i, ok := v.index[key]
	if !ok {
		return nil, false
	}
	return v.entries[i].Value, true
}

// Has reports whether v is a mapping containing key
func (v *Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Strings normalizes a scalar or a sequence of scalars into a list.
// Non-scalar sequence items are dropped. Any other shape returns false.
func (v *Value) Strings() ([]string, bool) {
	switch v.Kind() {
	case KindScalar:
		return []string{v.scalar}, true
	case KindSequence:
		out := make([]string, 0, len(v.items))
		for _, item := range v.items {
			if s, ok := item.Scalar(); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// Expect returns ErrUnsupportedShape unless v holds one of the given kinds
func (v *Value) Expect(kinds ...Kind) error {
	got := v.Kind()
	for _, k := range kinds {
		if got == k {
			return nil
		}
	}
	return fmt.Errorf("%w: got %s at line %d", ErrUnsupportedShape, got, v.Line())
}

// Interface converts v into plain Go values for encoding.
// Scalars tagged as int, float or bool are converted; mappings lose key order.
func (v *Value) Interface() interface{} {
	switch v.Kind() {
	case KindScalar:
		switch v.tag {
		case "!!int":
			if n, err := strconv.ParseInt(v.scalar, 0, 64); err == nil {
				return n
			}
		case "!!float":
			if f, err := strconv.ParseFloat(v.scalar, 64); err == nil {
				return f
			}
		case "!!bool":
			if b, err := strconv.ParseBool(v.scalar); err == nil {
				return b
			}
		}
		return v.scalar
	case KindMapping:
		out := make(map[string]interface{}, len(v.entries))
		for _, e := range v.entries {
			out[e.Key] = e.Value.Interface()
		}
		return out
	case KindSequence:
		out := make([]interface{}, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.Interface())
		}
		return out
	default:
		return nil
	}
}

// set appends or replaces a mapping entry. A repeated key keeps its first
// position and takes the last value.
func (v *Value) set(key string, val *Value) {
	if i, ok := v.index[key]; ok {
		v.entries[i].Value = val
		return
	}
	v.index[key] = len(v.entries)
	v.entries = append(v.entries, Entry{Key: key, Value: val})
}
