package container

import "sort"

// Attrs is the typed key/value attribute set carried by every node. Values
// are one of: string, int64, float64, bool, []int64, []float64, []string or
// Timestamp. Set normalizes the common Go aliases into that set so that a
// round trip through the file codec is value preserving.
type Attrs struct {
	kv map[string]interface{}
}

// Set stores a value under the given name, replacing any previous value.
func (a *Attrs) Set(name string, value interface{}) {
	if a.kv == nil {
		a.kv = make(map[string]interface{})
	}
	a.kv[name] = normalizeValue(value)
}

// Get returns the value stored under the given name.
func (a *Attrs) Get(name string) (interface{}, bool) {
	v, ok := a.kv[name]
	return v, ok
}

// Has returns true if an attribute with the given name exists.
func (a *Attrs) Has(name string) bool {
	_, ok := a.kv[name]
	return ok
}

// Del removes the attribute with the given name, if present.
func (a *Attrs) Del(name string) {
	delete(a.kv, name)
}

// Len returns the number of attributes in the set.
func (a *Attrs) Len() int {
	return len(a.kv)
}

// Names returns all attribute names in lexicographical order.
func (a *Attrs) Names() []string {
	names := make([]string, 0, len(a.kv))
	for name := range a.kv {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns the attribute as a string. The second return is false when
// the attribute is absent or of another type.
func (a *Attrs) String(name string) (string, bool) {
	s, ok := a.kv[name].(string)
	return s, ok
}

// Int returns the attribute as an int64.
func (a *Attrs) Int(name string) (int64, bool) {
	n, ok := a.kv[name].(int64)
	return n, ok
}

// Float returns the attribute as a float64, accepting integer values too.
func (a *Attrs) Float(name string) (float64, bool) {
	switch v := a.kv[name].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Timestamp returns the attribute as a canonical timestamp pair. A two
// element integer slice is accepted since that is how the codec reads pairs
// back from disk.
func (a *Attrs) Timestamp(name string) (Timestamp, bool) {
	switch v := a.kv[name].(type) {
	case Timestamp:
		return v, true
	case []int64:
		if len(v) == 2 {
			return Timestamp{v[0], v[1]}, true
		}
	}
	return Timestamp{}, false
}

// Copy returns a deep copy of the attribute set.
func (a *Attrs) Copy() *Attrs {
	cpy := &Attrs{kv: make(map[string]interface{}, len(a.kv))}
	for name, value := range a.kv {
		switch v := value.(type) {
		case []int64:
			cpy.kv[name] = append([]int64(nil), v...)
		case []float64:
			cpy.kv[name] = append([]float64(nil), v...)
		case []string:
			cpy.kv[name] = append([]string(nil), v...)
		default:
			cpy.kv[name] = v
		}
	}
	return cpy
}

// normalizeValue maps common aliases onto the canonical attribute types.
// Loose decoder output (uint64 integers, []interface{} sequences) is folded
// in here as well so that values read from disk or recovered from legacy
// encodings land in the same shape as values set directly.
func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return float64(v)
	case []int:
		out := make([]int64, len(v))
		for i, n := range v {
			out[i] = int64(n)
		}
		return out
	case []interface{}:
		return normalizeSlice(v)
	default:
		return value
	}
}

// normalizeSlice converts a homogeneous loose sequence into the matching
// typed slice. Mixed sequences are returned unchanged.
func normalizeSlice(vals []interface{}) interface{} {
	if len(vals) == 0 {
		return []int64{}
	}
	switch vals[0].(type) {
	case uint64, int64, int:
		ints := make([]int64, len(vals))
		for i, v := range vals {
			switch n := v.(type) {
			case uint64:
				ints[i] = int64(n)
			case int64:
				ints[i] = n
			case int:
				ints[i] = int64(n)
			default:
				return vals
			}
		}
		return ints
	case float64:
		floats := make([]float64, len(vals))
		for i, v := range vals {
			f, ok := v.(float64)
			if !ok {
				return vals
			}
			floats[i] = f
		}
		return floats
	case string:
		strs := make([]string, len(vals))
		for i, v := range vals {
			s, ok := v.(string)
			if !ok {
				return vals
			}
			strs[i] = s
		}
		return strs
	default:
		return vals
	}
}
