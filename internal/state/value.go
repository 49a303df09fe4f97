package state

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Kind is the dynamic type held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindObject
	KindArray
	KindString
	KindNumber
	KindBool
)

// Value is a read-only view over a decoded state literal. The zero Value is
// null, and every accessor on a missing path yields another null Value, so
// lookups never fail.
type Value struct {
	raw interface{}
}

// Wrap returns a Value over an already decoded tree of map[string]interface{},
// []interface{}, string, float64, bool and nil.
func Wrap(raw interface{}) Value {
	return Value{raw: raw}
}

// Kind reports the dynamic type of v
func (v Value) Kind() Kind {
	switch v.raw.(type) {
	case map[string]interface{}:
		return KindObject
	case []interface{}:
		return KindArray
	case string:
		return KindString
	case float64, int, int64:
		return KindNumber
	case bool:
		return KindBool
	default:
		return KindNull
	}
}

// IsNull reports whether v is null or absent
func (v Value) IsNull() bool {
	return v.Kind() == KindNull
}

// Get returns the member key of an object, or null
func (v Value) Get(key string) Value {
	m, ok := v.raw.(map[string]interface{})
	if !ok {
		return Value{}
	}
	return Value{raw: m[key]}
}

// Path follows keys through nested objects
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
	}
	return cur
}

// Index returns the i-th element of an array, or null
func (v Value) Index(i int) Value {
	a, ok := v.raw.([]interface{})
	if !ok || i < 0 || i >= len(a) {
		return Value{}
	}
	return Value{raw: a[i]}
}

// Len returns the number of members of an object or elements of an array
func (v Value) Len() int {
	switch t := v.raw.(type) {
	case map[string]interface{}:
		return len(t)
	case []interface{}:
		return len(t)
	default:
		return 0
	}
}

// Has reports whether an object has the member key
func (v Value) Has(key string) bool {
	m, ok := v.raw.(map[string]interface{})
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}

// Keys returns the member names of an object in id order: keys that are
// integers sort numerically and come first, the rest sort lexically.
func (v Value) Keys() []string {
	m, ok := v.raw.(map[string]interface{})
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.ParseInt(keys[i], 10, 64)
		nj, errJ := strconv.ParseInt(keys[j], 10, 64)
		switch {
		case errI == nil && errJ == nil:
			if ni != nj {
				return ni < nj
			}
			return keys[i] < keys[j]
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// Text renders a scalar as a table cell: strings as-is, numbers in shortest
// decimal form, booleans as true/false and null as the empty string.
// Objects and arrays are rendered as compact JSON.
func (v Value) Text() string {
	switch t := v.raw.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Raw returns the underlying decoded value
func (v Value) Raw() interface{} {
	return v.raw
}
