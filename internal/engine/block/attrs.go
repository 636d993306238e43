package block

import "strings"

// Attributes is an ordered string map. The zero value is an empty map ready
// to use. Attributes has reference semantics; use Clone before handing a
// copy to another annotation.
type Attributes struct {
	keys []string
	vals map[string]string
}

// NewAttributes builds an attribute map from alternating key/value pairs.
// A trailing key without a value is ignored.
func NewAttributes(kv ...string) Attributes {
	var a Attributes
	for i := 0; i+1 < len(kv); i += 2 {
		a.Set(kv[i], kv[i+1])
	}
	return a
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	return len(a.keys)
}

// Get returns the value of key.
func (a Attributes) Get(key string) (string, bool) {
	v, ok := a.vals[key]
	return v, ok
}

// Set assigns key. A new key is appended after the existing ones; an existing
// key keeps its position.
func (a *Attributes) Set(key, value string) {
	if a.vals == nil {
		a.vals = make(map[string]string)
	}
	if _, ok := a.vals[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.vals[key] = value
}

// Delete removes key.
func (a *Attributes) Delete(key string) {
	if _, ok := a.vals[key]; !ok {
		return
	}
	delete(a.vals, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i:i], a.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (a Attributes) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Equal reports whether both maps hold the same keys in the same order with
// the same values.
func (a Attributes) Equal(b Attributes) bool {
	if len(a.keys) != len(b.keys) {
		return false
	}
	for i, k := range a.keys {
		if b.keys[i] != k || b.vals[k] != a.vals[k] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	var c Attributes
	for _, k := range a.keys {
		c.Set(k, a.vals[k])
	}
	return c
}

// String formats the attributes as space separated key="value" pairs.
func (a Attributes) String() string {
	var sb strings.Builder
	for i, k := range a.keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(a.vals[k])
		sb.WriteByte('"')
	}
	return sb.String()
}
