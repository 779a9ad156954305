package settings

// Document is an ordered mapping from unique string keys to values.
// Keys keep their insertion order. A nil *Document behaves as an empty,
// read-only document.
type Document struct {
	keys   []string
	values map[string]Value
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string]Value)}
}

// Len returns the number of keys.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// IsEmpty reports whether d has no keys.
func (d *Document) IsEmpty() bool {
	return d.Len() == 0
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position. Set is meant for building documents; documents handed to
// Diff, MergeDefaults or Apply are never modified by them.
func (d *Document) Set(key string, value Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Range calls fn for each entry in order until fn returns false.
func (d *Document) Range(fn func(key string, value Value) bool) {
	if d == nil {
		return
	}
	for _, key := range d.keys {
		if !fn(key, d.values[key]) {
			return
		}
	}
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := NewDocument()
	d.Range(func(key string, value Value) bool {
		out.Set(key, value.clone())
		return true
	})
	return out
}
