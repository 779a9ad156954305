package settings

// Diff returns the delta that brings base up to date with compare.
//
// Every top-level key of compare whose value differs from base, or that
// base lacks, is copied into the delta with compare's whole value. Keys
// only present in base are ignored. An empty delta means no difference.
func Diff(base, compare *Document) *Document {
	delta := NewDocument()
	compare.Range(func(key string, cv Value) bool {
		bv, ok := base.Get(key)
		if !ok || valueDiffers(bv, cv) {
			delta.Set(key, cv.clone())
		}
		return true
	})
	return delta
}

func valueDiffers(base, compare Value) bool {
	if base.IsObject() && compare.IsObject() {
		return subtreeDiffers(base.obj, compare.obj)
	}
	return !Equal(base, compare)
}

// subtreeDiffers reports whether two nested mappings differ anywhere.
// A key present on only one side at any level counts as a difference.
func subtreeDiffers(base, compare *Document) bool {
	if !sameKeys(base, compare) {
		return true
	}
	differs := false
	compare.Range(func(key string, cv Value) bool {
		bv, _ := base.Get(key)
		if valueDiffers(bv, cv) {
			differs = true
			return false
		}
		return true
	})
	return differs
}

func sameKeys(a, b *Document) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, key := range a.Keys() {
		if !b.Has(key) {
			return false
		}
	}
	return true
}

// MergeDefaults returns the entries of defaults whose keys local lacks.
// Keys already present in local are never overridden, whatever their
// value. A nil defaults document yields an empty delta.
func MergeDefaults(defaults, local *Document) *Document {
	delta := NewDocument()
	defaults.Range(func(key string, value Value) bool {
		if !local.Has(key) {
			delta.Set(key, value.clone())
		}
		return true
	})
	return delta
}

// Apply returns a copy of doc with every delta entry written over it
// wholesale. Existing keys keep their position; new keys are appended in
// delta order.
func Apply(doc, delta *Document) *Document {
	out := doc.Clone()
	delta.Range(func(key string, value Value) bool {
		out.Set(key, value.clone())
		return true
	})
	return out
}
