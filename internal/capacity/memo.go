package capacity

// Memo caches a single computed value under a comparable key, typically a
// tuple of collection version counters. A new key recomputes; a repeated key
// returns the cached value.
type Memo[K comparable, V any] struct {
	key   K
	val   V
	valid bool
}

// Get returns the cached value for key, calling compute on a miss.
func (m *Memo[K, V]) Get(key K, compute func() V) V {
	if m.valid && m.key == key {
		return m.val
	}
	m.val = compute()
	m.key = key
	m.valid = true
	return m.val
}

// Reset drops the cached value.
func (m *Memo[K, V]) Reset() {
	var zero V
	m.val = zero
	m.valid = false
}
