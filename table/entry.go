package table

// entry is one bucket slot: a borrowed key, an opaque value, the cached
// 32-bit digest of the key, and the probe-sequence length that places it
// at its current slot. An empty bucket is one whose key is nil; every
// other field of an empty bucket is undefined. A key's length is just
// len(key); Go slices already carry that, so there is no separate field
// for it.
type entry struct {
	key    []byte
	value  any
	hash32 uint32
	psl    uint32
}

func (e *entry) empty() bool {
	return e.key == nil
}

func (e *entry) clear() {
	*e = entry{}
}
