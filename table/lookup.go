package table

// findIn probes a single table for key/hash32, starting at key's home
// bucket. Returns the matching entry's index and true, or false if the
// Robin Hood invariant proves absence (an empty slot, or a scan distance
// exceeding the stored PSL) before a match is found.
func findIn(t *tbl, hash32 uint32, key []byte, caseSensitive bool) (uint32, bool) {
	idx := home(hash32, t.bits)

	for psl := uint32(0); ; psl++ {
		pos := (idx + psl) & t.mask
		e := &t.buckets[pos]

		if e.empty() || psl > e.psl {
			return 0, false
		}
		if e.hash32 == hash32 && keyEqual(e.key, key, caseSensitive) {
			return pos, true
		}
	}
}

// find probes the primary table first, then the secondary table (if a
// migration is in progress), and returns the table index (0 or 1) and
// bucket position of the match.
func (c *Container) find(hash32 uint32, key []byte) (tableIdx uint8, pos uint32, ok bool) {
	idx := c.hindex
	if pos, ok := findIn(c.tables[idx], hash32, key, c.caseSensitive); ok {
		return idx, pos, true
	}
	if c.migrating() {
		other := next(idx)
		if pos, ok := findIn(c.tables[other], hash32, key, c.caseSensitive); ok {
			return other, pos, true
		}
	}
	return 0, 0, false
}

// Find returns the value stored for key, or ErrNotFound. If hash is
// non-nil it is used as the precomputed digest instead of recomputing
// it; the caller is expected to have produced it via Container.Hash.
// Find never triggers migration work.
func (c *Container) Find(hash *uint32, key []byte) (any, error) {
	c.checkOpen()
	require(key != nil, "rhmap: Find called with nil key")
	require(len(key) <= maxKeyLen, "rhmap: key length %d exceeds %d", len(key), maxKeyLen)

	h := c.resolveHash(hash, key)

	idx, pos, ok := c.find(h, key)
	if !ok {
		return nil, ErrNotFound
	}
	return c.tables[idx].buckets[pos].value, nil
}
