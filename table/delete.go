package table

// backwardShift closes the hole left at `pos` by walking forward and
// pulling each downstream entry back one slot, decrementing its PSL by
// one, until an empty bucket or a home-positioned entry (psl == 0) is
// reached. No tombstones are used: every surviving entry stays
// reachable from its home by linear scan, and every entry downstream of
// the hole has its PSL reduced by exactly one, matching its shortened
// distance.
func backwardShift(t *tbl, pos uint32) {
	cur := pos
	for {
		nxt := (cur + 1) & t.mask
		succ := &t.buckets[nxt]

		if succ.empty() || succ.psl == 0 {
			break
		}

		succ.psl--
		t.buckets[cur] = *succ
		cur = nxt
	}
	t.buckets[cur].clear()
}

// Delete removes key, computing the digest from hash if it is nil.
// Returns ErrNotFound if no matching entry exists. Delete may perform
// one migration step: either continuing an in-progress migration, or
// starting a new shrink migration if the primary table just crossed the
// shrink threshold.
func (c *Container) Delete(hash *uint32, key []byte) error {
	c.checkOpen()
	require(key != nil, "rhmap: Delete called with nil key")
	require(len(key) <= maxKeyLen, "rhmap: key length %d exceeds %d", len(key), maxKeyLen)

	h := c.resolveHash(hash, key)

	if c.migrating() {
		if err := c.rehashStep(); err != nil {
			return err
		}
	} else if c.underShrinkThreshold() {
		if err := c.startShrink(); err != nil {
			return err
		}
		if err := c.rehashStep(); err != nil {
			return err
		}
	}

	idx, pos, ok := c.find(h, key)
	if !ok {
		return ErrNotFound
	}

	backwardShift(c.tables[idx], pos)
	c.count--

	return nil
}
