package table

// Fixed-point percentage helpers, ported from the thresholds the
// original BIND9 isc_hashmap implementation this spec distills uses
// (APPROX_90_PERCENT / APPROX_40_PERCENT / APPROX_20_PERCENT), so the
// same thresholds survive in integer arithmetic rather than drifting
// under float rounding across repeated grow/shrink cycles. The products
// are taken in 64 bits so large tables do not overflow. approx90 and
// approx40 round down, which is exact for the strict "count > x" tests
// they feed; approx20 rounds up, which is exact for the strict
// "count < x" shrink test (so an empty size-4 table still shrinks).
func approx90(x uint32) uint32 { return uint32((uint64(x) * 921) >> 10) }
func approx40(x uint32) uint32 { return uint32((uint64(x) * 409) >> 10) }
func approx20(x uint32) uint32 { return uint32((uint64(x)*205 + 1023) >> 10) }

func next(idx uint8) uint8 {
	if idx == 0 {
		return 1
	}
	return 0
}

// migrating reports whether a secondary (old) table currently exists.
// Its presence is the sole migrating/settled state flag; there is no
// separate enum field that could fall out of sync with it.
func (c *Container) migrating() bool {
	return c.tables[next(c.hindex)] != nil
}

// overGrowThreshold implements the growth trigger: count > 90% of the
// primary table's size, unless it is already at the maximum bit width.
func (c *Container) overGrowThreshold() bool {
	primary := c.tables[c.hindex]
	if primary.bits == maxBits {
		return false
	}
	return c.count > approx90(primary.size())
}

// underShrinkThreshold implements the shrink trigger: count < 20% of
// the primary table's size, unless it is already at the minimum bit
// width.
func (c *Container) underShrinkThreshold() bool {
	primary := c.tables[c.hindex]
	if primary.bits == minBits {
		return false
	}
	return c.count < approx20(primary.size())
}

// growBits picks the target bit width for a grow migration: start from
// bits+1 and keep incrementing while the resulting table would be more
// than 40% full, so migration itself does not immediately re-trigger
// growth. Capped at maxBits.
func growBits(bits uint8, count uint32) uint8 {
	newBits := bits + 1
	for count > approx40(uint32(1)<<newBits) && newBits < maxBits {
		newBits++
	}
	if newBits > maxBits {
		newBits = maxBits
	}
	return newBits
}

// shrinkBits picks the target bit width for a shrink migration: one bit
// narrower, floored at floor (every caller passes minBits).
func shrinkBits(bits uint8, floor uint8) uint8 {
	if bits <= floor+1 {
		return floor
	}
	return bits - 1
}

// startGrow begins a grow migration: allocates the new (secondary)
// table at the chosen bit width and flips hindex so the new table
// becomes primary. A no-op if the computed target is not actually
// larger than the current primary (can happen once bits == maxBits).
func (c *Container) startGrow() error {
	require(!c.migrating(), "rhmap: startGrow called while already migrating")

	oldIdx := c.hindex
	oldBits := c.tables[oldIdx].bits
	newBits := growBits(oldBits, c.count)
	if newBits <= oldBits {
		return nil
	}

	newIdx := next(oldIdx)
	newTbl, err := newTable(c.alloc, newBits)
	if err != nil {
		return err
	}
	c.tables[newIdx] = newTbl
	c.hindex = newIdx
	c.hiter = 0

	return nil
}

// startShrink begins a shrink migration, symmetric to startGrow.
func (c *Container) startShrink() error {
	require(!c.migrating(), "rhmap: startShrink called while already migrating")

	oldIdx := c.hindex
	oldBits := c.tables[oldIdx].bits
	newBits := shrinkBits(oldBits, minBits)
	if newBits >= oldBits {
		return nil
	}

	newIdx := next(oldIdx)
	newTbl, err := newTable(c.alloc, newBits)
	if err != nil {
		return err
	}
	c.tables[newIdx] = newTbl
	c.hindex = newIdx
	c.hiter = 0

	return nil
}

// rehashStep performs exactly one unit of migration work: advance hiter
// to the next non-empty bucket in the secondary table; if none remains,
// free the secondary table and end the migration. Otherwise move that
// one entry into the primary table via backward-shift removal from the
// secondary followed by a primary-insertion-only Add. hiter is
// deliberately not advanced after a successful move, because
// backward-shift may have just slid a different entry into the slot
// hiter already points at.
func (c *Container) rehashStep() error {
	oldIdx := next(c.hindex)
	old := c.tables[oldIdx]
	if old == nil {
		return nil
	}

	for c.hiter < old.size() && old.buckets[c.hiter].empty() {
		c.hiter++
	}

	if c.hiter >= old.size() {
		old.free(c.alloc)
		c.tables[oldIdx] = nil
		c.hiter = 0
		return nil
	}

	moved := old.buckets[c.hiter]
	backwardShift(old, c.hiter)

	primary := c.tables[c.hindex]
	if err := insertNew(primary, moved.hash32, moved.key, moved.value, c.caseSensitive); err != nil {
		// A moved entry colliding with an existing primary entry would
		// mean the same key lived in both tables at once, which the
		// single-writer discipline the whole Container relies on rules
		// out.
		panic("rhmap: duplicate key observed while migrating: " + err.Error())
	}

	return nil
}
