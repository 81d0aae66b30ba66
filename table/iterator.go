package table

// Iterator walks every live entry across both tables of a Container.
// Forward traversal only; no ordering guarantee. Safe only under the
// same single-writer discipline as the rest of the Container: mutations
// other than the iterator's own DeleteCurrentAndNext must not be
// interleaved with iteration.
//
// A live Iterator holds the Container open: Close panics while one
// exists. done tracks whether this iterator has already released its
// claim, so running it past exhaustion doesn't release it twice.
type Iterator struct {
	c     *Container
	idx   uint8
	pos   uint32
	valid bool
	done  bool
}

// Iterator creates a new iterator positioned before the first entry.
// Call First to position it at the first entry. The Container cannot be
// Closed while the returned Iterator is still live.
func (c *Container) Iterator() *Iterator {
	c.checkOpen()
	c.liveIterators++
	return &Iterator{c: c}
}

// release drops this iterator's claim on its Container exactly once, so
// Close stops panicking once every iterator it handed out has either run
// to exhaustion or been abandoned after exhausting.
func (it *Iterator) release() {
	if it.done {
		return
	}
	it.done = true
	it.c.liveIterators--
}

// Close releases the iterator's claim on its Container without running
// it to exhaustion. Needed by callers that stop iterating early (a
// search that returns on the first match, say); calling it on an
// already-exhausted or already-closed iterator is a no-op.
func (it *Iterator) Close() {
	it.release()
}

// advance scans forward from (it.idx, it.pos) to the next non-empty
// bucket, switching to the other table when the current one is
// exhausted and a migration is in progress. Returns false once both
// tables are exhausted.
func (it *Iterator) advance() bool {
	c := it.c
	for {
		t := c.tables[it.idx]
		if t == nil {
			it.valid = false
			it.release()
			return false
		}
		for it.pos < t.size() {
			if !t.buckets[it.pos].empty() {
				it.valid = true
				return true
			}
			it.pos++
		}

		if it.idx == c.hindex && c.migrating() {
			it.idx = next(it.idx)
			it.pos = 0
			continue
		}

		it.valid = false
		it.release()
		return false
	}
}

// First positions the iterator at the first entry, scanning the primary
// table first and the secondary table second (if migration is in
// progress). Returns false if the container is empty.
func (it *Iterator) First() bool {
	it.idx = it.c.hindex
	it.pos = 0
	return it.advance()
}

// Next advances to the next entry. Returns false once exhausted.
func (it *Iterator) Next() bool {
	require(it.valid, "rhmap: Next called on an exhausted or unstarted iterator")
	it.pos++
	return it.advance()
}

// DeleteCurrentAndNext deletes the entry the iterator currently sits on
// and advances. Because backward-shift compaction can slide a neighbor
// into the just-vacated slot, the iterator does not pre-increment
// before rescanning: the next bucket examined is the very slot that was
// just compacted into, not pos+1.
func (it *Iterator) DeleteCurrentAndNext() bool {
	require(it.valid, "rhmap: DeleteCurrentAndNext called on an exhausted or unstarted iterator")

	t := it.c.tables[it.idx]
	backwardShift(t, it.pos)
	it.c.count--

	it.valid = false
	return it.advance()
}

// Key returns the key the iterator currently sits on.
func (it *Iterator) Key() []byte {
	require(it.valid, "rhmap: Key called on an exhausted or unstarted iterator")
	return it.c.tables[it.idx].buckets[it.pos].key
}

// Value returns the value the iterator currently sits on.
func (it *Iterator) Value() any {
	require(it.valid, "rhmap: Value called on an exhausted or unstarted iterator")
	return it.c.tables[it.idx].buckets[it.pos].value
}
