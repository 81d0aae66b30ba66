package table

// maxKeyLen bounds key length to what fits in a uint16, matching the
// width the source representation reserves for key_len.
const maxKeyLen = 65535

// Container is the hash table itself: two table slots (both filled
// while a migration is in progress, only the primary otherwise), the index of the
// primary (write-receiving) table, the migration cursor into the
// secondary table, a live entry count, a per-instance hash seed held by
// the injected Hasher, and a case-sensitivity flag.
//
// A Container is single-threaded-cooperative: the caller must ensure at
// most one of Find/Add/Delete/iterator-creation/iterator-advance runs
// against it at a time. There are no internal locks and no suspension
// points.
type Container struct {
	tables [2]*tbl
	hindex uint8
	hiter  uint32
	count  uint32

	caseSensitive bool
	hasher        Hasher
	alloc         Allocator

	closed        bool
	liveIterators int
}

// Option configures a Container at construction time.
type Option func(*Container)

// WithCaseInsensitive makes the container compare keys under an ASCII
// case fold instead of byte-for-byte. Default is case-sensitive.
func WithCaseInsensitive() Option {
	return func(c *Container) { c.caseSensitive = false }
}

// WithHasher supplies the keyed hash collaborator. New panics if none is
// given: the core has no business picking its own seed or hash function,
// that is the caller's call to make.
func WithHasher(h Hasher) Option {
	return func(c *Container) { c.hasher = h }
}

// WithAllocator supplies the memory source collaborator. Defaults to a
// plain make/drop allocator that never fails.
func WithAllocator(a Allocator) Option {
	return func(c *Container) { c.alloc = a }
}

// New creates a Container with primary table sized 2^bits, bits in
// [1,32]. A Hasher must be supplied via WithHasher; all other options
// are optional.
func New(bits int, opts ...Option) (*Container, error) {
	require(bits >= minBits && bits <= maxBits, "rhmap: bits %d out of range [%d,%d]", bits, minBits, maxBits)

	c := &Container{
		caseSensitive: true,
		alloc:         defaultAllocator{},
	}
	for _, opt := range opts {
		opt(c)
	}
	require(c.hasher != nil, "rhmap: New requires WithHasher")

	t, err := newTable(c.alloc, uint8(bits))
	if err != nil {
		return nil, err
	}
	c.tables[0] = t
	c.hindex = 0

	return c, nil
}

// Close frees both table arrays back to the Allocator. Caller-owned
// keys and values are never touched. The Container must not be used
// again after Close; doing so panics. Close also panics if any Iterator
// created from this Container is still live: freeing the buckets out
// from under an iterator would turn "traversal exhausted" into a lie
// instead of a crash, which is worse.
func (c *Container) Close() {
	c.checkOpen()
	require(c.liveIterators == 0, "rhmap: Close called with %d live iterator(s) outstanding", c.liveIterators)
	for i, t := range c.tables {
		if t != nil {
			t.free(c.alloc)
			c.tables[i] = nil
		}
	}
	c.closed = true
}

func (c *Container) checkOpen() {
	require(!c.closed, "rhmap: use of Container after Close")
}

// Hash exposes the keyed hash so callers can hash once and reuse the
// digest across several calls (Find then Add on a miss, say) instead of
// rehashing the same key twice.
func (c *Container) Hash(key []byte) uint32 {
	c.checkOpen()
	return c.hasher.Hash(key)
}

func (c *Container) resolveHash(hash *uint32, key []byte) uint32 {
	if hash != nil {
		return *hash
	}
	return c.hasher.Hash(key)
}

// Count returns the number of live entries across both tables.
func (c *Container) Count() int {
	c.checkOpen()
	return int(c.count)
}
