// Package zonecache is the zone and cache machinery the core table
// package was built for: it wires a table.Container to
// github.com/miekg/dns record and name types, exercising
// case-insensitive owner-name lookups the way a real zone or resolver
// cache would.
//
// It is a thin assembly of collaborators, not part of the core: the key
// is a composite of owner name and query type, the value is an RRset,
// and every operation is a direct delegation to the underlying
// Container.
package zonecache

import (
	"encoding/binary"

	"github.com/miekg/dns"

	"github.com/dnszone/rhmap/dnshash"
	"github.com/dnszone/rhmap/table"
)

// RRSetCache is a case-insensitive cache of DNS RRsets keyed by owner
// name and query type, backed by the core Robin Hood table.
type RRSetCache struct {
	c *table.Container
}

// New creates an empty RRSetCache sized for roughly 2^bits entries. The
// table's bucket arrays are drawn from a PooledAllocator: a zone cache
// churns through grow/shrink migrations as a zone is loaded and updated,
// and recycling same-size bucket arrays across those migrations avoids
// re-churning the Go heap on every one.
func New(bits int) (*RRSetCache, error) {
	c, err := table.New(bits,
		table.WithCaseInsensitive(),
		table.WithHasher(dnshash.NewRandom(true)),
		table.WithAllocator(table.NewPooledAllocator()),
	)
	if err != nil {
		return nil, err
	}
	return &RRSetCache{c: c}, nil
}

// Close releases the cache's underlying table.
func (z *RRSetCache) Close() {
	z.c.Close()
}

// compositeKey builds the lookup key from a canonicalized owner name
// and a query type, so "www.EXAMPLE.com." A and "www.example.com." A
// collide and "www.example.com." AAAA does not.
func compositeKey(owner string, qtype uint16) []byte {
	name := dns.CanonicalName(owner)
	key := make([]byte, len(name)+2)
	copy(key, name)
	binary.BigEndian.PutUint16(key[len(name):], qtype)
	return key
}

// Insert adds the RRset for owner/qtype. Returns table.ErrExists if one
// is already cached; callers that want replace-on-write should Remove
// first.
func (z *RRSetCache) Insert(owner string, qtype uint16, rrs []dns.RR) error {
	return z.c.Add(nil, compositeKey(owner, qtype), rrs)
}

// Lookup returns the cached RRset for owner/qtype, if any.
func (z *RRSetCache) Lookup(owner string, qtype uint16) ([]dns.RR, bool) {
	v, err := z.c.Find(nil, compositeKey(owner, qtype))
	if err != nil {
		return nil, false
	}
	return v.([]dns.RR), true
}

// Remove evicts the cached RRset for owner/qtype, if any. Returns
// table.ErrNotFound if there was nothing to remove.
func (z *RRSetCache) Remove(owner string, qtype uint16) error {
	return z.c.Delete(nil, compositeKey(owner, qtype))
}

// Count returns the number of cached RRsets.
func (z *RRSetCache) Count() int {
	return z.c.Count()
}

// Each calls fn with every cached RRset by walking the underlying
// iterator, stopping early if fn returns false.
// Owner name and query type are not split back out of the composite
// key here. Callers that need them should keep their own index, or
// store a struct that embeds the owner name alongside the RRset.
func (z *RRSetCache) Each(fn func(rrs []dns.RR) bool) {
	it := z.c.Iterator()
	defer it.Close()
	for ok := it.First(); ok; {
		if !fn(it.Value().([]dns.RR)) {
			return
		}
		ok = it.Next()
	}
}
