// Package dnshash is a concrete implementation of the table package's
// Hasher collaborator: a 128-bit-seeded keyed hash producing a 32-bit
// digest, with an optional ASCII case-fold so that case-insensitive
// containers hash "Host" and "HOST" to the same bucket.
//
// It is grounded on github.com/dchest/siphash, the same SipHash
// construction used for keyed hashing of untrusted input in
// restic's index map and GoshawkDB's linear hash. BIND9's own
// isc_hashmap_hash (the function this package stands in for) is a
// halfsiphash24 over a 16-byte key with the same case-fold-before-hash
// behavior; SipHash-2-4 over a 128-bit key is the same idea with a
// readily available Go implementation.
package dnshash

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/dchest/siphash"
)

// Hasher implements table.Hasher with a per-instance 128-bit seed.
type Hasher struct {
	k0, k1   uint64
	caseFold bool
}

// New creates a Hasher seeded from a caller-supplied 16-byte key. Two
// Hashers built from the same seed produce identical digests for the
// same key, which lets tests pin down expected layouts; production
// callers should use NewRandom instead.
func New(seed [16]byte, caseFold bool) *Hasher {
	return &Hasher{
		k0:       binary.LittleEndian.Uint64(seed[0:8]),
		k1:       binary.LittleEndian.Uint64(seed[8:16]),
		caseFold: caseFold,
	}
}

// NewRandom creates a Hasher seeded from crypto/rand, the way a
// long-lived zone or cache table should be seeded so that repeated
// process restarts don't hash attacker-chosen keys to the same
// clusters every time.
func NewRandom(caseFold bool) *Hasher {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand.Read failing means the platform's entropy source
		// is broken; there is no sane fallback seed to keep running with.
		panic("dnshash: crypto/rand unavailable: " + err.Error())
	}
	return New(seed, caseFold)
}

// Hash implements table.Hasher.
func (h *Hasher) Hash(key []byte) uint32 {
	if h.caseFold {
		folded := make([]byte, len(key))
		for i, c := range key {
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			folded[i] = c
		}
		key = folded
	}

	digest := siphash.Hash(h.k0, h.k1, key)
	// Fold the 64-bit SipHash output down to 32 bits rather than
	// truncating, so both halves of the digest contribute to the
	// result the home-bucket top-bits extraction consumes.
	return uint32(digest) ^ uint32(digest>>32)
}
