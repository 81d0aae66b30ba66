// Package table implements an in-memory associative container for
// variable-length byte-string keys mapped to opaque values: an
// open-addressed, power-of-two-sized hash table using Robin Hood
// displacement for insertion, linear probing for lookup,
// backward-shift compaction for deletion, and incremental (amortized)
// rehashing across two live tables during growth and shrink
// transitions.
//
// The package is engineered as a low-level building block for
// higher-level caches with variable-length byte-string keys. The
// motivating case is a DNS server's zone and cache machinery, where
// millions of entries churn over the life of the process and neither
// worst-case probe length nor amortized mutation cost may spike.
//
// Two collaborators are intentionally external to this package: the
// keyed hash function (Hasher) and the bucket-array memory source
// (Allocator). See the dnshash package for a concrete Hasher.
// Case-insensitive key comparison is handled internally via an
// ASCII-only fold, toggled with WithCaseInsensitive.
//
// Container is single-threaded-cooperative: callers must serialize all
// calls against a given Container (including iterator use) themselves.
package table
