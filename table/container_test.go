package table_test

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnszone/rhmap/table"
)

// fnvHasher is a deterministic stand-in for the keyed-hash collaborator,
// used only so tests are reproducible; production callers use dnshash.
type fnvHasher struct{}

func (fnvHasher) Hash(key []byte) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(key)
	return h.Sum32()
}

func newContainer(t *testing.T, bits int, opts ...table.Option) *table.Container {
	t.Helper()
	c, err := table.New(bits, append([]table.Option{table.WithHasher(fnvHasher{})}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func k(s string) []byte { return []byte(s) }

func TestAddFindIterateDeleteRoundTrip(t *testing.T) {
	c := newContainer(t, 1)

	require.NoError(t, c.Add(nil, k("a"), 1))
	require.NoError(t, c.Add(nil, k("b"), 2))
	require.NoError(t, c.Add(nil, k("c"), 3))
	assert.Equal(t, 3, c.Count())

	v, err := c.Find(nil, k("b"))
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	seen := map[string]int{}
	it := c.Iterator()
	for ok := it.First(); ok; ok = it.Next() {
		seen[string(it.Key())] = it.Value().(int)
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, seen)

	require.NoError(t, c.Delete(nil, k("b")))
	_, err = c.Find(nil, k("b"))
	assert.ErrorIs(t, err, table.ErrNotFound)
	assert.Equal(t, 2, c.Count())

	seen = map[string]int{}
	it = c.Iterator()
	for ok := it.First(); ok; ok = it.Next() {
		seen[string(it.Key())] = it.Value().(int)
	}
	assert.Equal(t, map[string]int{"a": 1, "c": 3}, seen)
}

func TestCaseInsensitiveContainerFoldsASCII(t *testing.T) {
	c := newContainer(t, 8, table.WithCaseInsensitive())

	require.NoError(t, c.Add(nil, k("Host"), "v1"))

	v, err := c.Find(nil, k("host"))
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	v, err = c.Find(nil, k("HOST"))
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	err = c.Add(nil, k("HOST"), "v2")
	assert.ErrorIs(t, err, table.ErrExists)
}

func TestCaseSensitiveDoesNotFold(t *testing.T) {
	c := newContainer(t, 8)

	require.NoError(t, c.Add(nil, k("Host"), 1))
	_, err := c.Find(nil, k("host"))
	assert.ErrorIs(t, err, table.ErrNotFound)
}

func TestInsertManyThenDeleteAllEmptiesContainer(t *testing.T) {
	c := newContainer(t, 4)

	const n = 100
	keys := make([][]byte, n)
	for i := 0; i < n; i++ {
		keys[i] = []byte(fmt.Sprintf("%04d", i))
		require.NoError(t, c.Add(nil, keys[i], i))
	}
	assert.Equal(t, n, c.Count())

	perm := rand.Perm(n)
	for _, i := range perm {
		require.NoError(t, c.Delete(nil, keys[i]))
	}
	assert.Equal(t, 0, c.Count())

	for i := 0; i < n; i++ {
		_, err := c.Find(nil, keys[i])
		assert.ErrorIs(t, err, table.ErrNotFound)
	}
}

func TestPrecomputedHashRoundTripsThroughAddDeleteFind(t *testing.T) {
	c := newContainer(t, 4)

	h := c.Hash(k("x"))
	require.NoError(t, c.Add(&h, k("x"), 1))
	require.NoError(t, c.Delete(&h, k("x")))

	_, err := c.Find(&h, k("x"))
	assert.ErrorIs(t, err, table.ErrNotFound)
}

func TestAddDuplicateReturnsExists(t *testing.T) {
	c := newContainer(t, 4)

	require.NoError(t, c.Add(nil, k("dup"), 1))
	err := c.Add(nil, k("dup"), 2)
	assert.ErrorIs(t, err, table.ErrExists)

	v, err := c.Find(nil, k("dup"))
	require.NoError(t, err)
	assert.Equal(t, 1, v, "the original value must survive a rejected duplicate Add")
}

// Insertion at minimum bits with enough keys must trigger and complete
// growth without losing or duplicating any entry.
func TestGrowthTriggersAndCompletes(t *testing.T) {
	c := newContainer(t, 1)

	const n = 64
	for i := 0; i < n; i++ {
		require.NoError(t, c.Add(nil, []byte(fmt.Sprintf("key-%d", i)), i))
	}

	for i := 0; i < n; i++ {
		v, err := c.Find(nil, []byte(fmt.Sprintf("key-%d", i)))
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, n, c.Count())
}

// Boundary: keys of length 0 and 65535 round-trip.
func TestKeyLengthBoundaries(t *testing.T) {
	c := newContainer(t, 4)

	require.NoError(t, c.Add(nil, []byte{}, "empty"))
	v, err := c.Find(nil, []byte{})
	require.NoError(t, err)
	assert.Equal(t, "empty", v)

	big := make([]byte, 65535)
	for i := range big {
		big[i] = byte(i)
	}
	require.NoError(t, c.Add(nil, big, "big"))
	v, err = c.Find(nil, big)
	require.NoError(t, err)
	assert.Equal(t, "big", v)
}

func TestOversizedKeyPanics(t *testing.T) {
	c := newContainer(t, 4)
	tooBig := make([]byte, 65536)

	assert.Panics(t, func() {
		_ = c.Add(nil, tooBig, 1)
	})
}

// Add must reject a key found in the secondary table during migration
// without moving or replacing it.
func TestAddDuplicateDuringMigration(t *testing.T) {
	c := newContainer(t, 1)

	const n = 40
	keys := make([][]byte, n)
	for i := 0; i < n; i++ {
		keys[i] = []byte(fmt.Sprintf("mig-%d", i))
		require.NoError(t, c.Add(nil, keys[i], i))
	}

	// Re-adding an already-present key at any point during the churn
	// above (which necessarily triggered at least one grow migration at
	// bits=1) must still report ErrExists without corrupting the
	// original value.
	err := c.Add(nil, keys[0], -1)
	assert.ErrorIs(t, err, table.ErrExists)

	v, err := c.Find(nil, keys[0])
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

// Randomized cross-check against a reference Go map: every Find/Add/
// Delete must agree with what the reference map would have done.
func TestCrossCheckAgainstBuiltinMap(t *testing.T) {
	c := newContainer(t, 1)
	ref := make(map[string]int)

	const nops = 20000
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < nops; i++ {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(rng.Intn(500)))
		key := buf[:]
		keyStr := string(key)

		switch rng.Intn(3) {
		case 0: // find
			v, err := c.Find(nil, key)
			refV, refOK := ref[keyStr]
			if refOK {
				require.NoError(t, err)
				assert.Equal(t, refV, v)
			} else {
				assert.ErrorIs(t, err, table.ErrNotFound)
			}
		case 1: // add
			val := rng.Int()
			err := c.Add(nil, append([]byte(nil), key...), val)
			if _, exists := ref[keyStr]; exists {
				assert.ErrorIs(t, err, table.ErrExists)
			} else {
				require.NoError(t, err)
				ref[keyStr] = val
			}
		case 2: // delete
			err := c.Delete(nil, key)
			if _, exists := ref[keyStr]; exists {
				require.NoError(t, err)
				delete(ref, keyStr)
			} else {
				assert.ErrorIs(t, err, table.ErrNotFound)
			}
		}
	}

	require.Equal(t, len(ref), c.Count())

	it := c.Iterator()
	seen := map[string]int{}
	for ok := it.First(); ok; ok = it.Next() {
		seen[string(it.Key())] = it.Value().(int)
	}
	assert.Equal(t, ref, seen)
}

