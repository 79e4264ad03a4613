package rsk

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/pep-project/crypto-core/elgamal"
	"github.com/pep-project/crypto-core/group"
)

// rskVerifierTables holds fixed-base scalar-mult tables for a recipient's
// two recurring verifier points (Z/K)*G and Z*G. Building a table costs 256
// point doublings once; after that, multiplying the same base by many
// different (per-proof) challenge scalars is a sequence of conditional
// selects instead of a full double-and-add. Grounded on the reuse pattern in
// original_source/cpp/pep/rsk/RskTranslator.cpp, where certifiedRsk and
// computeRskProofVerifiers recompute BaseMult(z) and BaseMult(z/k) for the
// same recipient on every call; the table amortizes that across repeated
// calls instead.
type rskVerifierTables struct {
	zOverKG *group.ScalarMultTable
	zG      *group.ScalarMultTable
}

type cacheEntry struct {
	verifiers  RSKVerifiers
	tables     rskVerifierTables
	generation uint64
}

// RSKCache memoizes per-recipient RSKVerifiers and their scalar-mult tables,
// keyed on the packed (z, k) scalar pair. A translator holds one cache for
// its lifetime (spec §4.3); CertifiedRSK and proof verification against the
// same recurring recipient become cheap after the first call.
type RSKCache struct {
	mu         sync.RWMutex
	entries    map[[64]byte]*cacheEntry
	generation atomic.Uint64
	tableHits  atomic.Uint64
	rskUses    atomic.Uint64
}

// NewRSKCache returns an empty cache.
func NewRSKCache() *RSKCache {
	return &RSKCache{entries: make(map[[64]byte]*cacheEntry)}
}

// Metrics reports the cache's lifetime hit/use counters.
type Metrics struct {
	TableHits uint64
	RSKUses   uint64
}

// Metrics returns a snapshot of the cache's counters.
func (c *RSKCache) Metrics() Metrics {
	return Metrics{
		TableHits: c.tableHits.Load(),
		RSKUses:   c.rskUses.Load(),
	}
}

// Invalidate bumps the cache generation, causing every entry present at the
// time of the next lookup to be rebuilt. Existing *RSKVerifiers values
// already returned to callers remain valid cryptographically; this only
// affects future lookups, e.g. after a key-rotation event.
func (c *RSKCache) Invalidate() {
	c.generation.Add(1)
}

func cacheKey(z, k group.Scalar) [64]byte {
	var key [64]byte
	copy(key[0:32], z.Encode())
	copy(key[32:64], k.Encode())
	return key
}

func (c *RSKCache) entryFor(z, k group.Scalar) *cacheEntry {
	gen := c.generation.Load()
	key := cacheKey(z, k)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && entry.generation == gen {
		c.tableHits.Add(1)
		return entry
	}

	zOverK := z.Multiply(k.Invert())
	zG := group.BaseMult(z)
	zOverKG := group.BaseMult(zOverK)
	entry = &cacheEntry{
		verifiers: RSKVerifiers{
			ZOverKG: zOverKG,
			ZG:      zG,
		},
		tables: rskVerifierTables{
			zOverKG: group.NewScalarMultTable(zOverKG),
			zG:      group.NewScalarMultTable(zG),
		},
		generation: gen,
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return entry
}

// Verifiers returns the RSKVerifiers for reshuffle factor z, rekey factor k
// and master public key y, building and caching the underlying tables on
// first use for this (z, k) pair.
func (c *RSKCache) Verifiers(z, k group.Scalar, y group.GroupElement) RSKVerifiers {
	entry := c.entryFor(z, k)
	v := entry.verifiers
	v.KY = y.Mult(k)
	return v
}

// CertifiedRSK behaves like the package-level CertifiedRSK function, but
// reuses this cache's tables for the zG and zOverKG points the proof needs,
// instead of recomputing BaseMult for a recipient this cache has already
// seen.
func (c *RSKCache) CertifiedRSK(pre elgamal.Encryption, z, k group.Scalar, rng io.Reader) (elgamal.Encryption, RSKProof, error) {
	out, zOverK, r, ry, rB, err := rskTransform(pre, z, k, rng)
	if err != nil {
		return elgamal.Encryption{}, RSKProof{}, err
	}
	entry := c.entryFor(z, k)
	c.rskUses.Add(1)
	proof, err := createRSKProof(
		pre, out,
		z, entry.verifiers.ZG,
		zOverK, entry.verifiers.ZOverKG,
		r, ry, rB,
		rng,
	)
	if err != nil {
		return elgamal.Encryption{}, RSKProof{}, err
	}
	return out, proof, nil
}

// VerifyRSKProof verifies proof against pre/post using this cache's
// precomputed tables for the (z, k) recipient, falling back to the tables'
// underlying points directly (they are exact, not an approximation).
func (c *RSKCache) VerifyRSKProof(proof RSKProof, pre, post elgamal.Encryption, z, k group.Scalar, y group.GroupElement) error {
	entry := c.entryFor(z, k)
	c.rskUses.Add(1)
	verifiers := entry.verifiers
	verifiers.KY = y.Mult(k)
	return proof.verifyWithTables(pre, post, verifiers, &entry.tables)
}
