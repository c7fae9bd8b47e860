package analyzer

import (
	"math"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// minHashSeed seeds the hash family; fixed so signatures are reproducible
const minHashSeed = 0x5eed_1234_cafe_babe

// MinHashSignature holds the signature vector
type MinHashSignature struct {
	signatures []uint64
}

// Values returns the signature vector
func (s *MinHashSignature) Values() []uint64 {
	return s.signatures
}

// MinHasher computes MinHash signatures for shingle sets
type MinHasher struct {
	a, b []uint64
}

// NewMinHasher creates a MinHasher with numHashes functions (default 64 if invalid)
func NewMinHasher(numHashes int) *MinHasher {
	if numHashes <= 0 {
		numHashes = 64
	}
	mh := &MinHasher{a: make([]uint64, numHashes), b: make([]uint64, numHashes)}
	state := uint64(minHashSeed)
	for i := 0; i < numHashes; i++ {
		state = splitmix64(state)
		// Odd multipliers avoid trivial cycles.
		mh.a[i] = state | 1
		state = splitmix64(state)
		mh.b[i] = state
	}
	return mh
}

// NumHashes returns the signature length
func (m *MinHasher) NumHashes() int { return len(m.a) }

// ComputeSignature computes the MinHash signature of a shingle set
func (m *MinHasher) ComputeSignature(shingles []uint64) *MinHashSignature {
	sig := make([]uint64, len(m.a))
	for i := range sig {
		sig[i] = math.MaxUint64
	}
	for _, x := range shingles {
		for i := range sig {
			if v := mix64(m.a[i]*x ^ m.b[i]); v < sig[i] {
				sig[i] = v
			}
		}
	}
	return &MinHashSignature{signatures: sig}
}

// EstimateJaccardSimilarity estimates Jaccard similarity via signature agreement ratio
func (m *MinHasher) EstimateJaccardSimilarity(sig1, sig2 *MinHashSignature) float64 {
	if sig1 == nil || sig2 == nil {
		return 0.0
	}
	n := min(len(sig1.signatures), len(sig2.signatures))
	if n == 0 {
		return 0.0
	}
	match := 0
	for i := 0; i < n; i++ {
		if sig1.signatures[i] == sig2.signatures[i] {
			match++
		}
	}
	return float64(match) / float64(n)
}

// Shingles returns the sorted, de-duplicated k-gram hashes of a token sequence.
// Sequences shorter than k form a single shingle.
func Shingles(tokens []string, k int) []uint64 {
	if len(tokens) == 0 {
		return nil
	}
	if k <= 0 {
		k = 1
	}
	if len(tokens) < k {
		return []uint64{xxhash.Sum64String(strings.Join(tokens, "\x1f"))}
	}
	set := make(map[uint64]struct{}, len(tokens)-k+1)
	for i := 0; i+k <= len(tokens); i++ {
		set[xxhash.Sum64String(strings.Join(tokens[i:i+k], "\x1f"))] = struct{}{}
	}
	out := make([]uint64, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	return mix64(x)
}

// mix64 is the murmur3 finalizer
func mix64(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}
