package analyzer

import (
	"context"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// Fingerprint is the content hash of one block
type Fingerprint struct {
	Hash  uint64
	Block *NormalizedBlock
}

// FingerprintIndex buckets blocks that are candidates for matching.
// It is scoped to a single analysis.
type FingerprintIndex struct {
	Fingerprints []Fingerprint

	blocks   []*NormalizedBlock
	exact    map[uint64][]int
	lsh      *LSHIndex
	shingles map[int][]uint64
}

// BuildIndex fingerprints every block. In near-miss mode blocks are also
// filed into LSH buckets by MinHash signature.
func BuildIndex(ctx context.Context, blocks []*NormalizedBlock, config *Config) (*FingerprintIndex, error) {
	idx := &FingerprintIndex{
		Fingerprints: make([]Fingerprint, 0, len(blocks)),
		blocks:       blocks,
		exact:        make(map[uint64][]int),
		shingles:     make(map[int][]uint64, len(blocks)),
	}

	var hasher *MinHasher
	if config.Mode == domain.ModeNearMiss {
		idx.lsh = NewLSHIndex(LSHConfig{Bands: config.LSHBands, Rows: config.LSHRows})
		hasher = NewMinHasher(config.NumHashes())
	}

	for i, block := range blocks {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if block.ID != i {
			return nil, domain.NewInvariantViolation("block %d indexed at position %d", block.ID, i)
		}

		policy := block.PolicySequence()
		hash := contentHash(block.Granularity, policy)
		idx.Fingerprints = append(idx.Fingerprints, Fingerprint{Hash: hash, Block: block})
		idx.exact[hash] = append(idx.exact[hash], block.ID)

		shingles := Shingles(policy, config.ShingleSize)
		idx.shingles[block.ID] = shingles
		if hasher != nil {
			if err := idx.lsh.Add(block.ID, string(block.Granularity), hasher.ComputeSignature(shingles)); err != nil {
				return nil, err
			}
		}
	}
	return idx, nil
}

func contentHash(g domain.Granularity, tokens []string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(string(g))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strings.Join(tokens, "\x1f"))
	return d.Sum64()
}

// Buckets returns candidate groups: identical-hash buckets first, then LSH
// buckets. Single-member buckets are dropped and the order is deterministic.
func (idx *FingerprintIndex) Buckets() [][]*NormalizedBlock {
	hashes := make([]uint64, 0, len(idx.exact))
	for h, ids := range idx.exact {
		if len(ids) >= 2 {
			hashes = append(hashes, h)
		}
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	var out [][]*NormalizedBlock
	for _, h := range hashes {
		out = append(out, idx.resolve(idx.exact[h]))
	}
	if idx.lsh != nil {
		for _, ids := range idx.lsh.CandidateGroups() {
			out = append(out, idx.resolve(ids))
		}
	}
	return out
}

// IsExactBucket reports whether two blocks share a content fingerprint
func (idx *FingerprintIndex) IsExactBucket(a, b *NormalizedBlock) bool {
	return idx.Fingerprints[a.ID].Hash == idx.Fingerprints[b.ID].Hash
}

// Shingles returns the shingle set of a block
func (idx *FingerprintIndex) Shingles(b *NormalizedBlock) []uint64 {
	return idx.shingles[b.ID]
}

// Block returns the block with the given id
func (idx *FingerprintIndex) Block(id int) *NormalizedBlock {
	return idx.blocks[id]
}

func (idx *FingerprintIndex) resolve(ids []int) []*NormalizedBlock {
	out := make([]*NormalizedBlock, len(ids))
	for i, id := range ids {
		out[i] = idx.blocks[id]
	}
	return out
}
