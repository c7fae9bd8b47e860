package analyzer

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// LSHIndex implements Locality Sensitive Hashing with the banding technique.
// It is built once per analysis and not shared.
type LSHIndex struct {
	bands   int
	rows    int
	buckets map[uint64][]int // band key -> block ids
}

// LSHConfig holds configuration parameters for LSH
type LSHConfig struct {
	Bands int // Number of bands (default: 16)
	Rows  int // Rows per band (default: 4)
}

// NewLSHIndex creates a new LSH index with the given configuration
func NewLSHIndex(config LSHConfig) *LSHIndex {
	if config.Bands <= 0 {
		config.Bands = 16
	}
	if config.Rows <= 0 {
		config.Rows = 4
	}
	return &LSHIndex{
		bands:   config.Bands,
		rows:    config.Rows,
		buckets: make(map[uint64][]int),
	}
}

// Add files a block's signature into one bucket per band.
// salt separates otherwise equal signatures, e.g. of different granularities.
func (idx *LSHIndex) Add(id int, salt string, signature *MinHashSignature) error {
	if signature == nil {
		return fmt.Errorf("signature cannot be nil")
	}
	sigs := signature.Values()
	if len(sigs) < idx.bands*idx.rows {
		return fmt.Errorf("signature has %d hashes, but need at least %d (bands=%d, rows=%d)",
			len(sigs), idx.bands*idx.rows, idx.bands, idx.rows)
	}
	for band := 0; band < idx.bands; band++ {
		key := idx.bandKey(salt, sigs, band)
		idx.buckets[key] = append(idx.buckets[key], id)
	}
	return nil
}

// bandKey hashes the rows of one band together with the band index
func (idx *LSHIndex) bandKey(salt string, sigs []uint64, band int) uint64 {
	buf := make([]byte, 0, len(salt)+8+idx.rows*8)
	buf = append(buf, salt...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(band))
	for i := band * idx.rows; i < (band+1)*idx.rows; i++ {
		buf = binary.LittleEndian.AppendUint64(buf, sigs[i])
	}
	return xxhash.Sum64(buf)
}

// CandidateGroups returns every bucket holding two or more distinct ids,
// sorted by bucket key, each group sorted by id
func (idx *LSHIndex) CandidateGroups() [][]int {
	keys := make([]uint64, 0, len(idx.buckets))
	for key, ids := range idx.buckets {
		if len(ids) >= 2 {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	groups := make([][]int, 0, len(keys))
	for _, key := range keys {
		ids := uniqueSorted(idx.buckets[key])
		if len(ids) >= 2 {
			groups = append(groups, ids)
		}
	}
	return groups
}

// Size returns the number of buckets
func (idx *LSHIndex) Size() int {
	return len(idx.buckets)
}

func uniqueSorted(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	n := 0
	for i, id := range out {
		if i == 0 || id != out[n-1] {
			out[n] = id
			n++
		}
	}
	return out[:n]
}
