package analyzer

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// cloneNamespace derives deterministic clone and suggestion ids
var cloneNamespace = uuid.MustParse("5f0c9e52-3a57-4c1e-9d0a-6b2f8e3c7a11")

// ClonePair is a retained edge between two similar blocks
type ClonePair struct {
	A, B       *NormalizedBlock
	Similarity float64
}

// Cluster is a group of blocks produced by transitive merging
type Cluster struct {
	Members    []*NormalizedBlock
	Similarity float64
	Type       domain.CloneType
	Match      domain.CloneMatch
}

// Matcher turns fingerprint buckets into clone clusters
type Matcher struct {
	config *Config
}

// NewMatcher creates a matcher
func NewMatcher(config *Config) *Matcher {
	return &Matcher{config: config}
}

// Match compares candidate pairs, merges them transitively, classifies the
// clusters and resolves overlaps between granularities
func (m *Matcher) Match(ctx context.Context, unit *parser.SourceUnit, index *FingerprintIndex) ([]domain.CloneMatch, []*Cluster, error) {
	pairs, err := m.candidatePairs(ctx, index)
	if err != nil {
		return nil, nil, err
	}

	clusters := m.groupClones(unit, index, pairs)
	clusters = resolveOverlaps(clusters)

	matches := make([]domain.CloneMatch, 0, len(clusters))
	for _, c := range clusters {
		if err := checkMatch(unit, &c.Match); err != nil {
			return nil, nil, err
		}
		matches = append(matches, c.Match)
	}
	return matches, clusters, nil
}

// candidatePairs scores every distinct, non-overlapping pair sharing a bucket
func (m *Matcher) candidatePairs(ctx context.Context, index *FingerprintIndex) ([]ClonePair, error) {
	threshold := m.config.Threshold()
	seen := make(map[[2]int]bool)
	var pairs []ClonePair
	compared := 0

	for _, bucket := range index.Buckets() {
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				a, b := bucket[i], bucket[j]
				key := [2]int{min(a.ID, b.ID), max(a.ID, b.ID)}
				if seen[key] {
					continue
				}
				seen[key] = true
				if a.Lines().Overlaps(b.Lines()) {
					continue
				}

				compared++
				if compared%64 == 0 {
					if err := ctx.Err(); err != nil {
						return nil, err
					}
				}

				sim := m.similarity(index, a, b)
				if sim >= threshold {
					pairs = append(pairs, ClonePair{A: a, B: b, Similarity: sim})
				}
			}
		}
	}
	return pairs, nil
}

func (m *Matcher) similarity(index *FingerprintIndex, a, b *NormalizedBlock) float64 {
	if index.IsExactBucket(a, b) && slices.Equal(a.PolicySequence(), b.PolicySequence()) {
		return 1.0
	}
	jaccard := 0.0
	if a.Granularity != domain.GranularityStatement {
		jaccard = JaccardSimilarity(index.Shingles(a), index.Shingles(b))
	}
	// Skip the quadratic edit distance when it cannot change the outcome.
	bound := EditSimilarityBound(len(a.Tokens), len(b.Tokens))
	if bound < m.config.Threshold() || bound <= jaccard {
		return jaccard
	}
	return max(EditSimilarity(a.PolicySequence(), b.PolicySequence()), jaccard)
}

// groupClones merges pairs with union-find and builds one cluster per component
func (m *Matcher) groupClones(unit *parser.SourceUnit, index *FingerprintIndex, pairs []ClonePair) []*Cluster {
	parent := make(map[int]int)
	rank := make(map[int]int)
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		switch {
		case rank[ra] < rank[rb]:
			parent[ra] = rb
		case rank[ra] > rank[rb]:
			parent[rb] = ra
		default:
			parent[rb] = ra
			rank[ra]++
		}
	}
	for _, p := range pairs {
		for _, id := range []int{p.A.ID, p.B.ID} {
			if _, ok := parent[id]; !ok {
				parent[id] = id
			}
		}
	}
	for _, p := range pairs {
		union(p.A.ID, p.B.ID)
	}

	components := make(map[int][]int)
	for id := range parent {
		root := find(id)
		components[root] = append(components[root], id)
	}
	roots := make([]int, 0, len(components))
	for root := range components {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	edges := make(map[[2]int]float64, len(pairs))
	for _, p := range pairs {
		edges[[2]int{min(p.A.ID, p.B.ID), max(p.A.ID, p.B.ID)}] = p.Similarity
	}

	var clusters []*Cluster
	for _, root := range roots {
		ids := components[root]
		members := make([]*NormalizedBlock, 0, len(ids))
		for _, id := range ids {
			members = append(members, index.Block(id))
		}
		members = outermostMembers(members)
		if len(members) < 2 {
			continue
		}
		cluster := &Cluster{Members: members}
		cluster.Similarity = m.clusterSimilarity(index, members, edges)
		cluster.Type = classify(members)
		cluster.Match = buildMatch(unit, cluster)
		clusters = append(clusters, cluster)
	}
	return clusters
}

// outermostMembers orders members by position and drops members nested in
// another member or sharing its range
func outermostMembers(members []*NormalizedBlock) []*NormalizedBlock {
	sort.Slice(members, func(i, j int) bool {
		if members[i].StartLine != members[j].StartLine {
			return members[i].StartLine < members[j].StartLine
		}
		if members[i].EndLine != members[j].EndLine {
			return members[i].EndLine > members[j].EndLine
		}
		return members[i].ID < members[j].ID
	})
	out := make([]*NormalizedBlock, 0, len(members))
	for _, b := range members {
		if len(out) > 0 && out[len(out)-1].Lines().Contains(b.Lines()) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// clusterSimilarity averages the retained edges among members
func (m *Matcher) clusterSimilarity(index *FingerprintIndex, members []*NormalizedBlock, edges map[[2]int]float64) float64 {
	total, count := 0.0, 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			key := [2]int{min(members[i].ID, members[j].ID), max(members[i].ID, members[j].ID)}
			if sim, ok := edges[key]; ok {
				total += sim
				count++
			}
		}
	}
	if count == 0 {
		// Members are linked only through dropped nested blocks.
		for i := 0; i+1 < len(members); i++ {
			total += m.similarity(index, members[i], members[i+1])
			count++
		}
	}
	return clamp01(total / float64(count))
}

// classify labels a cluster by the strictest rendition all members share
func classify(members []*NormalizedBlock) domain.CloneType {
	exact, renamed := true, true
	firstExact, firstRenamed := members[0].ExactSequence(), members[0].RenamedSequence()
	for _, b := range members[1:] {
		if exact && !slices.Equal(firstExact, b.ExactSequence()) {
			exact = false
		}
		if renamed && !slices.Equal(firstRenamed, b.RenamedSequence()) {
			renamed = false
		}
	}
	switch {
	case exact:
		return domain.CloneTypeExact
	case renamed:
		return domain.CloneTypeRenamed
	}
	return domain.CloneTypeNearMiss
}

func buildMatch(unit *parser.SourceUnit, c *Cluster) domain.CloneMatch {
	locations := make([]domain.LineRange, len(c.Members))
	for i, b := range c.Members {
		locations[i] = b.Lines()
	}
	first := locations[0]
	snippet := unit.Snippet(first.StartLine, first.EndLine)
	granularity := c.Members[0].Granularity

	var key strings.Builder
	fmt.Fprintf(&key, "%s|%s|%016x", granularity, c.Type, xxhash.Sum64String(snippet))
	for _, loc := range locations {
		fmt.Fprintf(&key, "|%d-%d", loc.StartLine, loc.EndLine)
	}

	return domain.CloneMatch{
		ID:                    uuid.NewSHA1(cloneNamespace, []byte(key.String())).String(),
		Type:                  c.Type,
		Granularity:           granularity,
		Similarity:            roundTo(c.Similarity, 4),
		Locations:             locations,
		RepresentativeSnippet: snippet,
	}
}

// resolveOverlaps keeps clusters in rank order and drops a cluster when its
// locations fall inside distinct locations of a cluster already kept
func resolveOverlaps(clusters []*Cluster) []*Cluster {
	ranked := append([]*Cluster(nil), clusters...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i].Match, &ranked[j].Match
		if la, lb := a.LinesCovered(), b.LinesCovered(); la != lb {
			return la > lb
		}
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if sa, sb := a.Type.Severity(), b.Type.Severity(); sa != sb {
			return sa > sb
		}
		if a.Locations[0].StartLine != b.Locations[0].StartLine {
			return a.Locations[0].StartLine < b.Locations[0].StartLine
		}
		return a.ID < b.ID
	})

	var kept []*Cluster
	for _, c := range ranked {
		subsumed := false
		for _, k := range kept {
			if embeds(k.Match.Locations, c.Match.Locations) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i].Match.Locations[0], kept[j].Match.Locations[0]
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		if a.EndLine != b.EndLine {
			return a.EndLine > b.EndLine
		}
		return kept[i].Match.ID < kept[j].Match.ID
	})
	return kept
}

// embeds reports whether every inner location fits in its own outer location
func embeds(outer, inner []domain.LineRange) bool {
	used := make([]bool, len(outer))
	for _, loc := range inner {
		placed := false
		for i, o := range outer {
			if !used[i] && o.Contains(loc) {
				used[i] = true
				placed = true
				break
			}
		}
		if !placed {
			return false
		}
	}
	return true
}

// checkMatch verifies the invariants of a finished clone
func checkMatch(unit *parser.SourceUnit, match *domain.CloneMatch) error {
	if len(match.Locations) < 2 {
		return domain.NewInvariantViolation("clone %s has %d locations", match.ID, len(match.Locations))
	}
	if match.Similarity < 0 || match.Similarity > 1 {
		return domain.NewInvariantViolation("clone %s similarity %f out of range", match.ID, match.Similarity)
	}
	lines := unit.LineCount()
	for _, loc := range match.Locations {
		if loc.StartLine < 1 || loc.EndLine < loc.StartLine || loc.EndLine > lines {
			return domain.NewInvariantViolation("clone %s location %d-%d outside 1-%d", match.ID, loc.StartLine, loc.EndLine, lines)
		}
	}
	return nil
}
