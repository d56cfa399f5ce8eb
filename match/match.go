package match

import (
	"sort"
	"strings"

	"kakarimatch/model"
)

// Span is one captured wildcard run of consecutive sentence tokens.
type Span []model.Token

// Surface concatenates the span's token surfaces.
func (s Span) Surface() string {
	var b strings.Builder
	for _, t := range s {
		b.WriteString(t.Surface)
	}
	return b.String()
}

// Form renders the span as a dictionary-form word: the surfaces of every
// token but the last, then the last token's dictionary form, so an
// inflected tail normalizes (持ち + 運ん(だ) → 持ち運ぶ).
func (s Span) Form() string {
	if len(s) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range s[:len(s)-1] {
		b.WriteString(t.Surface)
	}
	b.WriteString(s[len(s)-1].Base())
	return b.String()
}

// Record is the public result shape of one accepted combination: the
// captured spans ordered by ascending wildcard token id.
type Record []Span

// Record flattens bindings into the public result shape.
func (b Bindings) Record() Record {
	ids := make([]int, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	rec := make(Record, 0, len(ids))
	for _, id := range ids {
		rec = append(rec, Span(b[id]))
	}
	return rec
}

// edge is a dependency edge between two chunk ids.
type edge struct {
	from, to int
}

// Match matches pattern against sentence and returns one Record per
// accepted chunk-assignment combination. ok is false when the sentence
// cannot match at all — some pattern chunk or pattern edge has no
// counterpart; a non-nil empty result with ok true means every stage had
// candidates but no combination satisfied the dependency constraints.
func Match(sentence, pattern *model.Sentence) ([]Record, bool) {
	bs, ok := Find(sentence, pattern)
	if !ok {
		return nil, false
	}
	recs := make([]Record, 0, len(bs))
	for _, b := range bs {
		recs = append(recs, b.Record())
	}
	return recs, true
}

// Find matches pattern against sentence and returns the merged wildcard
// bindings of each accepted combination.
//
// The search runs in three stages: every pattern chunk is aligned against
// every sentence chunk (MatchChunk); each pattern dependency edge is
// narrowed to the sentence edges realizing it; and the cartesian product of
// the per-edge candidate lists is enumerated, keeping combinations whose
// chunk-identity pattern mirrors the pattern's own. The product makes the
// worst case exponential in the number of pattern edges with ambiguous
// candidates; nothing is truncated.
//
// A pattern with no dependency edges skips edge reasoning: every candidate
// of every pattern chunk yields one result.
func Find(sentence, pattern *model.Sentence) ([]Bindings, bool) {
	// Stage 1: per-chunk candidates.
	cand := make(map[int]map[int]Bindings, len(pattern.Chunks))
	for pi := range pattern.Chunks {
		pcnk := &pattern.Chunks[pi]
		perChunk := make(map[int]Bindings)
		for si := range sentence.Chunks {
			scnk := &sentence.Chunks[si]
			if b, ok := MatchChunk(scnk, pcnk); ok {
				perChunk[scnk.ID] = b
			}
		}
		if len(perChunk) == 0 {
			return nil, false
		}
		cand[pcnk.ID] = perChunk
	}

	// Stage 2: realizable sentence edges per pattern edge, in sentence
	// order for deterministic output.
	var (
		pEdges []edge
		sEdges [][]edge
	)
	for pi := range pattern.Chunks {
		pcnk := &pattern.Chunks[pi]
		if pcnk.IsRoot() {
			continue
		}
		targets := cand[pcnk.Link]
		var realized []edge
		for si := range sentence.Chunks {
			scnk := &sentence.Chunks[si]
			if _, ok := cand[pcnk.ID][scnk.ID]; !ok {
				continue
			}
			if _, ok := targets[scnk.Link]; ok {
				realized = append(realized, edge{scnk.ID, scnk.Link})
			}
		}
		if len(realized) == 0 {
			return nil, false
		}
		pEdges = append(pEdges, edge{pcnk.ID, pcnk.Link})
		sEdges = append(sEdges, realized)
	}

	// Single-chunk pattern: dependency structure is irrelevant, every
	// candidate stands on its own.
	if len(pEdges) == 0 {
		out := make([]Bindings, 0)
		for pi := range pattern.Chunks {
			for si := range sentence.Chunks {
				if b, ok := cand[pattern.Chunks[pi].ID][sentence.Chunks[si].ID]; ok {
					out = append(out, b)
				}
			}
		}
		return out, true
	}

	return enumerate(pEdges, sEdges, cand), true
}

// enumerate walks the cartesian product of the per-edge candidate lists
// with an explicit odometer, pruning a partial combination as soon as a
// newly chosen edge breaks same-node correspondence with an earlier one.
func enumerate(pEdges []edge, sEdges [][]edge, cand map[int]map[int]Bindings) []Bindings {
	out := make([]Bindings, 0)
	n := len(pEdges)
	idx := make([]int, n)
	chosen := make([]edge, n)

	pos := 0
	for {
		if idx[pos] == len(sEdges[pos]) {
			idx[pos] = 0
			pos--
			if pos < 0 {
				return out
			}
			idx[pos]++
			continue
		}
		chosen[pos] = sEdges[pos][idx[pos]]
		if !corresponds(pEdges, chosen, pos) {
			idx[pos]++
			continue
		}
		if pos == n-1 {
			out = append(out, merge(pEdges, chosen, cand))
			idx[pos]++
			continue
		}
		pos++
	}
}

// corresponds checks same-node correspondence between the edge at position
// pos and every earlier chosen edge: whether two pattern edges share a start
// (and whether they share an end) must agree with the chosen sentence edges.
// Shared pattern chunks thereby map to shared sentence chunks and distinct
// ones stay distinct.
func corresponds(pEdges, chosen []edge, pos int) bool {
	for k := 0; k < pos; k++ {
		if (pEdges[k].from == pEdges[pos].from) != (chosen[k].from == chosen[pos].from) {
			return false
		}
		if (pEdges[k].to == pEdges[pos].to) != (chosen[k].to == chosen[pos].to) {
			return false
		}
	}
	return true
}

// merge unions the bindings of both endpoints of every edge in a
// combination. Later edges overwrite earlier entries for a shared pattern
// chunk, mirroring the per-edge update order of the candidate search.
func merge(pEdges, chosen []edge, cand map[int]map[int]Bindings) Bindings {
	merged := Bindings{}
	for i, pe := range pEdges {
		se := chosen[i]
		for id, run := range cand[pe.from][se.from] {
			merged[id] = run
		}
		for id, run := range cand[pe.to][se.to] {
			merged[id] = run
		}
	}
	return merged
}
