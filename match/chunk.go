// Package match implements pattern matching over dependency-parsed
// sentences: token-sequence alignment inside a chunk with wildcard capture,
// and dependency-edge constraint checking across chunks.
package match

import "kakarimatch/model"

// Bindings maps a pattern wildcard token's id to the ordered run of
// sentence tokens it captured.
type Bindings map[int][]model.Token

// alignment mode of the intra-chunk matcher.
type mode int

const (
	modeInitial   mode = iota // start state, nothing consumed yet
	modeRecording             // an open wildcard capture is consuming tokens
	modeNormal                // a capture has been closed
)

// MatchChunk aligns a pattern chunk's token sequence against a sentence
// chunk's, left to right from the first token of each. Literal pattern
// tokens consume exactly one equal sentence token; slot tokens capture one
// or more consecutive equal tokens, greedily swallowing as many as the rest
// of the pattern tolerates before backtracking to shorter captures.
//
// On success the returned Bindings hold each slot's captured run in text
// order; ok is false when no alignment exists. Sentence tokens left over
// after the pattern is exhausted do not fail the match — a pattern need not
// consume its whole chunk. Likewise, a pattern that runs out while a
// capture is still open simply closes it.
func MatchChunk(scnk, pcnk *model.Chunk) (Bindings, bool) {
	return alignTokens(scnk.Tokens, pcnk.Tokens, 0, 0, modeInitial)
}

// alignTokens is the recursive worker. It is pure: captures are threaded
// through return values, and each successful return owns its Bindings map,
// so concurrent MatchChunk calls over shared chunks need no locking.
func alignTokens(stoks, ptoks []model.Token, si, pi int, m mode) (Bindings, bool) {
	if pi >= len(ptoks) {
		// Pattern exhausted. In normal mode the last capture was already
		// closed by a mismatch, and the reference behavior rejects this
		// terminal state; initial and recording modes succeed.
		if m == modeNormal {
			return nil, false
		}
		return Bindings{}, true
	}
	if si >= len(stoks) {
		return nil, false
	}

	stok, ptok := stoks[si], ptoks[pi]

	switch {
	case ptok.Slot && stok.Equal(ptok):
		// Extend the capture first; close it at this token only if the
		// longer capture cannot complete the pattern.
		if b, ok := alignTokens(stoks, ptoks, si+1, pi, modeRecording); ok {
			b[ptok.ID] = prepend(stok, b[ptok.ID])
			return b, true
		}
		if b, ok := alignTokens(stoks, ptoks, si+1, pi+1, modeRecording); ok {
			b[ptok.ID] = prepend(stok, b[ptok.ID])
			return b, true
		}
		return nil, false

	case ptok.Slot:
		// A slot must capture at least one token, so a mismatch is fatal
		// unless it closes an open capture.
		if m == modeRecording {
			return alignTokens(stoks, ptoks, si, pi+1, modeNormal)
		}
		return nil, false

	case stok.Equal(ptok):
		return alignTokens(stoks, ptoks, si+1, pi+1, m)

	default:
		return nil, false
	}
}

func prepend(t model.Token, run []model.Token) []model.Token {
	return append([]model.Token{t}, run...)
}
