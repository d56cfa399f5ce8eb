package model

import (
	"errors"
	"fmt"
	"strings"
)

// RootLink is the dependency target of a root chunk.
const RootLink = -1

var (
	// ErrDuplicateChunk reports two chunks sharing an id within a sentence.
	ErrDuplicateChunk = errors.New("model: duplicate chunk id")
	// ErrDanglingLink reports a chunk whose dependency target does not
	// exist in the sentence.
	ErrDanglingLink = errors.New("model: dangling dependency link")
	// ErrCyclicLink reports a dependency chain that never reaches a root.
	ErrCyclicLink = errors.New("model: cyclic dependency link")
)

// Chunk is one bunsetsu: an ordered run of tokens plus the id of the chunk
// it depends on. Head and Func are the in-chunk offsets of the content head
// and function word; they are -1 when the minimal header format omits them.
type Chunk struct {
	ID     int     `json:"id"`
	Link   int     `json:"link"`
	Head   int     `json:"head"`
	Func   int     `json:"func"`
	Score  float64 `json:"score"`
	Tokens []Token `json:"tokens"`
}

// IsRoot reports whether the chunk has no dependency target.
func (c *Chunk) IsRoot() bool { return c.Link == RootLink }

// Token returns the token with the given id, if it belongs to this chunk.
func (c *Chunk) Token(tid int) (Token, bool) {
	for _, t := range c.Tokens {
		if t.ID == tid {
			return t, true
		}
	}
	return Token{}, false
}

// Surface concatenates the chunk's token surfaces.
func (c *Chunk) Surface() string {
	var b strings.Builder
	for _, t := range c.Tokens {
		b.WriteString(t.String())
	}
	return b.String()
}

// Sentence is an ordered sequence of chunks in original text order.
// Chunk ids are unique but need not be contiguous.
type Sentence struct {
	Chunks []Chunk `json:"chunks"`
}

// NewSentence validates chunk structure and wraps it into a Sentence.
// Duplicate chunk ids and non-root links that do not resolve to a chunk in
// the same sentence are construction errors; a bad parse never reaches the
// matcher.
func NewSentence(chunks []Chunk) (*Sentence, error) {
	seen := make(map[int]bool, len(chunks))
	for _, c := range chunks {
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateChunk, c.ID)
		}
		seen[c.ID] = true
	}
	for _, c := range chunks {
		if !c.IsRoot() && !seen[c.Link] {
			return nil, fmt.Errorf("%w: chunk %d -> %d", ErrDanglingLink, c.ID, c.Link)
		}
	}
	return &Sentence{Chunks: chunks}, nil
}

// Chunk returns the chunk with the given id.
func (s *Sentence) Chunk(cid int) (*Chunk, bool) {
	for i := range s.Chunks {
		if s.Chunks[i].ID == cid {
			return &s.Chunks[i], true
		}
	}
	return nil, false
}

// ChunkOf returns the chunk containing the token with the given id.
func (s *Sentence) ChunkOf(tid int) (*Chunk, bool) {
	for i := range s.Chunks {
		if _, ok := s.Chunks[i].Token(tid); ok {
			return &s.Chunks[i], true
		}
	}
	return nil, false
}

// Tokens returns all tokens across chunks, flattened in text order.
func (s *Sentence) Tokens() []Token {
	var out []Token
	for i := range s.Chunks {
		out = append(out, s.Chunks[i].Tokens...)
	}
	return out
}

// Surface concatenates every chunk surface.
func (s *Sentence) Surface() string {
	var b strings.Builder
	for i := range s.Chunks {
		b.WriteString(s.Chunks[i].Surface())
	}
	return b.String()
}

// Breakup splits the sentence into its root-directed dependency paths.
// Each path starts at a chunk not yet covered by an earlier path and follows
// dependency links until it reaches a root, e.g.
//
//	やはり俺の青春ラブコメはまちがっている →
//	  やはり / まちがっている
//	  俺の / 青春ラブコメは / まちがっている
//
// A dangling or cyclic link is an error.
func (s *Sentence) Breakup() ([]*Sentence, error) {
	var paths []*Sentence
	covered := make(map[int]bool, len(s.Chunks))

	for i := range s.Chunks {
		if covered[s.Chunks[i].ID] {
			continue
		}
		path, err := s.followLinks(&s.Chunks[i])
		if err != nil {
			return nil, err
		}
		for _, c := range path {
			covered[c.ID] = true
		}
		paths = append(paths, &Sentence{Chunks: path})
	}
	return paths, nil
}

// followLinks walks from a chunk to its root, collecting the chain.
func (s *Sentence) followLinks(start *Chunk) ([]Chunk, error) {
	path := []Chunk{*start}
	cur := start
	for !cur.IsRoot() {
		if len(path) > len(s.Chunks) {
			return nil, fmt.Errorf("%w: via chunk %d", ErrCyclicLink, start.ID)
		}
		next, ok := s.Chunk(cur.Link)
		if !ok {
			return nil, fmt.Errorf("%w: chunk %d -> %d", ErrDanglingLink, cur.ID, cur.Link)
		}
		path = append(path, *next)
		cur = next
	}
	return path, nil
}
