// Package parse turns text into model.Sentence values, two ways: Read
// deserializes the line-oriented lattice format emitted by a dependency
// parser (and used verbatim for hand-authored patterns), and Parser runs
// kagome morphological analysis plus a baseline bunsetsu chunker over raw
// Japanese text.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"kakarimatch/model"
)

// EOS terminates a sentence in the lattice format.
const EOS = "EOS"

var (
	// ErrBadHeader reports a chunk header line with neither 3 nor 5 fields.
	ErrBadHeader = errors.New("parse: malformed chunk header")
	// ErrBadTokenLine reports a token line outside a chunk or with an
	// unparsable field.
	ErrBadTokenLine = errors.New("parse: malformed token line")
)

// Read deserializes one sentence from lattice text.
//
// A chunk starts with a header line of whitespace-separated fields:
//
//	* 0 2D 0/2 -0.465738   (marker, id, link+direction, head/func, score)
//	* 0 2D                 (minimal form: head, func and score unset)
//
// The direction suffix on the link field is stripped; -1 marks a root.
// Every following line containing a tab is a token line, surface TAB
// comma-separated features (padded to 9 slots). A line holding only EOS
// ends the sentence, as does end of input. Blank lines are skipped.
//
// Pattern text uses the same format with two authoring conventions handled
// during token construction: an empty surface marks a wildcard and a
// trailing "*" on the part-of-speech marks an extraction slot.
func Read(text string) (*model.Sentence, error) {
	var (
		chunks  []model.Chunk
		cur     *model.Chunk
		tid     int
		lineNum int
	)

	flush := func() {
		if cur != nil {
			chunks = append(chunks, *cur)
			cur = nil
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		lineNum++
		line := strings.Trim(raw, " \r")
		if line == "" {
			continue
		}
		if line == EOS {
			break
		}

		if !strings.Contains(line, "\t") {
			flush()
			c, err := readHeader(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			cur = c
			continue
		}

		if cur == nil {
			return nil, fmt.Errorf("line %d: %w: token before chunk header", lineNum, ErrBadTokenLine)
		}
		surface, featstr, _ := strings.Cut(line, "\t")
		tok, err := model.NewToken(tid, surface, strings.Split(featstr, ","))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		cur.Tokens = append(cur.Tokens, tok)
		tid++
	}
	flush()

	return model.NewSentence(chunks)
}

// readHeader parses one chunk header line into a token-less Chunk.
func readHeader(line string) (*model.Chunk, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 && len(fields) != 5 {
		return nil, fmt.Errorf("%w: %d fields", ErrBadHeader, len(fields))
	}

	cid, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: chunk id %q", ErrBadHeader, fields[1])
	}
	if len(fields[2]) < 2 {
		return nil, fmt.Errorf("%w: link %q", ErrBadHeader, fields[2])
	}
	// strip the trailing direction character of e.g. "2D"
	link, err := strconv.Atoi(fields[2][:len(fields[2])-1])
	if err != nil {
		return nil, fmt.Errorf("%w: link %q", ErrBadHeader, fields[2])
	}

	c := &model.Chunk{ID: cid, Link: link, Head: -1, Func: -1}
	if len(fields) == 3 {
		return c, nil
	}

	headStr, funcStr, ok := strings.Cut(fields[3], "/")
	if !ok {
		return nil, fmt.Errorf("%w: head/func %q", ErrBadHeader, fields[3])
	}
	if c.Head, err = strconv.Atoi(headStr); err != nil {
		return nil, fmt.Errorf("%w: head %q", ErrBadHeader, headStr)
	}
	if c.Func, err = strconv.Atoi(funcStr); err != nil {
		return nil, fmt.Errorf("%w: func %q", ErrBadHeader, funcStr)
	}
	if c.Score, err = strconv.ParseFloat(fields[4], 64); err != nil {
		return nil, fmt.Errorf("%w: score %q", ErrBadHeader, fields[4])
	}
	return c, nil
}
