package parse

import (
	"fmt"
	"strings"

	"kakarimatch/model"
)

// Format renders a sentence back into lattice text, the inverse of Read.
// Chunks whose head/func offsets are unset use the minimal 3-field header.
func Format(s *model.Sentence) string {
	var b strings.Builder
	for i := range s.Chunks {
		c := &s.Chunks[i]
		if c.Head < 0 || c.Func < 0 {
			fmt.Fprintf(&b, "* %d %dD\n", c.ID, c.Link)
		} else {
			fmt.Fprintf(&b, "* %d %dD %d/%d %.6f\n", c.ID, c.Link, c.Head, c.Func, c.Score)
		}
		for _, t := range c.Tokens {
			b.WriteString(t.Surface)
			b.WriteByte('\t')
			b.WriteString(strings.Join(featSlice(t), ","))
			b.WriteByte('\n')
		}
	}
	b.WriteString(EOS)
	b.WriteByte('\n')
	return b.String()
}

// featSlice renders a token's feature vector in raw field order with "*"
// for unspecified slots.
func featSlice(t model.Token) []string {
	f := t.Feat
	out := []string{f.POS, f.Sub1, f.Sub2, f.Sub3, f.InflType, f.InflForm, f.Base, f.Reading, f.Pron}
	for i, v := range out {
		if v == "" {
			out[i] = "*"
		}
	}
	if t.Slot {
		out[0] = f.POS + "*"
	}
	return out
}
