// Package model holds the immutable sentence structures produced by parsing:
// morpheme tokens with their MeCab-style feature vectors, bunsetsu chunks,
// and dependency-linked sentences. Everything here is a value object built
// once by package parse and read-only afterwards.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// FeatureCount is the number of slots in a token feature vector.
// Shorter raw feature lists are right-padded with unspecified slots;
// longer lists are rejected.
const FeatureCount = 9

// ErrFeatureOverflow reports a raw feature list with more than FeatureCount
// fields, which cannot be normalized into a feature vector.
var ErrFeatureOverflow = errors.New("model: feature list exceeds 9 fields")

// Features is the 9-slot morphological feature vector of a token, in the
// IPA dictionary layout. The empty string marks an unspecified slot; the
// reader converts the textual "*" marker before construction, so matching
// logic never sees it.
type Features struct {
	POS      string `json:"pos,omitempty"`
	Sub1     string `json:"sub1,omitempty"`
	Sub2     string `json:"sub2,omitempty"`
	Sub3     string `json:"sub3,omitempty"`
	InflType string `json:"infl_type,omitempty"`
	InflForm string `json:"infl_form,omitempty"`
	Base     string `json:"base,omitempty"`
	Reading  string `json:"reading,omitempty"`
	Pron     string `json:"pron,omitempty"`
}

// subs returns the three detailed part-of-speech slots.
func (f Features) subs() [3]string {
	return [3]string{f.Sub1, f.Sub2, f.Sub3}
}

// Token is one morphological unit. ID is unique within a sentence and
// assigned monotonically in text order during construction.
//
// Wild and Slot are pattern-authoring properties: a token written with an
// empty surface is a wildcard (its dictionary form is ignored by Equal), and
// a token whose part-of-speech carries a trailing "*" is an extraction slot
// (the marker is stripped before storage).
type Token struct {
	ID      int      `json:"id"`
	Surface string   `json:"surface"`
	Feat    Features `json:"features"`
	Wild    bool     `json:"wild,omitempty"`
	Slot    bool     `json:"slot,omitempty"`
}

// NewToken builds a Token from a surface form and a raw feature list.
// Missing trailing features become unspecified; more than FeatureCount
// features is a construction error.
func NewToken(id int, surface string, features []string) (Token, error) {
	if len(features) > FeatureCount {
		return Token{}, fmt.Errorf("%w: got %d", ErrFeatureOverflow, len(features))
	}
	var f [FeatureCount]string
	for i, v := range features {
		if v != "*" {
			f[i] = v
		}
	}

	t := Token{
		ID:      id,
		Surface: surface,
		Feat: Features{
			POS:      f[0],
			Sub1:     f[1],
			Sub2:     f[2],
			Sub3:     f[3],
			InflType: f[4],
			InflForm: f[5],
			Base:     f[6],
			Reading:  f[7],
			Pron:     f[8],
		},
		Wild: surface == "",
	}
	if pos := t.Feat.POS; len(pos) > 1 && strings.HasSuffix(pos, "*") {
		t.Feat.POS = strings.TrimSuffix(pos, "*")
		t.Slot = true
	}
	return t, nil
}

// Base returns the dictionary form, falling back to the surface when the
// dictionary-form slot is unspecified.
func (t Token) Base() string {
	if t.Feat.Base != "" {
		return t.Feat.Base
	}
	return t.Surface
}

// Equal reports whether two tokens match under the relaxed feature rule:
//
//   - dictionary forms must be identical, unless either token is a wildcard;
//   - part-of-speech values must be identical;
//   - each detailed part-of-speech slot must be identical unless it is
//     unspecified on either side.
//
// Equal is symmetric but not transitive: the per-slot relaxation means two
// tokens may each match a third without matching each other.
func (t Token) Equal(o Token) bool {
	if !t.Wild && !o.Wild && t.Base() != o.Base() {
		return false
	}
	if t.Feat.POS != o.Feat.POS {
		return false
	}
	ts, os := t.Feat.subs(), o.Feat.subs()
	for i := range ts {
		if ts[i] == "" || os[i] == "" {
			continue
		}
		if ts[i] != os[i] {
			return false
		}
	}
	return true
}

// String renders the surface, or "[POS]" for wildcard tokens.
func (t Token) String() string {
	if t.Surface == "" {
		return "[" + t.Feat.POS + "]"
	}
	return t.Surface
}
