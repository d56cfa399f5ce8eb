package parse

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"kakarimatch/model"
)

// Parser analyzes raw Japanese text into dependency-linked sentences.
// Morphology comes from kagome; chunking and attachment use a rule-based
// baseline, so Parser stands in for a full dependency parser: bunsetsu are
// built by attaching function words to the preceding content run, and each
// chunk depends on its right neighbor with the last chunk as root. Callers
// needing real attachment accuracy should feed Read with the lattice output
// of an external parser instead.
type Parser struct {
	tok *tokenizer.Tokenizer
}

type config struct {
	dict *dict.Dict
}

// Option configures a Parser.
type Option func(*config)

// WithDict selects the kagome system dictionary. The default is the IPA
// dictionary, whose feature layout matches model.Features exactly.
func WithDict(d *dict.Dict) Option {
	return func(c *config) { c.dict = d }
}

// NewParser builds a Parser with the given options.
func NewParser(opts ...Option) (*Parser, error) {
	cfg := config{dict: ipa.Dict()}
	for _, opt := range opts {
		opt(&cfg)
	}
	t, err := tokenizer.New(cfg.dict, tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("parse: init tokenizer: %w", err)
	}
	return &Parser{tok: t}, nil
}

// Parse analyzes text into a Sentence.
func (p *Parser) Parse(text string) (*model.Sentence, error) {
	if text == "" {
		return model.NewSentence(nil)
	}
	toks := make([]model.Token, 0, 16)
	for i, kt := range p.tok.Tokenize(text) {
		toks = append(toks, convertToken(i, kt))
	}
	return model.NewSentence(chunkTokens(toks))
}

// convertToken maps a kagome token onto a model Token. The accessor methods
// are used rather than the raw feature slice so both the IPA and UniDic
// layouts land in the same 9 slots.
func convertToken(id int, kt tokenizer.Token) model.Token {
	feat := model.Features{POS: "*"}
	if pos := kt.POS(); len(pos) > 0 {
		feat.POS = pos[0]
		subs := []*string{&feat.Sub1, &feat.Sub2, &feat.Sub3}
		for i := 0; i < len(subs) && i+1 < len(pos); i++ {
			*subs[i] = pos[i+1]
		}
	}
	if v, ok := kt.InflectionalType(); ok {
		feat.InflType = v
	}
	if v, ok := kt.InflectionalForm(); ok {
		feat.InflForm = v
	}
	if v, ok := kt.BaseForm(); ok {
		feat.Base = v
	}
	if v, ok := kt.Reading(); ok {
		feat.Reading = v
	}
	if v, ok := kt.Pronunciation(); ok {
		feat.Pron = v
	}

	// NewToken normalizes the "*" fields kagome reports for unspecified
	// slots; construction cannot fail on a fixed-size list.
	t, _ := model.NewToken(id, kt.Surface, []string{
		feat.POS, feat.Sub1, feat.Sub2, feat.Sub3,
		feat.InflType, feat.InflForm, feat.Base, feat.Reading, feat.Pron,
	})
	return t
}

// isFunction reports particles and auxiliary verbs, the words that close a
// bunsetsu.
func isFunction(t model.Token) bool {
	return t.Feat.POS == "助詞" || t.Feat.POS == "助動詞"
}

// isPunct reports symbol tokens, which attach to the current bunsetsu.
func isPunct(t model.Token) bool {
	return t.Feat.POS == "記号"
}

// chunkTokens groups tokens into bunsetsu chunks and links each chunk to its
// right neighbor. A content word extends the current chunk until a function
// word or punctuation closes it; the next content word then opens a new one.
func chunkTokens(toks []model.Token) []model.Chunk {
	var chunks []model.Chunk
	var cur []model.Token
	closed := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		c := model.Chunk{ID: len(chunks), Tokens: cur, Head: -1, Func: -1}
		for i, t := range cur {
			if isFunction(t) || isPunct(t) {
				c.Func = i
			} else {
				c.Head = i
			}
		}
		if c.Head < 0 {
			c.Head = 0
		}
		if c.Func < 0 {
			c.Func = c.Head
		}
		chunks = append(chunks, c)
		cur, closed = nil, false
	}

	for _, t := range toks {
		if closed && !isFunction(t) && !isPunct(t) {
			flush()
		}
		cur = append(cur, t)
		if isFunction(t) || isPunct(t) {
			closed = true
		}
	}
	flush()

	for i := range chunks {
		if i == len(chunks)-1 {
			chunks[i].Link = model.RootLink
		} else {
			chunks[i].Link = chunks[i+1].ID
		}
	}
	return chunks
}
