package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kakarimatch/model"
)

const sentenceTree = `* 0 2D 0/1 -1.514009
俺	名詞,代名詞,一般,*,*,*,俺,オレ,オレ
は	助詞,係助詞,*,*,*,*,は,ハ,ワ
* 1 2D 0/1 -1.514009
野球	名詞,一般,*,*,*,*,野球,ヤキュウ,ヤキュー
を	助詞,格助詞,一般,*,*,*,を,ヲ,ヲ
* 2 -1D 0/0 0.000000
する	動詞,自立,*,*,サ変・スル,基本形,する,スル,スル
EOS
`

func TestReadFullHeaders(t *testing.T) {
	sen, err := Read(sentenceTree)
	require.NoError(t, err)
	require.Len(t, sen.Chunks, 3)

	c := sen.Chunks[0]
	assert.Equal(t, 0, c.ID)
	assert.Equal(t, 2, c.Link)
	assert.Equal(t, 0, c.Head)
	assert.Equal(t, 1, c.Func)
	assert.InDelta(t, -1.514009, c.Score, 1e-9)
	require.Len(t, c.Tokens, 2)
	assert.Equal(t, "俺", c.Tokens[0].Surface)
	assert.Equal(t, "名詞", c.Tokens[0].Feat.POS)
	assert.Equal(t, "代名詞", c.Tokens[0].Feat.Sub1)

	root := sen.Chunks[2]
	assert.True(t, root.IsRoot())
	assert.Equal(t, "する", root.Tokens[0].Base())

	// token ids run across chunk boundaries
	assert.Equal(t, 2, sen.Chunks[1].Tokens[0].ID)
	assert.Equal(t, "俺は野球をする", sen.Surface())
}

func TestReadMinimalHeaders(t *testing.T) {
	sen, err := Read("* 0 1D\n花	名詞,一般\n* 1 -1D\n咲く	動詞,自立\nEOS\n")
	require.NoError(t, err)
	require.Len(t, sen.Chunks, 2)
	assert.Equal(t, -1, sen.Chunks[0].Head)
	assert.Equal(t, -1, sen.Chunks[0].Func)
	assert.Equal(t, 1, sen.Chunks[0].Link)
}

func TestReadPatternConventions(t *testing.T) {
	pat, err := Read("* 0 -1D\n	名詞*,*,*,*,*,*,*,*,*\nは	助詞,係助詞,*,*,*,*,は,*,*\nEOS\n")
	require.NoError(t, err)
	require.Len(t, pat.Chunks, 1)
	require.Len(t, pat.Chunks[0].Tokens, 2)

	wild := pat.Chunks[0].Tokens[0]
	assert.True(t, wild.Wild, "empty surface marks a wildcard")
	assert.True(t, wild.Slot, "trailing * on POS marks a slot")
	assert.Equal(t, "名詞", wild.Feat.POS)

	literal := pat.Chunks[0].Tokens[1]
	assert.False(t, literal.Wild)
	assert.False(t, literal.Slot)
}

func TestReadStopsAtEOS(t *testing.T) {
	sen, err := Read("* 0 -1D\n花	名詞,一般\nEOS\n* 1 -1D\n咲く	動詞,自立\nEOS\n")
	require.NoError(t, err)
	assert.Len(t, sen.Chunks, 1)
}

func TestReadErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"header with 4 fields", "* 0 1D 0/1\nEOS\n", ErrBadHeader},
		{"header with bad link", "* 0 D\nEOS\n", ErrBadHeader},
		{"token before header", "花	名詞,一般\nEOS\n", ErrBadTokenLine},
		{"feature overflow", "* 0 -1D\n花	a,b,c,d,e,f,g,h,i,j\nEOS\n", model.ErrFeatureOverflow},
		{"dangling link", "* 0 9D\n花	名詞,一般\nEOS\n", model.ErrDanglingLink},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(tc.text)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	sen, err := Read(sentenceTree)
	require.NoError(t, err)
	assert.Equal(t, sentenceTree, Format(sen))

	again, err := Read(Format(sen))
	require.NoError(t, err)
	assert.Equal(t, sen, again)
}
