package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kakarimatch/model"
	"kakarimatch/parse"
)

func mustSentence(t *testing.T, chunks ...model.Chunk) *model.Sentence {
	t.Helper()
	s, err := model.NewSentence(chunks)
	require.NoError(t, err)
	return s
}

func recordSurfaces(rec Record) []string {
	out := make([]string, 0, len(rec))
	for _, sp := range rec {
		out = append(out, sp.Surface())
	}
	return out
}

func TestFindEdgeConsistency(t *testing.T) {
	// 赤い → 花 → 実: the pattern edge 赤い→[名詞] must realize only as
	// the direct link 赤い→花, never as 赤い→実.
	sen := mustSentence(t,
		chunk(0, 1, testToken(t, 0, "赤い", "形容詞", "自立", "*", "*", "形容詞・アウオ段", "基本形", "赤い")),
		chunk(1, 2, testToken(t, 1, "花", "名詞", "一般", "*", "*", "*", "*", "花")),
		chunk(2, -1, testToken(t, 2, "実", "名詞", "一般", "*", "*", "*", "*", "実")),
	)
	pat := mustSentence(t,
		chunk(0, 1, testToken(t, 0, "赤い", "形容詞", "自立", "*", "*", "*", "*", "赤い")),
		chunk(1, -1, testToken(t, 1, "", "名詞*")),
	)

	bs, ok := Find(sen, pat)
	require.True(t, ok)
	require.Len(t, bs, 1)
	assert.Equal(t, []string{"花"}, surfaces(bs[0][1]))
}

func TestFindSingleChunkPattern(t *testing.T) {
	// dependency structure is irrelevant for an edge-free pattern: every
	// matching chunk yields its own record
	sen := mustSentence(t,
		chunk(0, 2, testToken(t, 0, "花", "名詞", "一般", "*", "*", "*", "*", "花")),
		chunk(1, 2, testToken(t, 1, "咲く", "動詞", "自立", "*", "*", "*", "*", "咲く")),
		chunk(2, -1, testToken(t, 2, "実", "名詞", "一般", "*", "*", "*", "*", "実")),
	)
	pat := mustSentence(t,
		chunk(0, -1, testToken(t, 0, "", "名詞*")),
	)

	bs, ok := Find(sen, pat)
	require.True(t, ok)
	require.Len(t, bs, 2)
	assert.Equal(t, []string{"花"}, surfaces(bs[0][0]))
	assert.Equal(t, []string{"実"}, surfaces(bs[1][0]))
}

func TestFindNoCandidateIsAbsent(t *testing.T) {
	sen := mustSentence(t,
		chunk(0, -1, testToken(t, 0, "花", "名詞", "一般", "*", "*", "*", "*", "花")),
	)
	pat := mustSentence(t,
		chunk(0, -1, testToken(t, 0, "", "動詞*")),
	)

	bs, ok := Find(sen, pat)
	assert.False(t, ok)
	assert.Nil(t, bs)
}

func TestFindNoRealizableEdgeIsAbsent(t *testing.T) {
	// both pattern chunks have candidates, but the sentence link runs the
	// wrong way
	sen := mustSentence(t,
		chunk(0, -1, testToken(t, 0, "赤い", "形容詞", "自立", "*", "*", "*", "*", "赤い")),
		chunk(1, 0, testToken(t, 1, "花", "名詞", "一般", "*", "*", "*", "*", "花")),
	)
	pat := mustSentence(t,
		chunk(0, 1, testToken(t, 0, "赤い", "形容詞", "自立", "*", "*", "*", "*", "赤い")),
		chunk(1, -1, testToken(t, 1, "", "名詞*")),
	)

	bs, ok := Find(sen, pat)
	assert.False(t, ok)
	assert.Nil(t, bs)
}

func TestFindSharedTargetMapsToSharedChunk(t *testing.T) {
	// two pattern edges ending at the same chunk must realize on sentence
	// edges ending at the same chunk
	shared := mustSentence(t,
		chunk(0, 2, testToken(t, 0, "あの", "連体詞", "*", "*", "*", "*", "*", "あの")),
		chunk(1, 2, testToken(t, 1, "この", "連体詞", "*", "*", "*", "*", "*", "この")),
		chunk(2, -1, testToken(t, 2, "花", "名詞", "一般", "*", "*", "*", "*", "花")),
	)
	split := mustSentence(t,
		chunk(0, 2, testToken(t, 0, "あの", "連体詞", "*", "*", "*", "*", "*", "あの")),
		chunk(1, 3, testToken(t, 1, "この", "連体詞", "*", "*", "*", "*", "*", "この")),
		chunk(2, -1, testToken(t, 2, "花", "名詞", "一般", "*", "*", "*", "*", "花")),
		chunk(3, -1, testToken(t, 3, "鳥", "名詞", "一般", "*", "*", "*", "*", "鳥")),
	)
	pat := mustSentence(t,
		chunk(0, 2, testToken(t, 0, "あの", "連体詞", "*", "*", "*", "*", "*", "あの")),
		chunk(1, 2, testToken(t, 1, "この", "連体詞", "*", "*", "*", "*", "*", "この")),
		chunk(2, -1, testToken(t, 2, "", "名詞*")),
	)

	bs, ok := Find(shared, pat)
	require.True(t, ok)
	require.Len(t, bs, 1)
	assert.Equal(t, []string{"花"}, surfaces(bs[0][2]))

	// in the split sentence every stage has candidates, yet no combination
	// survives the same-node check: matched, zero results
	bs, ok = Find(split, pat)
	require.True(t, ok, "zero combinations is not the same as no match")
	assert.NotNil(t, bs)
	assert.Empty(t, bs)
}

func TestMatchEndToEnd(t *testing.T) {
	sen, err := parse.Read(`* 0 2D 0/1 -1.514009
俺	名詞,代名詞,一般,*,*,*,俺,オレ,オレ
は	助詞,係助詞,*,*,*,*,は,ハ,ワ
* 1 2D 0/1 -1.514009
野球	名詞,一般,*,*,*,*,野球,ヤキュウ,ヤキュー
を	助詞,格助詞,一般,*,*,*,を,ヲ,ヲ
* 2 -1D 0/0 0.000000
する	動詞,自立,*,*,サ変・スル,基本形,する,スル,スル
EOS
`)
	require.NoError(t, err)

	pat, err := parse.Read(`* 0 1D
	名詞*,*,*,*,*,*,*,*,*
は	助詞,係助詞,*,*,*,*,は,*,*
* 1 -1D
	動詞*,*,*,*,*,*,*,*,*
EOS
`)
	require.NoError(t, err)

	recs, ok := Match(sen, pat)
	require.True(t, ok)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"俺", "する"}, recordSurfaces(recs[0]))
}

func TestMatchIsIdempotent(t *testing.T) {
	sen := mustSentence(t,
		chunk(0, 1, testToken(t, 0, "赤い", "形容詞", "自立", "*", "*", "*", "*", "赤い")),
		chunk(1, -1, testToken(t, 1, "花", "名詞", "一般", "*", "*", "*", "*", "花")),
	)
	pat := mustSentence(t,
		chunk(0, 1, testToken(t, 0, "赤い", "形容詞", "自立", "*", "*", "*", "*", "赤い")),
		chunk(1, -1, testToken(t, 1, "", "名詞*")),
	)

	first, ok := Match(sen, pat)
	require.True(t, ok)
	second, ok := Match(sen, pat)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestSpanForm(t *testing.T) {
	sp := Span{
		testToken(t, 0, "持ち", "動詞", "自立", "*", "*", "五段・タ行", "連用形", "持つ"),
		testToken(t, 1, "運ん", "動詞", "自立", "*", "*", "五段・バ行", "連用タ接続", "運ぶ"),
	}
	assert.Equal(t, "持ち運ん", sp.Surface())
	assert.Equal(t, "持ち運ぶ", sp.Form(), "the tail normalizes to its dictionary form")

	assert.Empty(t, Span{}.Form())
}

func TestBindingsRecordSortsByWildcardID(t *testing.T) {
	b := Bindings{
		7: []model.Token{testToken(t, 0, "花", "名詞")},
		2: []model.Token{testToken(t, 1, "咲く", "動詞")},
	}
	rec := b.Record()
	require.Len(t, rec, 2)
	assert.Equal(t, "咲く", rec[0].Surface())
	assert.Equal(t, "花", rec[1].Surface())
}
