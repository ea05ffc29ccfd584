package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/jaenan/internal/alert"
)

var sample = []alert.Message{
	{Text: "[호우경보] 저지대 주민은 대피하시기 바랍니다", Locations: []string{"경기도", "서울특별시"}, SentAt: "2024-07-10 08:00:00"},
	{Text: "[산불주의보] 입산 시 화기 사용을 금지합니다", Locations: []string{"강원특별자치도"}, SentAt: "2024-04-02 13:10:00"},
	{Text: "폭염특보 발효 중, 야외활동 자제 바랍니다", Locations: []string{"대구광역시"}, SentAt: "2024-08-01 11:00:00"},
}

func TestEngine_Search(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Index(sample))

	res, err := e.Search("호우", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, sample[0].Text, res[0].Message.Text)
	assert.NotEmpty(t, res[0].Matches)
	assert.Equal(t, "title", res[0].Matches[0].Field)

	res, err = e.Search("강원특별자치도", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, sample[1].SentAt, res[0].Message.SentAt)
}

func TestEngine_SearchMinLength(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Index(sample))

	for _, q := range []string{"", "a", "   ", "호"} {
		res, err := e.Search(q, 10)
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res, "query %q", q)
	}
}

func TestEngine_IndexDeduplicates(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Index(sample))

	again := alert.Normalize(sample)
	require.NoError(t, e.Index(again))

	n, err := e.DocCount()
	require.NoError(t, err)
	assert.Equal(t, len(sample), n, "list position does not create a new document")
}

func TestEngine_Limit(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Index(sample))

	res, err := e.Search("바랍니다", 1)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestDocID(t *testing.T) {
	a := alert.Message{Text: "x", SentAt: "t", Index: 1}
	b := alert.Message{Text: "x", SentAt: "t", Index: 7}
	assert.Equal(t, DocID(a), DocID(b))

	c := alert.Message{ID: "42", Text: "x"}
	assert.Equal(t, "id:42", DocID(c))
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"[호우경보] 비 a 피해", []string{"호우경보", "비", "피해"}},
		{"", nil},
		{"2024-07-10", []string{"2024", "07", "10"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenize(tt.in), tt.in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "짧은", truncate("짧은", 5))
	assert.Equal(t, "재난문…", truncate("재난문자입니다", 4))
	assert.Equal(t, "abcd", truncate("abcd", 4))
}

func TestScoreField(t *testing.T) {
	assert.Zero(t, scoreField("", []string{"x"}, 1))
	assert.Zero(t, scoreField("폭염 특보", []string{"호우"}, 1))

	exact := scoreField("호우 경보", []string{"호우"}, 1)
	prefix := scoreField("호우가 내립니다", []string{"호우"}, 1)
	assert.Greater(t, exact, 0.0)
	assert.Greater(t, exact, prefix)
	assert.InDelta(t, exact*2, scoreField("호우 경보", []string{"호우"}, 2), 1e-9)
}

func TestBestSnippet(t *testing.T) {
	assert.Equal(t, "", bestSnippet("", []string{"x"}, 50))
	assert.Equal(t, "짧은 본문", bestSnippet(" 짧은 본문", []string{"본문"}, 50))

	words := "one two three four five six seven eight nine ten flood eleven"
	got := bestSnippet(words, []string{"flood"}, 18)
	assert.Contains(t, got, "flood")
}
