package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/jaenan/internal/alert"
)

func TestBleveEngine_IndexesAndSearches(t *testing.T) {
	eng, err := NewBleveEngine()
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	require.NoError(t, eng.Index(sample))

	n, err := eng.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	res, err := eng.Search("산불주의보", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.Equal(t, sample[1].Text, res[0].Message.Text)
	assert.Equal(t, []string{"강원특별자치도"}, res[0].Message.Locations)
	assert.Equal(t, sample[1].SentAt, res[0].Message.SentAt)

	res, err = eng.Search("호우", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res, "prefix of a compound word matches")
	assert.Equal(t, sample[0].Text, res[0].Message.Text)
}

func TestBleveEngine_ReindexIsIdempotent(t *testing.T) {
	eng, err := NewBleveEngine()
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	require.NoError(t, eng.Index(sample))
	require.NoError(t, eng.Index(sample[:1]))

	n, err := eng.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestBleveEngine_ShortQuery(t *testing.T) {
	eng, err := NewBleveEngine()
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	res, err := eng.Search(" ", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestNew_ReturnsIndex(t *testing.T) {
	s := New()
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Index([]alert.Message{{Text: "[지진] 여진 주의"}}))
	n, err := s.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
