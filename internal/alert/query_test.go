package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuery(t *testing.T) {
	q := NewQuery()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PageSize)
	assert.Empty(t, q.SearchTerm)
	assert.Empty(t, q.Regions)
}

func TestToggleRegion(t *testing.T) {
	q := NewQuery()

	q = q.ToggleRegion("경기도")
	q = q.ToggleRegion("서울특별시")
	require.Equal(t, []string{"경기도", "서울특별시"}, q.Regions)
	assert.Equal(t, "경기도,서울특별시", q.FilterParam())

	q = q.ToggleRegion("경기도")
	assert.Equal(t, []string{"서울특별시"}, q.Regions)
	assert.False(t, q.HasRegion("경기도"))
}

func TestToggleRegion_DoesNotAliasOriginal(t *testing.T) {
	base := NewQuery().ToggleRegion("a").ToggleRegion("b")
	removed := base.ToggleRegion("a")

	assert.Equal(t, []string{"a", "b"}, base.Regions)
	assert.Equal(t, []string{"b"}, removed.Regions)
}

func TestValues(t *testing.T) {
	q := Query{SearchTerm: "호우 경보", Regions: []string{"경기도", "서울특별시"}, Page: 3, PageSize: 5}
	v := q.Values()

	assert.Equal(t, "3", v.Get("page"))
	assert.Equal(t, "호우 경보", v.Get("search"))
	assert.Equal(t, "경기도,서울특별시", v.Get("filter"))
	assert.NotContains(t, v, "page_size")

	empty := NewQuery().Values()
	assert.Equal(t, "", empty.Get("filter"))
	assert.Contains(t, empty, "filter")
}

func TestSameRequest(t *testing.T) {
	a := Query{SearchTerm: "x", Page: 1, PageSize: 10}
	b := Query{SearchTerm: "x", Page: 1, PageSize: 3}
	assert.True(t, a.SameRequest(b), "page size is display only")

	c := a.ToggleRegion("경기도")
	assert.False(t, a.SameRequest(c))

	d := a
	d.Page = 2
	assert.False(t, a.SameRequest(d))
}

func TestVisible(t *testing.T) {
	records := make([]Message, 7)
	assert.Len(t, Visible(records, 10), 7)
	assert.Len(t, Visible(records, 3), 3)
	assert.Len(t, Visible(records, 0), 0)
	assert.Len(t, Visible(nil, 5), 0)
}

func TestValidPageSize(t *testing.T) {
	assert.False(t, ValidPageSize(0))
	assert.True(t, ValidPageSize(1))
	assert.True(t, ValidPageSize(10))
	assert.False(t, ValidPageSize(11))
}
