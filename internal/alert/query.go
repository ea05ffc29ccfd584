package alert

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	MinPageSize     = 1
	MaxPageSize     = 10
	DefaultPageSize = 10
)

// Regions are the administrative regions offered as filters.
var Regions = []string{
	"서울특별시",
	"경기도",
	"인천광역시",
	"강원특별자치도",
	"대전광역시",
	"세종특별자치시",
	"충청북도",
	"충청남도",
	"경상북도",
	"경상남도",
	"전라북도",
	"전라남도",
	"제주특별자치도",
}

// Query is the client-side query state. PageSize is display-only: it limits
// how many fetched records are shown and is never sent upstream.
type Query struct {
	SearchTerm string
	Regions    []string
	Page       int
	PageSize   int
}

// NewQuery returns the default query: first page, no search, no filter.
func NewQuery() Query {
	return Query{Page: 1, PageSize: DefaultPageSize}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (q Query) Clone() Query {
	if q.Regions != nil {
		q.Regions = append([]string(nil), q.Regions...)
	}
	return q
}

// HasRegion reports whether region is currently selected.
func (q Query) HasRegion(region string) bool {
	for _, r := range q.Regions {
		if r == region {
			return true
		}
	}
	return false
}

// ToggleRegion returns a copy with region added to or removed from the filter.
// Newly added regions go to the end so the wire order follows selection order.
func (q Query) ToggleRegion(region string) Query {
	next := q.Clone()
	if next.HasRegion(region) {
		kept := next.Regions[:0]
		for _, r := range next.Regions {
			if r != region {
				kept = append(kept, r)
			}
		}
		next.Regions = kept
		return next
	}
	next.Regions = append(next.Regions, region)
	return next
}

// FilterParam is the region filter as sent upstream.
func (q Query) FilterParam() string {
	return strings.Join(q.Regions, LocationSeparator)
}

// Values serializes the server-side part of the query.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("search", q.SearchTerm)
	v.Set("filter", q.FilterParam())
	return v
}

// SameRequest reports whether both queries produce the same upstream request.
// PageSize is ignored.
func (q Query) SameRequest(other Query) bool {
	if q.SearchTerm != other.SearchTerm || q.Page != other.Page {
		return false
	}
	return q.FilterParam() == other.FilterParam()
}

// ValidPageSize reports whether n is an accepted display page size.
func ValidPageSize(n int) bool {
	return n >= MinPageSize && n <= MaxPageSize
}

// Visible slices records to the display page size.
func Visible(records []Message, pageSize int) []Message {
	if pageSize < 0 {
		pageSize = 0
	}
	if pageSize > len(records) {
		pageSize = len(records)
	}
	return records[:pageSize]
}
