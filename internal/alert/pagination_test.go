package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		wantStart  int
		wantEnd    int
	}{
		{"middle of long list", 7, 23, 6, 10},
		{"short list", 1, 3, 1, 3},
		{"last partial window", 22, 23, 21, 23},
		{"window boundary", 5, 23, 1, 5},
		{"first of second window", 6, 23, 6, 10},
		{"no pages", 1, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := PageWindow(tt.page, tt.totalPages, DefaultWindowSize)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, tt.wantEnd, w.End)
		})
	}
}

func TestWindowNavigationTargets(t *testing.T) {
	w := PageWindow(7, 23, 5)
	assert.Equal(t, 1, w.Previous())
	assert.Equal(t, 11, w.Next())
	assert.Equal(t, []int{6, 7, 8, 9, 10}, w.Pages())

	first := PageWindow(2, 3, 5)
	assert.False(t, InRange(first.Previous(), 3))
	assert.False(t, InRange(first.Next(), 3))
}

func TestWindowPages_Empty(t *testing.T) {
	assert.Nil(t, PageWindow(1, 0, 5).Pages())
}
