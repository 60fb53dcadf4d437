package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		count, perPage, expected int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{24, 12, 2},
		{25, 12, 3},
		{100, 10, 10},
		{101, 10, 11},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, PageCount(tt.count, tt.perPage), "count=%d perPage=%d", tt.count, tt.perPage)
	}
}

func TestNew_EmptyRendersNothing(t *testing.T) {
	p := New(0, 12, 1)
	assert.True(t, p.Empty())
	assert.Equal(t, 0, p.StartIndex)
	assert.Equal(t, 0, p.EndIndex)
	assert.Equal(t, 0, p.PageCount)
	assert.Equal(t, "", p.Label())
	assert.False(t, p.HasNext())
	assert.False(t, p.HasPrev())
}

func TestNew_SingleItem(t *testing.T) {
	p := New(1, 12, 1)
	assert.Equal(t, 1, p.PageCount)
	assert.Equal(t, 0, p.StartIndex)
	assert.Equal(t, 1, p.EndIndex)
	assert.Equal(t, "1–1 of 1", p.Label())
}

func TestNew_Boundaries(t *testing.T) {
	tests := []struct {
		name             string
		count, perPage   int
		page             int
		start, end       int
		label            string
		hasPrev, hasNext bool
	}{
		{"first full page", 30, 12, 1, 0, 12, "1–12 of 30", false, true},
		{"middle page", 30, 12, 2, 12, 24, "13–24 of 30", true, true},
		{"last partial page", 30, 12, 3, 24, 30, "25–30 of 30", true, false},
		{"exact multiple last page", 24, 12, 2, 12, 24, "13–24 of 24", true, false},
		{"page past the end", 30, 12, 9, 30, 30, "", true, false},
		{"page below one is clamped", 30, 12, 0, 0, 12, "1–12 of 30", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.count, tt.perPage, tt.page)
			assert.Equal(t, tt.start, p.StartIndex)
			assert.Equal(t, tt.end, p.EndIndex)
			assert.Equal(t, tt.label, p.Label())
			assert.Equal(t, tt.hasPrev, p.HasPrev())
			assert.Equal(t, tt.hasNext, p.HasNext())
		})
	}
}

func TestNewRequest(t *testing.T) {
	r := NewRequest(0, 0, ListPerPage)
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, ListPerPage, r.PerPage)
	assert.Equal(t, 0, r.Offset())

	r = NewRequest(3, 500, ListPerPage)
	assert.Equal(t, MaxPerPage, r.Limit())
	assert.Equal(t, 200, r.Offset())

	p := FromRequest(NewRequest(2, 12, DefaultPerPage), 13)
	assert.Equal(t, "13–13 of 13", p.Label())
}
