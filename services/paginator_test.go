package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callforscience/models"
)

func numbered(n int) []*models.Listing {
	out := make([]*models.Listing, n)
	for i := range out {
		out[i] = listing(fmt.Sprintf("J%02d", i+1))
	}
	return out
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{45, 10, 5},
		{100, 50, 2},
		{5, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.count, tt.size), "count=%d size=%d", tt.count, tt.size)
	}
}

func TestPaginateFortyFiveRows(t *testing.T) {
	items := numbered(45)

	p1 := Paginate(items, PageRequest{Page: 1, Size: 20})
	assert.Equal(t, 3, p1.TotalPages)
	assert.Equal(t, 45, p1.Total)
	require.Len(t, p1.Items, 20)
	assert.Equal(t, "J01", p1.Items[0].Journal)
	assert.False(t, p1.HasPrev())
	assert.True(t, p1.HasNext())

	p3 := Paginate(items, PageRequest{Page: 3, Size: 20})
	require.Len(t, p3.Items, 5)
	assert.Equal(t, "J41", p3.Items[0].Journal)
	assert.Equal(t, "J45", p3.Items[4].Journal)
	assert.True(t, p3.HasPrev())
	assert.False(t, p3.HasNext())
}

func TestPaginateSlicesAreContiguous(t *testing.T) {
	items := numbered(45)
	for _, size := range PageSizes {
		var seen []string
		total := TotalPages(len(items), size)
		for page := 1; page <= total; page++ {
			p := Paginate(items, PageRequest{Page: page, Size: size})
			assert.LessOrEqual(t, len(p.Items), size)
			seen = append(seen, journals(p.Items)...)
		}
		assert.Equal(t, journals(items), seen, "size %d", size)
	}
}

func TestPaginateClampsPage(t *testing.T) {
	items := numbered(45)

	assert.Equal(t, 1, Paginate(items, PageRequest{Page: 0, Size: 20}).Page)
	assert.Equal(t, 1, Paginate(items, PageRequest{Page: -3, Size: 20}).Page)
	assert.Equal(t, 3, Paginate(items, PageRequest{Page: 99, Size: 20}).Page)

	empty := Paginate(nil, PageRequest{Page: 4, Size: 20})
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.Items)
}

func TestPageRequestNavigation(t *testing.T) {
	items := numbered(45)
	req := PageRequest{Page: 1, Size: 20}

	req = req.Prev()
	assert.Equal(t, 1, Paginate(items, req).Page, "prev on first page stays on first page")

	req = PageRequest{Page: 3, Size: 20}.Next()
	assert.Equal(t, 3, Paginate(items, req).Page, "next on last page stays on last page")

	req = PageRequest{Page: 3, Size: 20}.WithSize(50)
	assert.Equal(t, PageRequest{Page: 1, Size: 50}, req)
}

func TestNewPageRequest(t *testing.T) {
	req, err := NewPageRequest(2, 0)
	require.NoError(t, err)
	assert.Equal(t, PageRequest{Page: 2, Size: DefaultPageSize}, req)

	for _, size := range PageSizes {
		_, err := NewPageRequest(1, size)
		assert.NoError(t, err)
	}

	_, err = NewPageRequest(1, 25)
	assert.True(t, errors.Is(err, models.ErrInvalidCriteria))
}
