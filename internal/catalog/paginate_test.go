package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lunarhue/storefront/internal/domain/product"
)

func nProducts(n int) []product.Product {
	out := make([]product.Product, n)
	for i := range out {
		out[i] = product.Product{ID: int64(i + 1)}
	}
	return out
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, pageSize, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
		{101, 20, 6},
		{5, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.count, tt.pageSize), "count=%d size=%d", tt.count, tt.pageSize)
	}
}

func TestPaginate(t *testing.T) {
	items := nProducts(45)

	page, total := Paginate(items, 20, 1)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 20)
	assert.Equal(t, int64(1), page[0].ID)

	page, _ = Paginate(items, 20, 3)
	assert.Len(t, page, 5)
	assert.Equal(t, int64(41), page[0].ID)
}

func TestPaginate_OutOfRange(t *testing.T) {
	items := nProducts(45)

	page, total := Paginate(items, 20, 0)
	assert.Equal(t, 3, total)
	assert.Nil(t, page)

	page, _ = Paginate(items, 20, 4)
	assert.Nil(t, page)
}

func TestPaginate_Empty(t *testing.T) {
	page, total := Paginate(nil, 20, 1)
	assert.Equal(t, 1, total)
	assert.Empty(t, page)
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name            string
		current, total  int
		want            []int
	}{
		{"centered", 5, 10, []int{3, 4, 5, 6, 7}},
		{"left boundary", 1, 10, []int{1, 2, 3, 4, 5}},
		{"near left boundary", 2, 10, []int{1, 2, 3, 4, 5}},
		{"right boundary", 10, 10, []int{6, 7, 8, 9, 10}},
		{"near right boundary", 9, 10, []int{6, 7, 8, 9, 10}},
		{"fewer pages than window", 2, 3, []int{1, 2, 3}},
		{"single page", 1, 1, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageWindow(tt.current, tt.total))
		})
	}
}
