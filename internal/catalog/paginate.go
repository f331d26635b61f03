package catalog

import "github.com/lunarhue/storefront/internal/domain/product"

// pageWindowSize is the maximum number of page links shown at once.
const pageWindowSize = 5

// Paginate returns the 1-indexed page slice of items and the total page
// count. totalPages is at least 1 even for empty input; the UI renders "no
// results" separately. A page outside [1, totalPages] yields an empty slice.
func Paginate(items []product.Product, pageSize, page int) ([]product.Product, int) {
	totalPages := TotalPages(len(items), pageSize)
	if page < 1 || page > totalPages {
		return nil, totalPages
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []product.Product{}, totalPages
	}
	end := min(start+pageSize, len(items))
	return items[start:end], totalPages
}

// TotalPages is ceil(count/pageSize), minimum 1.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// PageWindow returns the visible page numbers: at most 5 consecutive pages
// centered on current, shifted at the boundaries so min(5, totalPages)
// numbers always show.
func PageWindow(current, totalPages int) []int {
	size := min(pageWindowSize, totalPages)

	start := current - pageWindowSize/2
	if start < 1 {
		start = 1
	}
	if start+size-1 > totalPages {
		start = totalPages - size + 1
	}

	window := make([]int, size)
	for i := range window {
		window[i] = start + i
	}
	return window
}
