package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lunarhue/storefront/internal/domain/product"
)

// SortKey selects the ordering of the filtered view.
type SortKey string

const (
	// SortName orders by title with locale-aware collation, ascending.
	SortName SortKey = "name"
	// SortPriceLow orders by price, ascending.
	SortPriceLow SortKey = "price-low"
	// SortPriceHigh orders by price, descending.
	SortPriceHigh SortKey = "price-high"
)

// CategoryAll is the sentinel category that disables category filtering.
const CategoryAll = "all"

// Criteria is the full set of view selection inputs. The zero value is not
// useful; use DefaultCriteria.
type Criteria struct {
	Search   string
	Category string
	Sort     SortKey
}

// DefaultCriteria is the view applied after a successful fetch: everything,
// sorted by name.
func DefaultCriteria() Criteria {
	return Criteria{Category: CategoryAll, Sort: SortName}
}

// ApplyCriteria is the pure filter/sort engine: it returns a new slice of the
// products matching c, ordered by the sort key with original order breaking
// ties. The input slice is never mutated.
func ApplyCriteria(products []product.Product, c Criteria) []product.Product {
	return applyCriteria(products, c, nil)
}

// Apply is ApplyCriteria accelerated by the index, which must have been
// built from exactly this products slice.
func (idx *Index) Apply(products []product.Product, c Criteria) []product.Product {
	return applyCriteria(products, c, idx)
}

func applyCriteria(products []product.Product, c Criteria, idx *Index) []product.Product {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	var grams []string
	if idx != nil && len(search) >= minPrefilterLen {
		grams = trigrams(search)
	}

	out := make([]product.Product, 0, len(products))
	for i, p := range products {
		if !passesCategory(p, c.Category) {
			continue
		}
		if grams != nil && !idx.mayMatch(i, grams) {
			continue
		}
		if !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, c.Sort)
	return out
}

// matchesSearch reports whether search is empty or a case-insensitive
// substring of the product's title, description, or category.
func matchesSearch(p product.Product, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), search) ||
		strings.Contains(strings.ToLower(p.Description), search) ||
		strings.Contains(strings.ToLower(p.Category), search)
}

// passesCategory reports whether the selected category is the "all" sentinel
// (or empty) or matches the product's category exactly.
func passesCategory(p product.Product, category string) bool {
	return category == "" || category == CategoryAll || p.Category == category
}

// sortProducts orders in place, stable so equal keys keep fetch order.
func sortProducts(products []product.Product, key SortKey) {
	switch key {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b product.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b product.Product) int {
			return b.Price.Cmp(a.Price)
		})
	default: // SortName
		coll := collate.New(language.Und, collate.IgnoreCase)
		slices.SortStableFunc(products, func(a, b product.Product) int {
			return coll.CompareString(a.Title, b.Title)
		})
	}
}

// Categories returns the distinct category names present in products, in
// first-appearance order, for the UI's category selector.
func Categories(products []product.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
