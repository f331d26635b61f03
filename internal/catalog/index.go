package catalog

import (
	"runtime"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"golang.org/x/sync/errgroup"

	"github.com/lunarhue/storefront/internal/domain/product"
)

// indexFPR is the per-product bloom filter false positive rate. False
// positives only cost a substring verify; false negatives cannot occur, so
// the prefilter never drops a true match.
const indexFPR = 0.01

// minPrefilterLen is the shortest search string the trigram prefilter
// applies to. Shorter queries fall back to a plain scan.
const minPrefilterLen = 3

// Index accelerates substring search over a fixed product slice. Each
// product gets a bloom filter of the lowercased trigrams of its searchable
// text; a product whose filter misses any query trigram cannot contain the
// query and is skipped without a substring scan.
type Index struct {
	filters []*bloom.BloomFilter
}

// BuildIndex constructs the search index for products, fanning the per-product
// filter construction out across CPUs. The index is tied to the exact slice
// it was built from (it is positional) and must be rebuilt on re-fetch.
func BuildIndex(products []product.Product) *Index {
	idx := &Index{filters: make([]*bloom.BloomFilter, len(products))}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(products) + workers - 1) / workers
	if chunk == 0 {
		return idx
	}

	var g errgroup.Group
	for start := 0; start < len(products); start += chunk {
		end := min(start+chunk, len(products))
		g.Go(func() error {
			for i := start; i < end; i++ {
				idx.filters[i] = buildFilter(products[i])
			}
			return nil
		})
	}
	// Workers never return errors; errgroup is used for the fan-out/join.
	_ = g.Wait()
	return idx
}

// mayMatch reports whether the product at position i can possibly contain
// the given query trigrams.
func (idx *Index) mayMatch(i int, grams []string) bool {
	f := idx.filters[i]
	for _, g := range grams {
		if !f.TestString(g) {
			return false
		}
	}
	return true
}

func buildFilter(p product.Product) *bloom.BloomFilter {
	grams := make(map[string]struct{})
	for _, field := range []string{p.Title, p.Description, p.Category} {
		for _, g := range trigrams(strings.ToLower(field)) {
			grams[g] = struct{}{}
		}
	}

	n := uint(len(grams))
	if n == 0 {
		n = 1
	}
	f := bloom.NewWithEstimates(n, indexFPR)
	for g := range grams {
		f.AddString(g)
	}
	return f
}

// trigrams returns every 3-byte window of s. Matching is byte-based on
// lowercased text, consistent with the substring verify step.
func trigrams(s string) []string {
	if len(s) < 3 {
		return nil
	}
	out := make([]string, 0, len(s)-2)
	for i := 0; i+3 <= len(s); i++ {
		out = append(out, s[i:i+3])
	}
	return out
}
