package product

import (
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist in the
// current catalog.
var ErrNotFound = errors.New("product not found")

// Defaults applied to missing or malformed fields at ingestion time.
const (
	DefaultTitle     = "Unknown Product"
	DefaultCategory  = "Uncategorized"
	PlaceholderImage = "https://placehold.co/600x400?text=No+Image"
)

// Product represents a catalog item. Instances are created once per fetch by
// the catalog source and are immutable for the session: filtering, sorting,
// and cart snapshots never mutate them.
type Product struct {
	ID          int64
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Images      []string
}

// Image returns the primary display image, falling back to the placeholder.
func (p Product) Image() string {
	if len(p.Images) == 0 {
		return PlaceholderImage
	}
	return p.Images[0]
}

// Normalize resolves field defaults and sanitizes image URLs. It is applied
// exactly once, when a raw record is deserialized, so readers never need
// defensive field access.
func Normalize(p Product) Product {
	if strings.TrimSpace(p.Title) == "" {
		p.Title = DefaultTitle
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = DefaultCategory
	}
	if p.Price.IsNegative() {
		p.Price = decimal.Zero
	}
	p.Images = SanitizeImages(p.Images)
	return p
}

// SanitizeImages cleans each image URL and drops entries that are not valid
// http(s) URLs. An empty result yields the placeholder so rendering always
// has something to show.
func SanitizeImages(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, img := range raw {
		if u, ok := sanitizeImageURL(img); ok {
			out = append(out, u)
		}
	}
	if len(out) == 0 {
		return []string{PlaceholderImage}
	}
	return out
}

// sanitizeImageURL strips stray bracket and quote characters that some
// catalog sources wrap around image URLs, then validates the result.
func sanitizeImageURL(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "[]\"' ")
	if s == "" {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return s, true
}
