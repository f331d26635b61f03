package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalize_Defaults(t *testing.T) {
	p := Normalize(Product{ID: 7})

	assert.Equal(t, DefaultTitle, p.Title)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, DefaultCategory, p.Category)
	assert.True(t, decimal.Zero.Equal(p.Price))
	assert.Equal(t, []string{PlaceholderImage}, p.Images)
}

func TestNormalize_NegativePriceClamped(t *testing.T) {
	p := Normalize(Product{ID: 1, Price: decimal.NewFromInt(-5)})
	assert.True(t, decimal.Zero.Equal(p.Price))
}

func TestNormalize_KeepsValidFields(t *testing.T) {
	p := Normalize(Product{
		ID:          1,
		Title:       "Red Shoe",
		Description: "a shoe",
		Price:       decimal.NewFromInt(10),
		Category:    "Shoes",
		Images:      []string{"https://cdn.example.com/shoe.jpg"},
	})

	assert.Equal(t, "Red Shoe", p.Title)
	assert.Equal(t, "Shoes", p.Category)
	assert.Equal(t, []string{"https://cdn.example.com/shoe.jpg"}, p.Images)
}

func TestSanitizeImages(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "stray brackets and quotes stripped",
			in:   []string{`["https://cdn.example.com/a.jpg"]`},
			want: []string{"https://cdn.example.com/a.jpg"},
		},
		{
			name: "single quotes stripped",
			in:   []string{`'https://cdn.example.com/b.jpg'`},
			want: []string{"https://cdn.example.com/b.jpg"},
		},
		{
			name: "invalid entries dropped, valid kept",
			in:   []string{"not a url", "https://cdn.example.com/c.jpg"},
			want: []string{"https://cdn.example.com/c.jpg"},
		},
		{
			name: "relative URL rejected",
			in:   []string{"/images/d.jpg"},
			want: []string{PlaceholderImage},
		},
		{
			name: "ftp scheme rejected",
			in:   []string{"ftp://cdn.example.com/e.jpg"},
			want: []string{PlaceholderImage},
		},
		{
			name: "empty input yields placeholder",
			in:   nil,
			want: []string{PlaceholderImage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeImages(tt.in))
		})
	}
}

func TestImage_Fallback(t *testing.T) {
	assert.Equal(t, PlaceholderImage, Product{}.Image())
	assert.Equal(t, "https://x.test/a.jpg", Product{Images: []string{"https://x.test/a.jpg"}}.Image())
}
