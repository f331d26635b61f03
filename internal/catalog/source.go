package catalog

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/lunarhue/storefront/internal/domain/product"
)

// Sentinel errors for the fetch failure taxonomy. Each maps to a distinct
// human-readable message surfaced to the UI; none of them is retried
// automatically.
var (
	// ErrUnavailable covers connection failures and non-200 responses.
	ErrUnavailable = errors.New("catalog source unavailable")
	// ErrTimeout is returned when the fetch exceeds its timeout budget.
	ErrTimeout = errors.New("catalog fetch timed out")
	// ErrMalformed is returned when the response body is not a JSON array.
	ErrMalformed = errors.New("malformed catalog response")
)

// Source fetches the remote product catalog. The raw payload is returned
// alongside the decoded products so callers can snapshot it.
type Source interface {
	Fetch(ctx context.Context, limit int) (products []product.Product, raw []byte, err error)
}

// Client is the HTTP implementation of Source.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
}

// NewClient creates a catalog client for the given endpoint URL. A nil
// transport falls back to http.DefaultTransport; callers usually pass an
// otelhttp-instrumented one.
func NewClient(endpoint string, timeout time.Duration, transport http.RoundTripper) (*Client, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, errors.Wrap(err, "parse catalog endpoint")
	}
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		endpoint: endpoint,
		timeout:  timeout,
		http:     &http.Client{Transport: transport},
	}, nil
}

// Fetch issues GET <endpoint>?limit=N and decodes the response.
// The returned products are normalized; raw is the response body as received,
// suitable for snapshotting.
func (c *Client) Fetch(ctx context.Context, limit int) ([]product.Product, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.endpoint
	if limit > 0 {
		sep := "?"
		if parsed, err := url.Parse(c.endpoint); err == nil && parsed.RawQuery != "" {
			sep = "&"
		}
		u += sep + "limit=" + strconv.Itoa(limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, ErrTimeout
		}
		return nil, nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, errors.Wrapf(ErrUnavailable, "status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, ErrTimeout
		}
		return nil, nil, errors.Wrap(ErrUnavailable, "read body")
	}

	products, err := DecodeProducts(body)
	if err != nil {
		return nil, nil, err
	}
	return products, body, nil
}

// DecodeProducts parses a JSON array of product records. The top-level shape
// must be an array (anything else is ErrMalformed), but individual records
// are decoded tolerantly: null or non-object entries are dropped, and fields
// that are missing or carry an unexpected type fall back to their defaults.
func DecodeProducts(data []byte) ([]product.Product, error) {
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Array {
		return nil, ErrMalformed
	}

	var products []product.Product
	err := d.Arr(func(d *jx.Decoder) error {
		switch d.Next() {
		case jx.Object:
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			products = append(products, product.Normalize(p))
			return nil
		default:
			// Null or otherwise malformed entry: drop it, keep the rest.
			return d.Skip()
		}
	})
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return products, nil
}

// decodeProduct reads one product object. Each field is captured raw first so
// a type mismatch inside a single field never aborts the whole fetch.
func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		switch key {
		case "id":
			if v, err := jx.DecodeBytes(raw).Int64(); err == nil {
				p.ID = v
			}
		case "title":
			if v, err := jx.DecodeBytes(raw).Str(); err == nil {
				p.Title = v
			}
		case "description":
			if v, err := jx.DecodeBytes(raw).Str(); err == nil {
				p.Description = v
			}
		case "price":
			p.Price = decodePrice(raw)
		case "category":
			p.Category = decodeCategory(raw)
		case "images":
			p.Images = decodeImages(raw)
		}
		return nil
	})
	return p, err
}

// decodePrice accepts both JSON numbers and numeric strings.
func decodePrice(raw jx.Raw) decimal.Decimal {
	d := jx.DecodeBytes(raw)
	switch d.Next() {
	case jx.Number:
		if n, err := d.Num(); err == nil {
			if v, err := decimal.NewFromString(n.String()); err == nil {
				return v
			}
		}
	case jx.String:
		if s, err := d.Str(); err == nil {
			if v, err := decimal.NewFromString(s); err == nil {
				return v
			}
		}
	}
	return decimal.Zero
}

// decodeCategory accepts either {"name": "..."} objects or bare strings.
func decodeCategory(raw jx.Raw) string {
	d := jx.DecodeBytes(raw)
	switch d.Next() {
	case jx.Object:
		var name string
		_ = d.Obj(func(d *jx.Decoder, key string) error {
			if key != "name" {
				return d.Skip()
			}
			v, err := d.Str()
			if err != nil {
				return err
			}
			name = v
			return nil
		})
		return name
	case jx.String:
		if s, err := d.Str(); err == nil {
			return s
		}
	}
	return ""
}

func decodeImages(raw jx.Raw) []string {
	d := jx.DecodeBytes(raw)
	if d.Next() != jx.Array {
		return nil
	}
	var images []string
	_ = d.Arr(func(d *jx.Decoder) error {
		if d.Next() != jx.String {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return err
		}
		images = append(images, s)
		return nil
	})
	return images
}
