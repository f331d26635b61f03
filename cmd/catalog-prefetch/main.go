// Command catalog-prefetch fetches the upstream product catalog and writes
// it to a compressed snapshot file, so the API server can warm start
// without a network round trip.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"

	"github.com/lunarhue/storefront/internal/catalog"
)

func main() {
	var (
		endpoint string
		out      string
		limit    int
		timeout  time.Duration
	)

	flag.StringVar(&endpoint, "endpoint", "https://api.escuelajs.co/api/v1/products", "upstream catalog endpoint")
	flag.StringVar(&out, "out", "catalog.json.gz", "snapshot output path")
	flag.IntVar(&limit, "limit", 100, "number of products to request")
	flag.DurationVar(&timeout, "timeout", 8*time.Second, "request timeout")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, endpoint, out, limit, timeout); err != nil {
		slog.Error("catalog prefetch failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, endpoint, out string, limit int, timeout time.Duration) error {
	client, err := catalog.NewClient(endpoint, timeout, http.DefaultTransport)
	if err != nil {
		return errors.Wrap(err, "create client")
	}

	products, raw, err := client.Fetch(ctx, limit)
	if err != nil {
		return errors.Wrap(err, "fetch catalog")
	}
	slog.Info("catalog fetched",
		slog.Int("products", len(products)),
		slog.Int("bytes", len(raw)),
	)

	snap := catalog.NewSnapshot(out)
	if err := snap.Write(raw); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	slog.Info("snapshot written", slog.String("path", out))
	return nil
}
