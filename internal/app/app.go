package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/lunarhue/storefront/internal/cart"
	"github.com/lunarhue/storefront/internal/catalog"
	"github.com/lunarhue/storefront/internal/handler"
	"github.com/lunarhue/storefront/internal/notify"
	"github.com/lunarhue/storefront/internal/storage/sqlite"
	"github.com/lunarhue/storefront/internal/wishlist"
	"github.com/lunarhue/storefront/pkg/health"
	"github.com/lunarhue/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// Persistent cart and wishlist state.
	state, err := sqlite.Open(ctx, cfg.StatePath)
	if err != nil {
		return errors.Wrap(err, "open state db")
	}
	defer func() { _ = state.Close() }()

	// Upstream catalog client with traced transport.
	source, err := catalog.NewClient(cfg.CatalogURL, cfg.FetchTimeout, otelhttp.NewTransport(
		http.DefaultTransport,
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	))
	if err != nil {
		return errors.Wrap(err, "create catalog client")
	}

	snapshot := catalog.NewSnapshot(cfg.SnapshotPath)
	catalogStore := catalog.NewStore(catalog.StoreConfig{
		Source:         source,
		Cache:          catalog.NewCache(cfg.CacheTTL),
		Snapshot:       snapshot,
		FetchLimit:     cfg.FetchLimit,
		PageSize:       cfg.PageSize,
		SearchDebounce: cfg.SearchDebounce,
		Tracer:         m.TracerProvider().Tracer("storefront/catalog"),
	})
	defer catalogStore.Close()

	cartStore := cart.NewStore(catalogStore, sqlite.NewCartRepository(state))
	if err := cartStore.Load(ctx); err != nil {
		return errors.Wrap(err, "load cart state")
	}
	wishlistStore := wishlist.NewStore(sqlite.NewWishlistRepository(state))
	if err := wishlistStore.Load(ctx); err != nil {
		return errors.Wrap(err, "load wishlist state")
	}

	// Populate the catalog before serving: a warm snapshot avoids the
	// network entirely, and a failed initial fetch is not fatal since the
	// store serves its error state until a manual retry succeeds.
	if products, at, ok := snapshot.Load(); ok && catalogStore.WarmStart(products, at) {
		lg.Info("Catalog warm start from snapshot",
			zap.Int("products", len(products)),
			zap.Time("taken_at", at),
		)
	} else if err := catalogStore.Refresh(ctx); err != nil {
		lg.Warn("Initial catalog fetch failed", zap.Error(err))
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddReadinessCheck("state-db", 5*time.Second, state.Ping)
	healthSvc.SetReady(true)

	center := notify.NewCenter(cfg.Notifications, lg)

	h, err := handler.New(catalogStore, cartStore, wishlistStore, center, m.MeterProvider())
	if err != nil {
		return errors.Wrap(err, "create handler")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: otelhttp.NewHandler(
			httpmiddleware.Wrap(mux,
				httpmiddleware.Recovery(),
				httpmiddleware.CORS(httpmiddleware.CORSConfig{
					AllowOrigins:     cfg.CORS.Origins,
					AllowCredentials: cfg.CORS.AllowCredentials,
				}),
				httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
					Max:    cfg.RateLimit.Max,
					Window: cfg.RateLimit.Window,
				}),
				httpmiddleware.RequestID(),
				httpmiddleware.InjectLogger(zctx.From(ctx)),
				httpmiddleware.LogRequests(),
			),
			"storefront-api",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
