package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"agroverse/advisory"
	"agroverse/config"
	"agroverse/globals"
	"agroverse/logx"
	"agroverse/middleware"
	"agroverse/ratelim"
	"agroverse/rdx"
	"agroverse/routes"
)

// ProxyHandler assembles the advisory proxy:
// request id → logging → security headers → CORS → tracing → router.
func ProxyHandler(cfg config.Proxy, cache rdx.Cache, rateLimiter *ratelim.RateLimiter, opts ...advisory.Option) http.Handler {
	router := httprouter.New()
	routes.RoutesWrapper(router, advisory.NewHandlers(cfg, cache, opts...), rateLimiter)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
	}).Handler(otelhttp.NewHandler(router, "advisory-proxy"))

	return middleware.RequestID(middleware.Logging(middleware.SecurityHeaders(corsHandler)))
}

func (a *App) serve(ctx context.Context, args []string) error {
	cfg := a.cfg.Proxy
	fs := a.flags("serve", "[-addr ADDR]")
	addr := fs.String("addr", cfg.Port, "listen address")
	if err := parse(fs, args); err != nil {
		return err
	}

	globals.JwtSecret = []byte(cfg.JWTSecret)
	if cfg.OpenWeatherAPIKey == "" {
		logx.Warn().Msg("OPENWEATHER_API_KEY not set; weather endpoint disabled")
	}
	if cfg.NewsAPIKey == "" {
		logx.Warn().Msg("NEWS_API_KEY not set; news endpoint disabled")
	}

	stop := make(chan struct{})
	defer close(stop)

	var cache rdx.Cache
	if cfg.RedisURL != "" {
		r, err := rdx.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer r.Close()
		cache = r
	} else {
		mem := rdx.NewMemory()
		go mem.Run(time.Minute, stop)
		cache = mem
	}

	rateLimiter := ratelim.NewRateLimiter(cfg.RatePerSecond, cfg.RateBurst)
	go rateLimiter.Run(time.Minute, stop)

	server := &http.Server{
		Addr:              *addr,
		Handler:           ProxyHandler(cfg, cache, rateLimiter),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", *addr).Msg("advisory proxy listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info().Msg("shutdown signal received; shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logx.Info().Msg("server stopped cleanly")
	return nil
}
