package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	listviews "github.com/goliatone/go-listviews"
	"github.com/goliatone/go-listviews/internal/config"
	"github.com/goliatone/go-listviews/pkg/store/pgstore"
	"github.com/goliatone/go-listviews/pkg/viewconfig"
	"github.com/goliatone/go-listviews/pkg/views"
)

//go:embed views/*.yaml
var demoViews embed.FS

func main() {
	configPath := flag.String("config", "", "YAML config file (LISTVIEWS_* env vars override it)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	set, err := loadViews(ctx, cfg)
	if err != nil {
		return err
	}

	var overrides fs.FS
	if cfg.TemplatesDir != "" {
		overrides = os.DirFS(cfg.TemplatesDir)
	}
	registry, err := listviews.NewRegistry(overrides)
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}

	opts := []views.Option{
		views.WithLogger(logger),
		views.WithRegistry(registry),
		views.WithThemeSelector(demoSelector(cfg.Theme.Name, cfg.Theme.Variant), cfg.Theme.Name, cfg.Theme.Variant),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, views.WithMetrics(views.NewMetrics(prometheus.DefaultRegisterer)))
	}
	m, err := listviews.New(set, backend, opts...)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	m.RegisterRoutes(mux, cfg.Prefix)
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServerFS(listviews.AssetsFS())))
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var handler http.Handler = mux
	if len(cfg.CORS.AllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut},
			AllowCredentials: true,
		}).Handler(mux)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("listening", "addr", cfg.Addr, "prefix", cfg.Prefix, "views", set.Names(), "store", cfg.Store.Driver)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("shut down")
	return nil
}

func openBackend(ctx context.Context, cfg config.Config) (views.Backend, func(), error) {
	if cfg.Store.Driver != config.DriverPostgres {
		return sampleStore(time.Now()), func() {}, nil
	}
	pool, err := pgstore.Connect(ctx, cfg.Store.Postgres)
	if err != nil {
		return nil, nil, err
	}
	st, err := pgstore.New(pool, cfg.Store.Tables...)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return st, pool.Close, nil
}

func loadViews(ctx context.Context, cfg config.Config) (*viewconfig.Set, error) {
	var fsys fs.FS = demoViews
	if cfg.ViewsDir != "" {
		fsys = os.DirFS(cfg.ViewsDir)
	}
	set, err := listviews.LoadViews(fsys)
	if err != nil {
		return nil, err
	}
	if cfg.OpenAPI.Path == "" {
		return set, nil
	}

	table := cfg.OpenAPI.Table
	if table == "" {
		table = cfg.OpenAPI.Schema
	}
	derived, err := listviews.LoadOpenAPIView(ctx, cfg.OpenAPI.Path, cfg.OpenAPI.Schema, table)
	if err != nil {
		return nil, err
	}
	if cfg.OpenAPI.View != "" {
		derived.Name = cfg.OpenAPI.View
	}
	all := []viewconfig.View{derived}
	for _, name := range set.Names() {
		v, _ := set.View(name)
		all = append(all, v)
	}
	return viewconfig.NewSet(all...)
}
