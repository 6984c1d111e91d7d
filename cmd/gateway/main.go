// Entry point for the yargi-mcp gateway — chi router, MCP streamable-HTTP
// and SSE transports, no persistence, no authentication (spec.md Non-goals).
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/adapters/anayasabireysel"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/anayasanorm"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/bedesten"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/danistay"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/emsal"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/kik"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/rekabet"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/uyusmazlik"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/yargitay"
	"github.com/serkanbykl/yargi-mcp/internal/config"
	"github.com/serkanbykl/yargi-mcp/internal/gateway"
	"github.com/serkanbykl/yargi-mcp/internal/shield"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	adapters, closers, err := buildAdapters(cfg)
	if err != nil {
		slog.Error("adapter construction", "error", err)
		os.Exit(1)
	}
	defer func() {
		for _, c := range closers {
			if cErr := c(); cErr != nil {
				slog.Warn("adapter close", "error", cErr)
			}
		}
	}()

	mcpSrv := mcp.NewServer(&mcp.Implementation{
		Name:    "yargi-mcp",
		Version: "1.0.0",
	}, nil)
	gateway.Register(mcpSrv, adapters)

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return mcpSrv }, nil)
	sse := mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return mcpSrv }, nil)

	r := chi.NewRouter()
	r.Use(shield.HeadToGet)
	r.Use(shield.SecurityHeaders(shield.DefaultHeaders()))
	r.Use(shield.TraceID)
	r.Use(shield.CORS(cfg.AllowedOrigins))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("yargi-mcp gateway\n"))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"adapters":9,"bedestenCourtKinds":6}`))
	})

	r.Handle("/mcp", streamable)
	r.Handle("/mcp/*", streamable)
	r.Handle("/sse", sse)
	r.Handle("/sse/*", sse)

	srv := &http.Server{
		Addr:              cfg.Host + ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("gateway starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("gateway stopped")
}

// buildAdapters constructs every source adapter and returns their Close
// functions so main can tear them down best-effort on shutdown — a single
// construction failure is fatal, but close errors are only logged (spec.md
// §5: adapter close is best-effort and never blocks shutdown).
func buildAdapters(cfg config.Config) (*gateway.Adapters, []func() error, error) {
	var closers []func() error

	yargitayAdapter, err := yargitay.New()
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, yargitayAdapter.Close)

	danistayAdapter, err := danistay.New()
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, danistayAdapter.Close)

	emsalAdapter, err := emsal.New()
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, emsalAdapter.Close)

	uyusmazlikAdapter, err := uyusmazlik.New()
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, uyusmazlikAdapter.Close)

	anayasaNormAdapter, err := anayasanorm.New()
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, anayasaNormAdapter.Close)

	anayasaBireyselAdapter, err := anayasabireysel.New()
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, anayasaBireyselAdapter.Close)

	kikAdapter := kik.New(cfg.RemoteBrowser)
	closers = append(closers, kikAdapter.Close)

	rekabetAdapter, err := rekabet.New()
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, rekabetAdapter.Close)

	bedestenByKind := make(map[bedesten.CourtKind]*bedesten.Adapter, 6)
	for _, kind := range []bedesten.CourtKind{
		bedesten.YargitayHukuk,
		bedesten.YargitayCeza,
		bedesten.DanistayKind,
		bedesten.YerelHukuk,
		bedesten.IstinafHukuk,
		bedesten.KYBKind,
	} {
		a, err := bedesten.New()
		if err != nil {
			return nil, nil, err
		}
		bedestenByKind[kind] = a
		closers = append(closers, a.Close)
	}

	return &gateway.Adapters{
		Yargitay:        yargitayAdapter,
		Danistay:        danistayAdapter,
		Emsal:           emsalAdapter,
		Uyusmazlik:      uyusmazlikAdapter,
		AnayasaNorm:     anayasaNormAdapter,
		AnayasaBireysel: anayasaBireyselAdapter,
		KIK:             kikAdapter,
		Rekabet:         rekabetAdapter,
		Bedesten:        bedestenByKind,
	}, closers, nil
}
