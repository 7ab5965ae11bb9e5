// CLAUDE:SUMMARY CLI entry point for recherche — MCP search/extract server over stdio with optional HTTP stats.
// Command recherche serves web search and page extraction as MCP tools
// over stdio, backed by a headless browser and a SQLite cache.
//
// Usage:
//
//	recherche -config recherche.yaml       # run with config file
//	recherche -db recherche.db             # run with defaults
//	recherche -db recherche.db -stats      # show cache stats and exit
package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/recherche"
	"github.com/hazyhaar/recherche/dbopen"
	"github.com/hazyhaar/recherche/internal/render"
	"github.com/hazyhaar/recherche/internal/store"
	"github.com/hazyhaar/recherche/mcpquic"
	"github.com/hazyhaar/recherche/shield"
)

func main() {
	configPath := flag.String("config", "", "path to recherche.yaml config file")
	dbPath := flag.String("db", "", "path to SQLite cache database")
	httpAddr := flag.String("http", "", "optional HTTP listen address for /health and /api/stats")
	quicAddr := flag.String("mcp-quic", "", "optional MCP-over-QUIC listen address")
	browserURL := flag.String("browser", "", "remote Chrome debugging URL (default: launch a local headless Chrome)")
	showStats := flag.Bool("stats", false, "show cache stats and exit")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *dbPath, *httpAddr, *quicAddr, *browserURL, *showStats); err != nil {
		logger.Error("recherche: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, dbPath, httpAddr, quicAddr, browserURL string, showStats bool) error {
	cfg, err := resolveConfig(configPath, dbPath, httpAddr, browserURL)
	if err != nil {
		return err
	}

	db, err := dbopen.Open(cfg.DBPath, dbopen.WithMkdirAll())
	if err != nil {
		return fmt.Errorf("open cache db: %w", err)
	}
	defer db.Close()
	if err := store.ApplySchema(db); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	// One-shot: stats, no browser needed.
	if showStats {
		st := store.NewStore(db)
		stats, err := st.CacheStats(ctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	browser := render.New(render.Config{
		RemoteURL:    cfg.Browser.RemoteURL,
		UserAgent:    cfg.Browser.UserAgent,
		NavTimeout:   cfg.Browser.NavTimeout,
		RecycleAfter: cfg.Browser.RecycleAfter,
		Logger:       logger,
	})

	svc := recherche.New(db, browser, cfg, logger)
	defer svc.Close()

	if cfg.HTTPAddr != "" {
		go serveHTTP(ctx, svc, cfg.HTTPAddr, logger)
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "recherche",
		Version: "1.0.0",
	}, nil)
	svc.RegisterMCP(srv)

	if quicAddr != "" {
		if err := serveQUIC(ctx, srv, quicAddr, logger); err != nil {
			return err
		}
	}

	logger.Info("recherche: serving MCP on stdio", "db", cfg.DBPath)
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// serveQUIC starts the optional MCP-over-QUIC listener. With TLS_CERT and
// TLS_KEY set a real certificate is used; otherwise an ephemeral
// self-signed one.
func serveQUIC(ctx context.Context, srv *mcp.Server, addr string, logger *slog.Logger) error {
	var (
		tlsCfg *tls.Config
		err    error
	)
	certFile := os.Getenv("TLS_CERT")
	keyFile := os.Getenv("TLS_KEY")
	if certFile != "" && keyFile != "" {
		tlsCfg, err = mcpquic.ServerTLSConfig(certFile, keyFile)
	} else {
		tlsCfg, err = mcpquic.SelfSignedTLSConfig()
	}
	if err != nil {
		return fmt.Errorf("MCP QUIC TLS: %w", err)
	}

	ql, err := mcpquic.NewListener(addr, tlsCfg, srv, logger)
	if err != nil {
		return fmt.Errorf("MCP QUIC listener: %w", err)
	}
	go func() {
		logger.Info("recherche: MCP QUIC starting", "addr", addr)
		if err := ql.Serve(ctx); err != nil && ctx.Err() == nil {
			logger.Error("recherche: MCP QUIC", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		ql.Close()
	}()
	return nil
}

func serveHTTP(ctx context.Context, svc *recherche.Service, addr string, logger *slog.Logger) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	for _, mw := range shield.DefaultAPIStack() {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/stats", func(w http.ResponseWriter, req *http.Request) {
		stats, err := svc.Stats(req.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	server := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	logger.Info("recherche: HTTP listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("recherche: HTTP server", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func resolveConfig(configPath, dbPath, httpAddr, browserURL string) (*recherche.Config, error) {
	var cfg *recherche.Config
	if configPath != "" {
		loaded, err := recherche.LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &recherche.Config{}
	}

	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if browserURL != "" {
		cfg.Browser.RemoteURL = browserURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "recherche.db"
	}
	return cfg, nil
}
