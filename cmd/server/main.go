package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/afero"

	"github.com/16880444c/V4/internal/agreement"
	"github.com/16880444c/V4/internal/config"
	"github.com/16880444c/V4/internal/handler"
	"github.com/16880444c/V4/internal/inspect"
	"github.com/16880444c/V4/internal/loader"
	"github.com/16880444c/V4/internal/logging"
	authmw "github.com/16880444c/V4/internal/middleware"
	"github.com/16880444c/V4/internal/service"
	"github.com/16880444c/V4/internal/session"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := config.LoadEnvFile(".env"); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logCloser := logging.Setup(cfg.LogLevel, cfg.LogFile)
	defer func() { _ = logCloser.Close() }()

	defaultStyle, err := service.ParseStyle(cfg.DefaultStyle)
	if err != nil {
		slog.Error("invalid DEFAULT_STYLE", "error", err)
		os.Exit(1)
	}

	osFs := afero.NewOsFs()
	catalog, err := agreement.Open(osFs, cfg.CatalogFile)
	if err != nil {
		slog.Error("failed to load agreement catalog", "error", err)
		os.Exit(1)
	}

	// Load every agreement once. Absent sets are reported, not fatal.
	ctx := context.Background()
	setLoader := loader.New(afero.NewBasePathFs(osFs, cfg.AgreementsDir), cfg.RemoteFetchTimeout(), cfg.MaxDocumentBytes)
	library := loader.NewLibrary(catalog, setLoader)
	library.Preload(ctx)
	for _, set := range catalog.Sets {
		res, err := library.Result(ctx, set.Name)
		if err != nil {
			slog.Error("agreement check failed", "set", set.Name, "error", err)
			continue
		}
		inspect.Log(inspect.Inspect(set, res))
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiryHours).
		WithPasswords(cfg.AccessPasswordHash, cfg.AdminPasswordHash)
	llmSvc := service.NewLLMService(service.LLMOptions{
		Provider:    cfg.LLMProvider,
		Model:       cfg.LLMModel,
		APIKey:      cfg.AnthropicAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout(),
	})
	assembler := service.NewAssembler(catalog, cfg.MaxContextChars)
	assistant := service.NewAssistant(catalog, library, assembler, llmSvc)
	store := session.NewStore(cfg.SessionTTL())

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authSvc)
	agreementHandler := handler.NewAgreementHandler(library, defaultStyle, cfg.DebugEnabled)
	sessionHandler := handler.NewSessionHandler(store, assistant, handler.SessionOptions{
		DefaultStyle: string(defaultStyle),
		DebugEnabled: cfg.DebugEnabled,
		LLMProvider:  llmSvc.Provider(),
		LLMModel:     llmSvc.Model(),
	})

	// Build router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// Health check (no auth required)
	r.Get("/health", handler.Health(store))

	// Auth endpoints (no auth required, these issue tokens)
	r.Post("/v1/auth/login", authHandler.Login)

	// Protected endpoints: JWT when AUTH_ENABLED=true, local admin otherwise
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(authSvc, cfg.AuthEnabled))

		r.Get("/v1/scopes", agreementHandler.Scopes)
		r.Get("/v1/styles", agreementHandler.Styles)

		r.Post("/v1/sessions", sessionHandler.Create)
		r.Get("/v1/sessions/{id}", sessionHandler.Get)
		r.Delete("/v1/sessions/{id}", sessionHandler.Delete)
		r.Post("/v1/sessions/{id}/reset", sessionHandler.Reset)
		r.Post("/v1/sessions/{id}/query", sessionHandler.Query)

		// Admin-only endpoints (require admin role)
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireRole(service.RoleAdmin))
			r.Get("/v1/agreements", agreementHandler.List)
			r.Get("/v1/agreements/{name}/inspect", agreementHandler.Inspect)
			r.Get("/v1/agreements/{name}/context", agreementHandler.Context)
		})
	})

	// Serve web UI (static files from WEB_DIR if it exists)
	webDir := cfg.WebDir
	if info, err := os.Stat(webDir); err == nil && info.IsDir() {
		slog.Info("serving web UI", "dir", webDir)
		fs := http.FileServer(http.Dir(webDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				http.ServeFile(w, r, filepath.Join(webDir, "index.html"))
				return
			}
			fs.ServeHTTP(w, r)
		})
	} else {
		slog.Info("web UI not available", "dir", webDir, "reason", "directory not found")
	}

	slog.Info("assistant configuration",
		"auth_enabled", cfg.AuthEnabled,
		"jwt_expiry_hours", cfg.JWTExpiryHours,
		"llm_provider", llmSvc.Provider(),
		"llm_model", llmSvc.Model(),
		"default_style", defaultStyle,
		"max_context_chars", cfg.MaxContextChars,
		"debug_enabled", cfg.DebugEnabled,
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Graceful shutdown
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-shutdownCtx.Done()
	slog.Info("shutting down server...")

	cancelCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(cancelCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
