package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/harperchat/backend/internal/config"
	"github.com/harperchat/backend/internal/handler"
	"github.com/harperchat/backend/internal/model/persona"
	"github.com/harperchat/backend/internal/service/ai"
	"github.com/harperchat/backend/internal/service/memory"
	"github.com/harperchat/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Persona misconfiguration must keep the process from serving traffic.
	p := persona.Seed()
	if err := p.Validate(); err != nil {
		log.Fatalf("invalid persona configuration: %v", err)
	}

	store, err := storage.OpenSqlite(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("failed to open chat database: %v", err)
	}
	defer store.Close()
	log.Printf("chat database ready at %s", cfg.Storage.Path)

	memSvc := memory.NewService(store)

	if !cfg.AI.Enabled() {
		log.Fatal("GEMINI_API_KEY is not set in the environment")
	}

	opener, err := ai.NewGeminiOpener(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize Gemini client: %v", err)
	}

	aiSvc, err := ai.NewService(opener, memSvc, p, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}
	log.Printf("AI service initialized with persona %s", p.Name)

	router := handler.NewRouter(store, memSvc, aiSvc, p)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Harper chat backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
