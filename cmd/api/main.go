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

	"github.com/zhouzirui/sleep-trainer/backend/internal/config"
	"github.com/zhouzirui/sleep-trainer/backend/internal/handler"
	"github.com/zhouzirui/sleep-trainer/backend/internal/handler/message"
	"github.com/zhouzirui/sleep-trainer/backend/internal/model/prompt"
	"github.com/zhouzirui/sleep-trainer/backend/internal/service/ai"
	"github.com/zhouzirui/sleep-trainer/backend/internal/service/session"
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

	prompts, err := prompt.LoadFile(cfg.AI.PromptsFile)
	if err != nil {
		log.Fatalf("failed to load prompts: %v", err)
	}

	// Both stay nil when the provider is not configured; the message endpoint
	// then reports 503 and sessions fall back to static messages.
	var generator message.Generator
	var sessionGenerator session.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI, prompts)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality")
		} else {
			generator = aiService
			sessionGenerator = aiService
			log.Printf("AI service initialized (provider=%s, model=%s)", cfg.AI.Provider, cfg.AI.Model)
		}
	} else {
		log.Printf("%s credentials not configured, message endpoint will report unavailable", cfg.AI.Provider)
	}

	sessions := session.NewService(sessionGenerator, prompts, session.Config{
		TTL:             cfg.Session.TTL,
		TriggerInterval: cfg.Session.TriggerInterval,
		GenerateTimeout: cfg.AI.Timeout,
	})
	go sessions.Run(ctx)

	router := handler.NewRouter(generator, sessions, cfg.Server.AllowedOrigins)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Sleep trainer backend listening on %s", addr)
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
