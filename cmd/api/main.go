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

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/maumlog/maum/backend/internal/config"
	"github.com/maumlog/maum/backend/internal/handler"
	emotionModel "github.com/maumlog/maum/backend/internal/model/emotion"
	"github.com/maumlog/maum/backend/internal/service/account"
	"github.com/maumlog/maum/backend/internal/service/ai"
	"github.com/maumlog/maum/backend/internal/service/auth"
	"github.com/maumlog/maum/backend/internal/service/chat"
	emotionService "github.com/maumlog/maum/backend/internal/service/emotion"
	"github.com/maumlog/maum/backend/internal/store/userdata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err := userdata.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("failed to open journal database: %v", err)
	}
	defer store.Close()

	authSvc, err := auth.NewService(cfg.Auth.CredentialsPath)
	if err != nil {
		log.Fatalf("failed to load credentials: %v", err)
	}

	catalog := emotionModel.NewCatalog(emotionModel.Seed())

	var aiSvc *ai.Service
	if cfg.AI.Enabled() {
		aiSvc, err = ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without generated replies; check the Ark environment variables")
		} else {
			log.Println("AI counselor service initialized")
		}
	} else {
		log.Println("Ark credentials not configured, replies will be unavailable")
	}

	var chatModel model.ChatModel
	if aiSvc != nil {
		chatModel = aiSvc.GetChatModel()
	}
	emotionSvc, err := emotionService.NewService(ctx, chatModel, catalog, emotionService.Config{
		Enabled: cfg.AI.EmotionLLMEnabled,
	})
	if err != nil {
		log.Printf("warning: failed to initialize emotion detection: %v", err)
		emotionSvc = nil
	} else if emotionSvc.Enabled() {
		log.Println("emotion classifier enabled")
	} else {
		log.Println("emotion classifier using keyword heuristics")
	}

	// nil interfaces must stay nil; a typed nil would defeat the engine's
	// availability checks
	var replier chat.Replier
	if aiSvc != nil {
		replier = aiSvc
	}
	var detector chat.Detector
	if emotionSvc != nil {
		detector = emotionSvc
	}

	accounts := account.NewManager(store, replier, detector, catalog, cfg.Autosave.Interval)
	defer accounts.Shutdown(context.Background())

	router := handler.NewRouter(authSvc, accounts, catalog)

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

	log.Printf("maum backend listening on %s", addr)
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
