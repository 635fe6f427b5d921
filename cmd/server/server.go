package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"layerlabs.io/support-chat/internal/api"
	"layerlabs.io/support-chat/internal/catalog"
	"layerlabs.io/support-chat/internal/config"
	"layerlabs.io/support-chat/internal/core"
	"layerlabs.io/support-chat/internal/intent"
	"layerlabs.io/support-chat/internal/logging"
	"layerlabs.io/support-chat/internal/store"
)

const shutdownTimeout = 30 * time.Second

func runServer(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llmService, err := core.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		return err
	}
	defer llmService.Close()

	cat := catalog.NewClient(catalog.Options{
		StoreURL:    cfg.ShopifyStore,
		AccessToken: cfg.ShopifyAccessToken,
		APIVersion:  cfg.ShopifyAPIVersion,
		SearchMode:  cfg.CatalogSearchMode,
	}, logger)

	var classifier *intent.Classifier
	if cfg.ClassifierMode == config.ClassifierRules {
		classifier = intent.NewClassifier(nil, logger)
	} else {
		classifier = intent.NewClassifier(llmService, logger)
	}

	composer := core.NewComposer(cat, llmService, core.ComposerOptions{
		ProductReplyMode: cfg.ProductReplyMode,
		StoreURL:         cfg.ShopifyStore,
	}, logger)
	chatService := core.NewChatService(classifier, composer, logger)

	var recorder api.InteractionRecorder
	if cfg.ChatLogDB != "" {
		dbStore, err := store.NewSQLiteStore(cfg.ChatLogDB)
		if err != nil {
			return fmt.Errorf("opening chat log: %w", err)
		}
		defer dbStore.Close()
		recorder = dbStore
		logger.Info("recording interactions", zap.String("db", cfg.ChatLogDB))
	}

	apiHandler := api.NewAPIHandler(chatService, recorder, logger)
	router := api.NewRouter(apiHandler, logger)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", serverAddr, err)
	}

	logger.Info("starting server",
		zap.String("addr", serverAddr),
		zap.String("store", cfg.ShopifyStore),
		zap.String("classifier", cfg.ClassifierMode),
		zap.String("search", cfg.CatalogSearchMode),
		zap.String("product_reply", cfg.ProductReplyMode),
	)
	return serve(ctx, newHTTPServer(ctx, router), ln, logger)
}

// newHTTPServer builds the server. Request contexts keep ctx's values but are
// not cancelled with it; Shutdown drains in-flight requests instead.
func newHTTPServer(ctx context.Context, handler http.Handler) *http.Server {
	base := context.WithoutCancel(ctx)
	return &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // catalog and generation budgets run back to back
		IdleTimeout:  120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return base
		},
	}
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited gracefully")
	return nil
}
