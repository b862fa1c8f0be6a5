package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"lecture-backend/internal/config"
	"lecture-backend/pkg/container"
)

// newHTTPServer: WriteTimeout cũng giới hạn thời gian một SSE stream lectures
func newHTTPServer(cfg config.AppConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Port),
		Handler:        handler,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    2 * cfg.ReadTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func Serve() {
	appContainer, err := container.NewContainer()
	if err != nil {
		log.Fatalf("❌ Failed to initialize container: %v", err)
	}
	defer appContainer.Cleanup()

	cfg := appContainer.Config.App
	srv := newHTTPServer(cfg, SetupRouter(appContainer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 %s %s listening on :%s (%s)", cfg.Name, cfg.Version, cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("❌ Server stopped: %v", err)
			return
		}
	case <-ctx.Done():
	}

	log.Printf("🛑 Shutting down (waiting max %s)...", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// SSE streams nằm trên request context, Shutdown không tự hủy chúng
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
		_ = srv.Close()
	}

	log.Println("✅ Server exited gracefully")
}
