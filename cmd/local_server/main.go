package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"debarment_service/internal/auth"
	"debarment_service/internal/browser"
	"debarment_service/internal/config"
	"debarment_service/internal/handler"
	"debarment_service/internal/logger"
	"debarment_service/internal/service"
	"debarment_service/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to yaml config")
	flag.Parse()

	cfg := config.MustLoadConfig(configPath)

	lgr := logger.Setup(cfg.Env)
	if cfg.Env != logger.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := storage.New(ctx, cfg.DB)
	if err != nil {
		lgr.Error("failed to init storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer st.Close()

	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), auth.TokenTTL)
	h := handler.NewHandler(
		service.NewCredentials(st, tokens, lgr),
		service.NewLookup(browser.NewChromeLauncher(cfg.Browser, lgr), tokens, lgr),
		lgr,
	)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      h.InitRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		lgr.Info("starting local server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lgr.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lgr.Error("failed to shutdown server", slog.Any("error", err))
		return
	}

	lgr.Info("server stopped")
}
