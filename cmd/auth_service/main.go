package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"

	"debarment_service/internal/auth"
	"debarment_service/internal/config"
	"debarment_service/internal/handler"
	"debarment_service/internal/logger"
	"debarment_service/internal/service"
	"debarment_service/internal/storage"
)

func main() {
	// PARSE ARGS
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to yaml config, env only when empty")
	flag.Parse()

	cfg := config.MustLoadConfig(configPath)

	// INIT LOGGER
	lgr := logger.Setup(cfg.Env)
	lgr.Info("starting auth service", slog.String("env", cfg.Env), slog.String("db_driver", cfg.DB.Driver))

	// INIT DB
	st, err := storage.New(context.Background(), cfg.DB)
	if err != nil {
		lgr.Error("failed to init storage", slog.Any("error", err))
		panic(err)
	}
	defer st.Close()

	// INIT HANDLER
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), auth.TokenTTL)
	creds := service.NewCredentials(st, tokens, lgr)
	h := handler.NewHandler(creds, nil, lgr)

	lambda.Start(h.Credentials)
}
