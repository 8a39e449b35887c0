package main

import (
	"flag"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"

	"debarment_service/internal/auth"
	"debarment_service/internal/browser"
	"debarment_service/internal/config"
	"debarment_service/internal/handler"
	"debarment_service/internal/logger"
	"debarment_service/internal/service"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to yaml config, env only when empty")
	flag.Parse()

	cfg := config.MustLoadConfig(configPath)

	lgr := logger.Setup(cfg.Env)
	lgr.Info("starting debarment service", slog.String("env", cfg.Env), slog.String("chrome", cfg.Browser.ChromePath))

	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), auth.TokenTTL)
	launcher := browser.NewChromeLauncher(cfg.Browser, lgr)
	lookup := service.NewLookup(launcher, tokens, lgr)

	h := handler.NewHandler(nil, lookup, lgr)

	lambda.Start(h.Lookup)
}
