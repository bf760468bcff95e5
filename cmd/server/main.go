package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2/log"

	"github.com/katakuxiko/paperrelay/internal/api"
	"github.com/katakuxiko/paperrelay/internal/config"
	"github.com/katakuxiko/paperrelay/internal/service"
)

func main() {
	// config
	cfg := config.Load()
	log.SetLevel(parseLevel(cfg.LogLevel))

	if cfg.APIKey == "" {
		log.Warn("ARK_API_KEY is not set; upstream calls will be rejected")
	}

	extra, err := config.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		log.Fatal(err)
	}

	// services
	llm := service.NewLLMClient(cfg)
	relay := service.NewRelayService(llm, service.NewPrompts(cfg, extra))

	// api
	app := api.NewApp(relay, cfg.MaxUploadMB)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorw("shutdown failed", "error", err)
		}
	}()

	log.Infow("server started", "addr", cfg.ServerAddr, "upstream", cfg.BaseURL, "extra_variants", len(extra))
	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Fatal(err)
	}
}

func parseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
