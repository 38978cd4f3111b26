package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ai-fitness-planner/internal/app"
	"ai-fitness-planner/internal/config"
	"ai-fitness-planner/internal/telegram"
)

func main() {
	_ = godotenv.Load()
	log := app.NewLogger()

	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable not set")
	}

	ctx := context.Background()

	// 2. Load reference data and wire the planner
	rt, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}
	defer rt.Close()

	// 3. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, rt.App, rt.Metrics, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize Telegram bot")
	}

	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)

	// 4. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    cfg.ListenAddr + ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		log.Infof("Telegram bot server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	log.Info("server exiting")
}
