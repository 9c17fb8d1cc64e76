package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"citybot/bot"
	"citybot/core/config"
	"citybot/core/database"
	"citybot/core/logger"
	coretelegram "citybot/core/telegram"
	"citybot/core/telegram/state"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	if err := logger.InitLogger(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	sessions, err := buildSessions(cfg)
	if err != nil {
		return err
	}

	app := bot.New(cfg, sessions)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return coretelegram.RunTelegram(ctx, app.RunOptions())
}

func buildSessions(cfg *config.Config) (state.Manager, error) {
	if cfg.Sessions.Backend != config.SessionsPostgres {
		return state.NewMemoryManager(), nil
	}

	dbCfg, err := database.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(dbCfg); err != nil {
		return nil, err
	}
	db, err := database.Connect(dbCfg)
	if err != nil {
		return nil, err
	}
	return state.NewPostgresManager(db), nil
}
