package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/config"
	"github.com/konekt/konekt-api/internal/pkg/database"
	"github.com/konekt/konekt-api/internal/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		fmt.Println("Usage: migrate [command]")
		fmt.Println("Commands: up, down, status, redo")
		os.Exit(1)
	}

	command := args[0]

	log.Info().Str("command", command).Msg("Running migrations")

	if err := database.RunMigrations(context.Background(), cfg.DatabaseURL, command); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	log.Info().Msg("Migrations finished")
}
