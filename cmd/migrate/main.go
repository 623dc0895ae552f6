package main

import (
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"gabconcours_backend/internals/configs"
	database "gabconcours_backend/internals/databases"
	"gabconcours_backend/internals/logger"
)

func main() {
	configs.LoadEnv()
	logger.Init(configs.GetEnv("LOG_LEVEL", "info"), "console")

	db, err := database.ConnectDB()
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		color.Red("migration failed: %v", err)
		log.Fatal().Err(err).Msg("migration failed")
	}
	color.Green("%d tables migrated", len(database.Models()))
}
