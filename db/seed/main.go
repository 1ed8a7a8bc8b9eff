// Command seed creates the schema and inserts sample queued messages for local runs.
package main

import (
	"github.com/joho/godotenv"

	"github.com/onurcolak/message-dispatcher/environments"
	"github.com/onurcolak/message-dispatcher/pkg/database"
	"github.com/onurcolak/message-dispatcher/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	cfg := environments.Load()
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	if envErr != nil {
		logger.Debugf("No .env file loaded: %v", envErr)
	}

	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Warnf("Failed to close database: %v", err)
		}
	}()

	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.SeedTestData(db); err != nil {
		logger.Fatalf("Failed to seed test data: %v", err)
	}

	logger.Infof("Seed completed successfully")
}
