package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"posts-api/internal/config"
	"posts-api/internal/database"
)

func main() {
	var (
		dbPath  = flag.String("db", config.GetEnv("DB_CONNECTION_STRING", config.DefaultDatabasePath), "SQLite database file path")
		action  = flag.String("action", "up", "Migration action: up, down, status, validate")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	dbConfig := &config.DatabaseConfig{
		ConnectionString: *dbPath,
		MaxOpenConns:     1,
		MaxIdleConns:     1,
	}
	if dbConfig.IsPostgresDSN() {
		logger.Fatal("The migrate tool manages the SQLite schema only; the Postgres store creates its table on startup")
	}

	logger.WithFields(logrus.Fields{
		"db_path": *dbPath,
		"action":  *action,
	}).Info("Starting migration tool")

	ctx := context.Background()
	cm := database.NewConnectionManager(dbConfig, logger)
	if err := cm.Connect(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	if err := cm.HealthCheck(ctx); err != nil {
		cm.Close()
		logger.WithError(err).Fatal("Database health check failed")
	}

	err := run(cm.GetMigrationManager(), *action)
	cm.Close()
	if err != nil {
		logger.WithError(err).WithField("action", *action).Error("Migration failed")
		os.Exit(1)
	}

	logger.Info("Migration tool completed successfully")
}

func run(mm *database.MigrationManager, action string) error {
	switch action {
	case "up":
		return mm.RunMigrations()
	case "down":
		return mm.RollbackMigration()
	case "status":
		status, err := mm.GetMigrationStatus()
		if err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}
		fmt.Printf("Migration Status:\n")
		fmt.Printf("  Version: %d\n", status.Version)
		fmt.Printf("  Applied: %t\n", status.Applied)
		fmt.Printf("  Dirty: %t\n", status.Dirty)
		return nil
	case "validate":
		if err := mm.ValidateSchema(); err != nil {
			return fmt.Errorf("schema validation failed: %w", err)
		}
		fmt.Println("Schema validation passed successfully")
		return nil
	default:
		return fmt.Errorf("unknown action %q, use: up, down, status, validate", action)
	}
}
