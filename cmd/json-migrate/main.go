package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"posts-api/internal/config"
	"posts-api/internal/database"
	"posts-api/internal/migration"
)

func main() {
	var (
		file    = flag.String("file", "./data/posts.json", "JSON dump path")
		action  = flag.String("action", "import", "Action: check, import, verify, export")
		dryRun  = flag.Bool("dry-run", false, "Validate records without writing them")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := config.NewLogger(cfg.Log)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.WithFields(logrus.Fields{
		"file":    *file,
		"action":  *action,
		"store":   cfg.Store.Type,
		"dry_run": *dryRun,
	}).Info("Starting JSON migration tool")

	if err := run(context.Background(), cfg, logger, *action, *file, *dryRun); err != nil {
		logger.WithError(err).Error("JSON migration failed")
		os.Exit(1)
	}

	logger.Info("JSON migration tool completed successfully")
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger, action, file string, dryRun bool) error {
	if action == "check" {
		posts, err := migration.LoadFile(file)
		if err != nil {
			return err
		}
		fmt.Printf("Found %d records in %s\n", len(posts), file)
		return nil
	}

	repo, err := database.NewPostRepository(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open post store: %w", err)
	}
	defer repo.Close()

	importer := migration.NewJSONImporter(repo, cfg.Posts.DefaultUserID, logger)

	switch action {
	case "import":
		posts, err := migration.LoadFile(file)
		if err != nil {
			return err
		}
		result, err := importer.Import(ctx, posts, dryRun)
		if err != nil {
			return err
		}
		printResult(result)
		if len(result.Errors) > 0 {
			return fmt.Errorf("import completed with %d errors", len(result.Errors))
		}
		if dryRun {
			return nil
		}
		return importer.Verify(ctx, posts)
	case "verify":
		posts, err := migration.LoadFile(file)
		if err != nil {
			return err
		}
		return importer.Verify(ctx, posts)
	case "export":
		out, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", file, err)
		}
		defer out.Close()

		n, err := importer.Export(ctx, out)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d posts to %s\n", n, file)
		return nil
	default:
		return fmt.Errorf("unknown action %q, use: check, import, verify, export", action)
	}
}

func printResult(result *migration.ImportResult) {
	fmt.Printf("\n=== Import Results ===\n")
	fmt.Printf("Processed: %d\n", result.Processed)
	fmt.Printf("Imported: %d\n", result.Imported)
	fmt.Printf("Skipped: %d\n", result.Skipped)

	if len(result.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(result.Warnings))
		for _, warning := range result.Warnings {
			fmt.Printf("  ⚠ %s\n", warning)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(result.Errors))
		for _, errMsg := range result.Errors {
			fmt.Printf("  ✗ %s\n", errMsg)
		}
	}
}
