package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"finspeak/internal/models"
	"finspeak/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dbPath := fs.String("db", "finspeak.db", "Path to database file")
	count := fs.Int("count", 20, "Number of sample expenses to create")
	days := fs.Int("days", 30, "Spread expenses over this many past days")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *count <= 0 {
		return fmt.Errorf("count must be positive, got %d", *count)
	}
	if *days <= 0 {
		return fmt.Errorf("days must be positive, got %d", *days)
	}

	// Allow overriding db path via env var if not explicitly set via flag
	if path := os.Getenv("DB_PATH"); path != "" && *dbPath == "finspeak.db" {
		*dbPath = path
	}

	store, err := storage.NewStore(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	categories := models.Categories()
	now := time.Now()

	for i := 0; i < *count; i++ {
		amount := float64(rand.IntN(19000)+100) / 100 // 1.00 to 190.99
		e, err := models.NewExpense(amount, categories[rand.IntN(len(categories))])
		if err != nil {
			return fmt.Errorf("failed to build expense: %w", err)
		}
		e.Date = now.AddDate(0, 0, -rand.IntN(*days))
		if err := store.AddExpense(e); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
	}

	fmt.Fprintf(stdout, "Seeded %d expenses into %s\n", *count, *dbPath)
	return nil
}
