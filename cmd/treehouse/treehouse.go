// Command treehouse runs the treehouse door: it asks visitors for their name,
// greets the ones on the list and signs everyone else up on probation.
//
// Optional environment (also read from a .env file):
//
//	TREEHOUSE_DB_DSN:    SQLite DSN for the visitor list, in-memory by default
//	TREEHOUSE_SKIP_SEED: "true" starts with an empty visitor list
package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abelzeko/treehouse/internal/api"
	"github.com/abelzeko/treehouse/internal/repository"
	"github.com/abelzeko/treehouse/internal/usecases"
	"github.com/joho/godotenv"
)

type config struct {
	DSN      string
	SkipSeed bool
}

func loadConfig(getenv func(string) string) config {
	return config{
		DSN:      getenv("TREEHOUSE_DB_DSN"),
		SkipSeed: getenv("TREEHOUSE_SKIP_SEED") == "true",
	}
}

func main() {
	// Configure logging; stdout belongs to the visitor dialogue
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting Treehouse...")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, loadConfig(os.Getenv), os.Stdin, os.Stdout); err != nil {
		log.Fatalf("Treehouse stopped: %v", err)
	}
}

func run(ctx context.Context, cfg config, in io.Reader, out io.Writer) error {
	// Initialize repository
	repo, err := repository.NewSQLiteVisitorRepository(cfg.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("Failed to close visitor list: %v", err)
		}
	}()

	useCase := usecases.NewTreehouseUseCase(repo)

	if !cfg.SkipSeed {
		if err := useCase.SeedDefaultVisitors(ctx); err != nil {
			return err
		}
	}

	return api.NewConsole(in, out, useCase).Run(ctx)
}
