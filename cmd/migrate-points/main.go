// Command migrate-points backfills progression and reward points for heroes
// created before the dual-point schema. Running it again is a no-op.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/multierr"

	"github.com/dukerupert/questboard/internal/config"
	"github.com/dukerupert/questboard/internal/database"
	"github.com/dukerupert/questboard/internal/logging"
	"github.com/dukerupert/questboard/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	dbPath := flag.String("db", cfg.DBPath, "path to the SQLite database")
	flag.Parse()

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(*dbPath)
	if err != nil {
		logger.Error("failed to open database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	report, err := store.NewHeroStore(db, logger.With("component", "store")).MigrateToDualPointSystem()
	fmt.Printf("migrated %d heroes, %d failed\n", report.Migrated, len(report.Failed))
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, e)
		}
		db.Close()
		os.Exit(1)
	}
}
