package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/itinerary-planner/internal/config"
	"github.com/Rrens/itinerary-planner/internal/logging"
	"github.com/Rrens/itinerary-planner/internal/repository/postgres"
)

const usage = `usage: migrate [-steps N] <up|down|version>

SQLite databases apply their schema on open and need no migrations.`

func main() {
	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal().Str("driver", cfg.Database.Driver).Msg("Migrations only apply to postgres")
	}

	dsn := cfg.Database.DSN()
	source := cfg.Database.MigrationsSource()

	switch flag.Arg(0) {
	case "up":
		err = postgres.RunMigrations(dsn, source)
	case "down":
		err = postgres.RollbackMigrations(dsn, source, *steps)
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = postgres.MigrationVersion(dsn, source)
		if err == nil {
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current migration version")
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", flag.Arg(0)).Msg("Migration failed")
	}
}
