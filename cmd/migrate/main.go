package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/m04kA/Sauna-BookingService/internal/config"
	"github.com/m04kA/Sauna-BookingService/internal/infra/migration"
	"github.com/m04kA/Sauna-BookingService/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.toml", "путь к файлу конфигурации")
	direction := flag.String("direction", "up", "up | down | version | force")
	steps := flag.Int("steps", 0, "количество шагов для down, 0 - все")
	forceVersion := flag.Int("version", -1, "версия для force")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	m, err := migration.New(db, cfg.Database.MigrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrations: %v", err)
	}
	defer m.Close()

	switch *direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down(*steps)
	case "force":
		if *forceVersion < 0 {
			log.Fatal("force requires -version")
		}
		err = m.Force(*forceVersion)
	case "version":
		version, dirty, vErr := m.Version()
		if vErr == nil {
			log.Info("Schema version=%d, dirty=%t", version, dirty)
		}
		err = vErr
	default:
		log.Fatal("Unknown direction %q", *direction)
	}
	if err != nil {
		log.Fatal("Migration failed: %v", err)
	}
}
