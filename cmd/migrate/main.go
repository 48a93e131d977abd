package main

import (
	"log"

	"pomflow/internal/config"
	"pomflow/internal/db"
)

func main() {
	cfg := config.Load()
	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	migrations, err := db.Migrations(cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("load migrations: %v", err)
	}
	if err := db.RunMigrations(database, migrations); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	applied, err := db.AppliedMigrations(database)
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}
	for _, name := range applied {
		log.Printf("applied %s", name)
	}
	log.Println("migrations applied successfully")
}
