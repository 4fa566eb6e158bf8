package main

import (
	"os"

	"github.com/joho/godotenv"
)

// loadEnvFiles matches the api binary: one optional .env.local for local
// overrides, never clobbering environment provided by the runtime.
func loadEnvFiles() {
	_ = godotenv.Load(".env.local")
}

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}
