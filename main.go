// apps/go-server/main.go
//
// Entry point for the numbers server.
// Loads .env, opens SQLite and applies the embedded migrations, starts the
// solver worker pool and serves the HTTP API.

package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wingo/apps/go-server/assets"
	"github.com/robalobadob/wingo/apps/go-server/internal/database"
	"github.com/robalobadob/wingo/apps/go-server/internal/httpserver"
	"github.com/robalobadob/wingo/apps/go-server/internal/store"
	"github.com/robalobadob/wingo/apps/go-server/internal/worker"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := database.Open(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	workers, _ := strconv.Atoi(getEnv("SOLVER_WORKERS", "0"))
	pool := worker.New(workers)
	defer pool.Close()

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db, pool)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Int("workers", pool.Stats().Workers).Msg("starting go-server")
	if err := srv.Start(":" + port); err != nil {
		log.Error().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
