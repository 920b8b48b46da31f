package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fixmycity-be/config"
	"fixmycity-be/routes"
	"fixmycity-be/services"
	"fixmycity-be/storage"
	"fixmycity-be/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}
	setupLogger()

	ctx := context.Background()

	client, db := config.ConnectDB(ctx)
	st := store.NewMongoStore(client, db)

	objects, err := storage.NewGCSStore(ctx, os.Getenv("STORAGE_BUCKET"), os.Getenv("GCS_CREDENTIALS_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	rdb := config.ConnectRedis(ctx)
	leaderboard := services.NewLeaderboard(rdb)

	r := gin.Default()
	r.Use(cors.Default())

	routes.Register(r, routes.Deps{
		Store:       st,
		Intake:      services.NewIntake(st, objects, leaderboard),
		Lifecycle:   services.NewLifecycle(st, objects, leaderboard),
		Bot:         services.NewBot(),
		Leaderboard: leaderboard,
		Redis:       rdb,
		SubmitLimit: submitLimit(),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func setupLogger() {
	if os.Getenv("APP_ENV") == "dev" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
		return
	}
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func submitLimit() int {
	if raw := os.Getenv("SUBMIT_RATE_LIMIT"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return 20
}
