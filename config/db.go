package config

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectDB connects to MongoDB and returns the client and database handles.
// Handles are passed explicitly into the store so tests can substitute an
// in-memory implementation.
func ConnectDB(ctx context.Context) (*mongo.Client, *mongo.Database) {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal().Msg("Please define the MONGODB_URI environment variable")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB client")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "fixmycity"
	}

	log.Info().Str("database", dbName).Msg("Connected to MongoDB")
	return client, client.Database(dbName)
}
