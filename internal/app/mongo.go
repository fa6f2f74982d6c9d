package app

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/taskboard/internal/config"
	taskmongo "github.com/adanyl0v/taskboard/internal/storage/mongo"
)

var globalMongoClient *mongo.Client

func mustConnectMongo(cfg config.MongoConfig) *taskmongo.DB {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	var err error
	globalMongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to mongo")
		panic(err)
	}

	err = globalMongoClient.Ping(ctx, nil)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping mongo")
		panic(err)
	}
	globalLogger.Info().
		Str("database", cfg.Database).
		Msg("connected to mongo")

	return taskmongo.New(globalMongoClient.Database(cfg.Database))
}

func disconnectMongo() {
	ctx, cancel := context.WithTimeout(context.Background(), config.Global().Mongo.ConnectTimeout)
	defer cancel()

	err := globalMongoClient.Disconnect(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to disconnect from mongo")
		return
	}
	globalLogger.Info().Msg("disconnected from mongo")
}
