package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureSessionIndexes lets MongoDB reap sessions once expiresAt passes.
func EnsureSessionIndexes(db *mongo.Database, collection string, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(collection).Indexes()

	expiryIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().
			SetName("expiresAt_ttl").
			SetExpireAfterSeconds(0),
	}

	log.Info("EnsureSessionIndexes: creating expiresAt_ttl index", zap.String("collection", collection))
	_, err := indexes.CreateOne(ctx, expiryIndex)
	if err != nil {
		log.Error("EnsureSessionIndexes: expiresAt index error", zap.Error(err))
		return err
	}
	log.Info("EnsureSessionIndexes: expiresAt_ttl index created")
	return nil
}
