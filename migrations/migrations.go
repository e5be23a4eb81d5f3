package migrations

import (
	"context"
	"os"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureOperationIndexes creates the indexes the operation log queries rely
// on. Index creation is idempotent, so it runs on every startup.
//
// SCRIBA_OPERATIONS_TTL_DAYS additionally enables automatic expiry of audit
// records older than that many days.
func EnsureOperationIndexes(client *mongo.Client) error {
	collection := client.Database(os.Getenv("SCRIBA_MONGODB_NAME")).Collection("operations")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "documentId", Value: 1}, {Key: "time", Value: -1}},
		},
	}

	if days, err := strconv.Atoi(os.Getenv("SCRIBA_OPERATIONS_TTL_DAYS")); err == nil && days > 0 {
		ttl := int32((time.Duration(days) * 24 * time.Hour).Seconds())
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: "time", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(ttl),
		})
	}

	_, err := collection.Indexes().CreateMany(ctx, models)
	return err
}
