package repository

import (
	"context"

	"github.com/scribahq/scriba/entity"

	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OperationRepository struct {
	mongoClient *mongo.Client
}

func NewOperationRepository(mongoClient *mongo.Client) *OperationRepository {
	return &OperationRepository{
		mongoClient: mongoClient,
	}
}

func (r *OperationRepository) FindOneByID(ID primitive.ObjectID) (*entity.Operation, error) {
	collection := r.mongoClient.Database(os.Getenv("SCRIBA_MONGODB_NAME")).Collection("operations")

	result := collection.FindOne(context.TODO(), bson.M{"_id": ID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var operation *entity.Operation
	err := result.Decode(&operation)
	return operation, err
}

func (r *OperationRepository) LogOperation(operation entity.Operation) (*entity.Operation, error) {
	if operation.ID.IsZero() {
		operation.ID = primitive.NewObjectID()
	}

	collection := r.mongoClient.Database(os.Getenv("SCRIBA_MONGODB_NAME")).Collection("operations")

	filter := bson.M{
		"_id": operation.ID,
	}

	update := bson.M{
		"$set": operation,
	}

	after := options.After
	upsert := true
	opts := options.FindOneAndUpdateOptions{
		ReturnDocument: &after,
		Upsert:         &upsert,
	}

	result := collection.FindOneAndUpdate(context.TODO(), filter, update, &opts)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var newOperation *entity.Operation
	err := result.Decode(&newOperation)
	return newOperation, err
}

// ListRecentByDocumentID returns the newest operations recorded for a
// document, newest first.
func (r *OperationRepository) ListRecentByDocumentID(documentID string, limit int64) ([]*entity.Operation, error) {
	if limit <= 0 {
		limit = 20
	}

	collection := r.mongoClient.Database(os.Getenv("SCRIBA_MONGODB_NAME")).Collection("operations")

	pipeline := bson.A{
		bson.M{"$match": bson.M{"documentId": documentID}},
		bson.M{"$sort": bson.M{"time": -1}},
		bson.M{"$limit": limit},
	}

	cur, err := collection.Aggregate(context.TODO(), pipeline)
	if err != nil {
		return nil, err
	}

	var operations []*entity.Operation
	err = cur.All(context.TODO(), &operations)
	if err != nil {
		return nil, err
	}

	return operations, nil
}

func (r *OperationRepository) DeleteManyByDocumentID(documentID string) error {
	collection := r.mongoClient.Database(os.Getenv("SCRIBA_MONGODB_NAME")).Collection("operations")

	_, err := collection.DeleteMany(context.TODO(), bson.M{"documentId": documentID})
	return err
}
