package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operation is one audit record for a mutating batch sent to the document
// service.
type Operation struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	DocumentID string `bson:"documentId,omitempty" json:"documentId"`

	Kind     string `bson:"kind,omitempty" json:"kind"`
	Requests int    `bson:"requests" json:"requests"`
	Replies  int    `bson:"replies" json:"replies"`

	Time time.Time `bson:"time,omitempty" json:"time"`
}
