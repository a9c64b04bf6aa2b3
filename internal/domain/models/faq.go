// internal/domain/models/faq.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FAQ is a question asked on an event. Answer is nil until the event's
// organizer answers; only the asking user may delete the question.
type FAQ struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	AuthorID  primitive.ObjectID `bson:"author_id" json:"author_id"`
	Question  string             `bson:"question" json:"question"`
	Answer    *string            `bson:"answer,omitempty" json:"answer"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
