// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a geolocated user post.
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Description string             `bson:"description" json:"description"`
	Body        string             `bson:"body" json:"body"`
	Location    string             `bson:"location" json:"location"`
	Position    Position           `bson:"position" json:"position"`
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
