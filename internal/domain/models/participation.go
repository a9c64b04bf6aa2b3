// internal/domain/models/participation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participation records a user's registration to an event or party. The
// parent collection ("event_participations" or "party_participations")
// determines the parent type; a unique index on (user_id, parent_id)
// guarantees at most one record per pair.
type Participation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ParentID  primitive.ObjectID `bson:"parent_id" json:"parent_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
