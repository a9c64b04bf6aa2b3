// internal/domain/models/gathering.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Position is a WGS84 coordinate pair embedded on geolocated documents.
type Position struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Gathering is the shared document shape for the "events" and "parties"
// collections. The two are structurally identical and differ only in which
// role may create them; they are stored in separate collections and the
// store is instantiated once per collection.
//
// Participants is a counter maintained atomically by the participation
// store; it gates registrations against Capacity.
type Gathering struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	StartsAt    time.Time          `bson:"starts_at" json:"starts_at"`
	Location    string             `bson:"location" json:"location"`
	Position    Position           `bson:"position" json:"position"`
	Capacity    int                `bson:"capacity" json:"capacity"`
	PhotoURL    string             `bson:"photo_url" json:"photo_url"`
	OrganizerID primitive.ObjectID `bson:"organizer_id" json:"organizer_id"`
	CategoryID  primitive.ObjectID `bson:"category_id" json:"category_id"`

	Participants int       `bson:"participants" json:"participants"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
