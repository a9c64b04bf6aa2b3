// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account: base users, organizers, and
// administrators.
//
// NOTE:
//   - Username and Email carry unique indexes (see system/indexes).
//   - PasswordHash is a bcrypt hash; it is never serialized to JSON.
//   - VerificationToken is single-use: cleared the first time the account
//     is verified.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username          string             `bson:"username" json:"username"`
	Email             string             `bson:"email" json:"email"`
	PasswordHash      string             `bson:"password_hash" json:"-"`
	Name              string             `bson:"name" json:"name"`
	Gender            string             `bson:"gender" json:"gender"`
	PictureURL        string             `bson:"picture_url" json:"picture_url"`
	NotificationPrefs string             `bson:"notification_prefs" json:"notification_prefs"`
	Role              Role               `bson:"role" json:"role"`
	Verified          bool               `bson:"verified" json:"verified"`
	VerificationToken string             `bson:"verification_token,omitempty" json:"-"`

	RegisteredAt time.Time `bson:"registered_at" json:"registered_at"`
}
