package userstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/eventra/eventra/internal/app/system/normalize"
	"github.com/eventra/eventra/internal/app/system/paging"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/eventra/eventra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = apperr.New(apperr.KindNotFound, "user not found")
	// ErrDuplicate is returned when the username or email is already taken.
	ErrDuplicate = apperr.New(apperr.KindConflict, "username or email already in use")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up a user by exact username.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username": normalize.Username(username)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByVerificationToken loads the user holding the given single-use token.
func (s *Store) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"verification_token": token}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing identity fields. The caller
// supplies PasswordHash already hashed.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Username = normalize.Username(u.Username)
	u.Email = normalize.Email(u.Email)
	u.Name = normalize.Name(u.Name)
	u.RegisteredAt = time.Now()

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, err
	}
	return u, nil
}

// ListByRole returns all users holding the given role.
func (s *Store) ListByRole(ctx context.Context, role models.Role, pg paging.Page) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"role": role},
		pg.Apply(options.Find().SetSort(bson.D{{Key: "username", Value: 1}})))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProfileUpdate holds the self-service editable fields. Nil fields are left
// untouched.
type ProfileUpdate struct {
	Username          *string
	Name              *string
	Gender            *string
	PictureURL        *string
	NotificationPrefs *string
}

// UpdateProfile applies a partial profile update to the given user. A
// username change that collides with another account returns ErrDuplicate.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	set := bson.M{}
	if upd.Username != nil {
		set["username"] = normalize.Username(*upd.Username)
	}
	if upd.Name != nil {
		set["name"] = normalize.Name(*upd.Name)
	}
	if upd.Gender != nil {
		set["gender"] = *upd.Gender
	}
	if upd.PictureURL != nil {
		set["picture_url"] = *upd.PictureURL
	}
	if upd.NotificationPrefs != nil {
		set["notification_prefs"] = *upd.NotificationPrefs
	}
	if len(set) == 0 {
		return nil
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkVerified flips Verified and clears the single-use token. The token is
// part of the filter so a stale link cannot re-verify after rotation.
func (s *Store) MarkVerified(ctx context.Context, token string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"verification_token": token},
		bson.M{
			"$set":   bson.M{"verified": true},
			"$unset": bson.M{"verification_token": ""},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUnverifiedBefore removes accounts still holding a verification token
// that registered before the cutoff. Google sign-in accounts are verified on
// creation and never match.
func (s *Store) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"verified":           false,
		"verification_token": bson.M{"$exists": true},
		"registered_at":      bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Delete removes the user document.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
