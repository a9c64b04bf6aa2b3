// Package participationstore registers users to events and parties while
// holding the capacity invariant under concurrency.
//
// Registration never trusts a read-then-write check. The participant counter
// on the parent document is advanced with a conditional $inc whose filter
// requires participants < capacity, so two racing registrations for the last
// seat resolve server-side: exactly one matches, the other sees
// MatchedCount == 0. Duplicate registrations by the same user are closed by
// a unique (user_id, parent_id) index; if the insert loses that race the
// counter increment is rolled back.
package participationstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	gatheringstore "github.com/eventra/eventra/internal/app/store/gatherings"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/eventra/eventra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrAlreadyRegistered = apperr.New(apperr.KindConflict, "user already registered")
	ErrNotRegistered     = apperr.New(apperr.KindNotFound, "registration not found")
	ErrCapacityExceeded  = apperr.New(apperr.KindCapacity, "maximum number of participants reached")
)

// Store registers users against one parent collection. Construct it once
// for events and once for parties.
type Store struct {
	participations *mongo.Collection
	parents        *gatheringstore.Store
}

// NewEvents binds registrations to the events collection.
func NewEvents(db *mongo.Database) *Store {
	return &Store{
		participations: db.Collection("event_participations"),
		parents:        gatheringstore.NewEvents(db),
	}
}

// NewParties binds registrations to the parties collection.
func NewParties(db *mongo.Database) *Store {
	return &Store{
		participations: db.Collection("party_participations"),
		parents:        gatheringstore.NewParties(db),
	}
}

// Register adds userID to the parent's participant set.
//
// Outcome precedence when several conditions hold at once: a missing parent
// wins over everything, an existing registration wins over a full parent.
func (s *Store) Register(ctx context.Context, userID, parentID primitive.ObjectID) (models.Participation, error) {
	if _, err := s.parents.GetByID(ctx, parentID); err != nil {
		return models.Participation{}, err
	}

	// Point lookup so "already registered" is reported even when the
	// parent is also full.
	n, err := s.participations.CountDocuments(ctx, bson.M{"user_id": userID, "parent_id": parentID})
	if err != nil {
		return models.Participation{}, err
	}
	if n > 0 {
		return models.Participation{}, ErrAlreadyRegistered
	}

	// Claim a seat. The $expr filter makes the capacity check and the
	// increment one atomic document update.
	res, err := s.parents.Collection().UpdateOne(ctx,
		bson.M{
			"_id":   parentID,
			"$expr": bson.M{"$lt": bson.A{"$participants", "$capacity"}},
		},
		bson.M{"$inc": bson.M{"participants": 1}})
	if err != nil {
		return models.Participation{}, err
	}
	if res.MatchedCount == 0 {
		// Full, or deleted since the existence check.
		if _, gerr := s.parents.GetByID(ctx, parentID); gerr != nil {
			return models.Participation{}, gerr
		}
		return models.Participation{}, ErrCapacityExceeded
	}

	p := models.Participation{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}
	if _, err := s.participations.InsertOne(ctx, p); err != nil {
		// Give back the claimed seat before reporting.
		_, _ = s.parents.Collection().UpdateOne(ctx,
			bson.M{"_id": parentID},
			bson.M{"$inc": bson.M{"participants": -1}})
		if wafflemongo.IsDup(err) {
			return models.Participation{}, ErrAlreadyRegistered
		}
		return models.Participation{}, err
	}
	return p, nil
}

// Unregister removes userID's registration and releases the seat.
func (s *Store) Unregister(ctx context.Context, userID, parentID primitive.ObjectID) error {
	if _, err := s.parents.GetByID(ctx, parentID); err != nil {
		return err
	}

	res, err := s.participations.DeleteOne(ctx, bson.M{"user_id": userID, "parent_id": parentID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotRegistered
	}

	_, err = s.parents.Collection().UpdateOne(ctx,
		bson.M{"_id": parentID, "participants": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"participants": -1}})
	return err
}

// ListByParent returns the registrations on one parent, oldest first.
func (s *Store) ListByParent(ctx context.Context, parentID primitive.ObjectID) ([]models.Participation, error) {
	cur, err := s.participations.Find(ctx, bson.M{"parent_id": parentID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Participation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Parents exposes the bound parent store so feature handlers share one
// instance per collection.
func (s *Store) Parents() *gatheringstore.Store { return s.parents }

// DeleteByParent removes every registration on a parent. Used when the
// parent itself is deleted; the counter goes with the document.
func (s *Store) DeleteByParent(ctx context.Context, parentID primitive.ObjectID) error {
	_, err := s.participations.DeleteMany(ctx, bson.M{"parent_id": parentID})
	return err
}
