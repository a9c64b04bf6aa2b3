// Package gatheringstore provides CRUD access to the "events" and "parties"
// collections. The two collections share one document shape, so one store
// type serves both; construct it once per collection.
package gatheringstore

import (
	"context"
	"time"

	"github.com/eventra/eventra/internal/app/system/geo"
	"github.com/eventra/eventra/internal/app/system/paging"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/eventra/eventra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrEventNotFound = apperr.New(apperr.KindNotFound, "event not found")
	ErrPartyNotFound = apperr.New(apperr.KindNotFound, "party not found")
)

type Store struct {
	c        *mongo.Collection
	notFound error
}

// NewEvents binds the store to the "events" collection.
func NewEvents(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events"), notFound: ErrEventNotFound}
}

// NewParties binds the store to the "parties" collection.
func NewParties(db *mongo.Database) *Store {
	return &Store{c: db.Collection("parties"), notFound: ErrPartyNotFound}
}

// Collection exposes the underlying collection name, used by the
// participation store to pair a parent collection with its counter.
func (s *Store) Collection() *mongo.Collection { return s.c }

// NotFoundErr is the classified error for a missing document in this
// collection.
func (s *Store) NotFoundErr() error { return s.notFound }

// GetByID loads one gathering.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Gathering, error) {
	var g models.Gathering
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, s.notFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns one page of gatherings, newest first.
func (s *Store) List(ctx context.Context, pg paging.Page) ([]models.Gathering, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		pg.Apply(options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Gathering
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByOrganizer returns the gatherings created by one organizer.
func (s *Store) ListByOrganizer(ctx context.Context, organizerID primitive.ObjectID) ([]models.Gathering, error) {
	cur, err := s.c.Find(ctx, bson.M{"organizer_id": organizerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Gathering
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCategory returns the gatherings labeled with one category.
func (s *Store) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Gathering, error) {
	cur, err := s.c.Find(ctx, bson.M{"category_id": categoryID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Gathering
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListNearby returns gatherings whose position lies within radiusKm of the
// given point. Filtering happens in process; documents carry plain lat/lng
// pairs rather than GeoJSON.
func (s *Store) ListNearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.Gathering, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var all []models.Gathering
	if err := cur.All(ctx, &all); err != nil {
		return nil, err
	}
	return geo.FilterWithin(all, func(g models.Gathering) models.Position {
		return g.Position
	}, lat, lng, radiusKm)
}

// ListByPosition returns gatherings at exactly the given coordinates.
func (s *Store) ListByPosition(ctx context.Context, lat, lng float64) ([]models.Gathering, error) {
	cur, err := s.c.Find(ctx, bson.M{"position.lat": lat, "position.lng": lng},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Gathering
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new gathering with a zeroed participant counter.
func (s *Store) Create(ctx context.Context, g models.Gathering) (models.Gathering, error) {
	g.ID = primitive.NewObjectID()
	g.Participants = 0
	g.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Gathering{}, err
	}
	return g, nil
}

// Update holds the organizer-editable fields.
type Update struct {
	Title       string
	Description string
	StartsAt    time.Time
	Location    string
	Position    models.Position
	Capacity    int
	PhotoURL    string
	CategoryID  primitive.ObjectID
}

// Apply updates one gathering. The participant counter is never touched here.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{
		"title":       upd.Title,
		"description": upd.Description,
		"starts_at":   upd.StartsAt,
		"location":    upd.Location,
		"position":    upd.Position,
		"capacity":    upd.Capacity,
		"photo_url":   upd.PhotoURL,
		"category_id": upd.CategoryID,
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.notFound
	}
	return nil
}

// Delete removes one gathering.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return s.notFound
	}
	return nil
}
