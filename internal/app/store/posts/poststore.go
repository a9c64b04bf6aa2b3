package poststore

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

// ErrNotFound is returned when no post matches the lookup.
var ErrNotFound = apperr.New(apperr.KindNotFound, "post not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// GetByID loads one post.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns one page of posts, newest first.
func (s *Store) List(ctx context.Context, pg paging.Page) ([]models.Post, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		pg.Apply(options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByAuthor returns one user's posts, newest first.
func (s *Store) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error) {
	cur, err := s.c.Find(ctx, bson.M{"author_id": authorID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListNearby returns posts whose position lies within radiusKm of the given
// point. Filtering happens in process.
func (s *Store) ListNearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.Post, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var all []models.Post
	if err := cur.All(ctx, &all); err != nil {
		return nil, err
	}
	return geo.FilterWithin(all, func(p models.Post) models.Position {
		return p.Position
	}, lat, lng, radiusKm)
}

// ListByPosition returns posts at exactly the given coordinates.
func (s *Store) ListByPosition(ctx context.Context, lat, lng float64) ([]models.Post, error) {
	cur, err := s.c.Find(ctx, bson.M{"position.lat": lat, "position.lng": lng},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new post.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// Update holds the author-editable fields.
type Update struct {
	Description string
	Body        string
	Location    string
	Position    models.Position
}

// Apply updates one post.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{
		"description": upd.Description,
		"body":        upd.Body,
		"location":    upd.Location,
		"position":    upd.Position,
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one post.
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
