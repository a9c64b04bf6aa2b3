// Package likestore manages standalone post likes. A unique index on
// (user_id, post_id) makes double-liking a write conflict rather than a
// read-then-write race.
package likestore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/eventra/eventra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = apperr.New(apperr.KindNotFound, "like not found")
	ErrDuplicate = apperr.New(apperr.KindConflict, "post already liked")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("likes")}
}

// Create records userID liking postID.
func (s *Store) Create(ctx context.Context, userID, postID primitive.ObjectID) (models.Like, error) {
	l := models.Like{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	}
	if _, err := s.c.InsertOne(ctx, l); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Like{}, ErrDuplicate
		}
		return models.Like{}, err
	}
	return l, nil
}

// GetByID loads one like.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Like, error) {
	var l models.Like
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Delete removes one like by ID.
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

// ListByPost returns all likes on a post.
func (s *Store) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Like, error) {
	cur, err := s.c.Find(ctx, bson.M{"post_id": postID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Like
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByPost returns the number of likes on a post.
func (s *Store) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"post_id": postID})
}

// DeleteByPost removes all likes on a post. Used when the post is deleted.
func (s *Store) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"post_id": postID})
	return err
}
