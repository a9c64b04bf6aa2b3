// Package commentstore manages comments and their embedded likes. Comment
// likes live inside the comment document; $addToSet/$pull keep the array
// free of duplicates without a separate collection.
package commentstore

import (
	"context"
	"time"

	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/eventra/eventra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound   = apperr.New(apperr.KindNotFound, "comment not found")
	ErrNotLiked   = apperr.New(apperr.KindNotFound, "like not found")
	ErrDuplicated = apperr.New(apperr.KindConflict, "comment already liked")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

// GetByID loads one comment.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var cm models.Comment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cm); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cm, nil
}

// ListByPost returns a post's comments, oldest first.
func (s *Store) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	cur, err := s.c.Find(ctx, bson.M{"post_id": postID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Comment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new comment with an empty like array.
func (s *Store) Create(ctx context.Context, cm models.Comment) (models.Comment, error) {
	cm.ID = primitive.NewObjectID()
	cm.Likes = []models.CommentLike{}
	cm.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, cm); err != nil {
		return models.Comment{}, err
	}
	return cm, nil
}

// Delete removes one comment.
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

// DeleteByPost removes all comments on a post. Used when the post itself is
// deleted.
func (s *Store) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"post_id": postID})
	return err
}

// AddLike appends a like for userID unless one is already present. The
// filter excludes already-liked comments, so a duplicate like matches
// nothing and is reported as a conflict.
func (s *Store) AddLike(ctx context.Context, commentID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": commentID, "likes.user_id": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"likes": models.CommentLike{UserID: userID, CreatedAt: time.Now()}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the comment is missing or the user already liked it.
		if _, gerr := s.GetByID(ctx, commentID); gerr != nil {
			return gerr
		}
		return ErrDuplicated
	}
	return nil
}

// RemoveLike deletes userID's like from the comment.
func (s *Store) RemoveLike(ctx context.Context, commentID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": commentID},
		bson.M{"$pull": bson.M{"likes": bson.M{"user_id": userID}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrNotLiked
	}
	return nil
}
