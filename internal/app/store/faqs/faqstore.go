package faqstore

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

// ErrNotFound is returned when no question matches the lookup.
var ErrNotFound = apperr.New(apperr.KindNotFound, "question not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("faqs")}
}

// GetByID loads one question.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FAQ, error) {
	var f models.FAQ
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ListByEvent returns an event's questions, oldest first.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.FAQ, error) {
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.FAQ
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new unanswered question.
func (s *Store) Create(ctx context.Context, f models.FAQ) (models.FAQ, error) {
	f.ID = primitive.NewObjectID()
	f.Answer = nil
	f.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.FAQ{}, err
	}
	return f, nil
}

// SetAnswer records the organizer's answer. Answering again overwrites.
func (s *Store) SetAnswer(ctx context.Context, id primitive.ObjectID, answer string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"answer": answer}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one question.
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

// DeleteByEvent removes all questions on an event. Used when the event is
// deleted.
func (s *Store) DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"event_id": eventID})
	return err
}
