// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/eventra/eventra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema, logger); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("events", gatheringSchema())
	ensure("parties", gatheringSchema())
	ensure("posts", postsSchema())
	ensure("categories", categoriesSchema())
	ensure("comments", commentsSchema())
	ensure("faqs", faqsSchema())
	ensure("event_participations", participationsSchema())
	ensure("party_participations", participationsSchema())

	// No validator needed; the shape is trivial and the unique index does
	// the real enforcement.
	ensure("likes", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
func ensureCollection(ctx context.Context, db *mongo.Database, name string, logger *zap.Logger) error {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		return nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return nil
		}
		logger.Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	logger.Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M, logger *zap.Logger) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	logger.Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func roleEnum() bson.A {
	out := bson.A{}
	for _, r := range models.Roles {
		out = append(out, r.String())
	}
	return out
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"username", "email", "role", "verified"},
			"properties": bson.M{
				"username": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"email":    bson.M{"bsonType": "string", "minLength": 3},
				"role":     bson.M{"enum": roleEnum()},
				"verified": bson.M{"bsonType": "bool"},

				"password_hash":      bson.M{"bsonType": "string"},
				"name":               bson.M{"bsonType": "string"},
				"gender":             bson.M{"bsonType": "string"},
				"picture_url":        bson.M{"bsonType": "string"},
				"notification_prefs": bson.M{"bsonType": "string"},
				"verification_token": bson.M{"bsonType": "string"},
				"registered_at":      bson.M{"bsonType": "date"},
			},
		},
	}
}

// gatheringSchema covers both "events" and "parties"; the two collections
// share one document shape.
func gatheringSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "organizer_id", "capacity", "participants"},
			"properties": bson.M{
				"title":        bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"description":  bson.M{"bsonType": "string"},
				"starts_at":    bson.M{"bsonType": "date"},
				"location":     bson.M{"bsonType": "string"},
				"capacity":     bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"participants": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"photo_url":    bson.M{"bsonType": "string"},
				"organizer_id": bson.M{"bsonType": "objectId"},
				"category_id":  bson.M{"bsonType": "objectId"},
				"created_at":   bson.M{"bsonType": "date"},
			},
		},
	}
}

func postsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"body", "author_id"},
			"properties": bson.M{
				"body":        bson.M{"bsonType": "string", "minLength": 1},
				"description": bson.M{"bsonType": "string"},
				"location":    bson.M{"bsonType": "string"},
				"author_id":   bson.M{"bsonType": "objectId"},
				"created_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}

func categoriesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name"},
			"properties": bson.M{
				"name": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
			},
		},
	}
}

func commentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"text", "author_id", "post_id", "likes"},
			"properties": bson.M{
				"text":       bson.M{"bsonType": "string", "minLength": 1},
				"author_id":  bson.M{"bsonType": "objectId"},
				"post_id":    bson.M{"bsonType": "objectId"},
				"likes":      bson.M{"bsonType": "array"},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func faqsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"question", "event_id", "author_id"},
			"properties": bson.M{
				"question":   bson.M{"bsonType": "string", "minLength": 1},
				"answer":     bson.M{"bsonType": "string"},
				"event_id":   bson.M{"bsonType": "objectId"},
				"author_id":  bson.M{"bsonType": "objectId"},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

// participationsSchema covers event_participations and party_participations.
func participationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "parent_id"},
			"properties": bson.M{
				"user_id":    bson.M{"bsonType": "objectId"},
				"parent_id":  bson.M{"bsonType": "objectId"},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}
