// Package indexes declares the MongoDB indexes the application depends on
// and reconciles them at startup.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// spec pairs a collection name with the indexes it must carry.
type spec struct {
	collection string
	models     []mongo.IndexModel
}

func all() []spec {
	return []spec{
		{
			collection: "users",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "username", Value: 1}},
					Options: options.Index().SetName("uniq_username").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetName("uniq_email").SetUnique(true),
				},
			},
		},
		{
			collection: "likes",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "post_id", Value: 1}},
					Options: options.Index().SetName("uniq_user_post").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "post_id", Value: 1}},
					Options: options.Index().SetName("by_post"),
				},
			},
		},
		{
			collection: "event_participations",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "parent_id", Value: 1}},
					Options: options.Index().SetName("uniq_user_parent").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "parent_id", Value: 1}},
					Options: options.Index().SetName("by_parent"),
				},
			},
		},
		{
			collection: "party_participations",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "parent_id", Value: 1}},
					Options: options.Index().SetName("uniq_user_parent").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "parent_id", Value: 1}},
					Options: options.Index().SetName("by_parent"),
				},
			},
		},
		{
			collection: "categories",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "name", Value: 1}},
					Options: options.Index().SetName("uniq_name").SetUnique(true),
				},
			},
		},
		{
			collection: "comments",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "post_id", Value: 1}},
					Options: options.Index().SetName("by_post"),
				},
			},
		},
		{
			collection: "faqs",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "event_id", Value: 1}},
					Options: options.Index().SetName("by_event"),
				},
			},
		},
		{
			collection: "events",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "organizer_id", Value: 1}},
					Options: options.Index().SetName("by_organizer"),
				},
			},
		},
		{
			collection: "parties",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "organizer_id", Value: 1}},
					Options: options.Index().SetName("by_organizer"),
				},
			},
		},
	}
}

// EnsureAll reconciles every declared index against the database. It keeps
// going after individual failures and returns one aggregated error so a
// single broken collection does not hide problems in the others.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string
	for _, s := range all() {
		if err := ensureIndexSet(ctx, db.Collection(s.collection), s.models, logger); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", s.collection, err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("index reconciliation: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ensureIndexSet creates each index, tolerating the already-exists cases and
// recovering from option conflicts by dropping the stale index and recreating
// it with the declared options.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	existing, err := listIndexSigs(ctx, coll)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}

	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		wantUnique := m.Options != nil && m.Options.Unique != nil && *m.Options.Unique

		if cur, ok := existing[keySig(m.Keys.(bson.D))]; ok {
			if cur.unique == wantUnique && cur.name == name {
				continue
			}
			// Same keys under a different name or uniqueness; rebuild.
			if _, err := coll.Indexes().DropOne(ctx, cur.name); err != nil {
				return fmt.Errorf("drop %s: %w", cur.name, err)
			}
			logger.Info("rebuilding index",
				zap.String("collection", coll.Name()),
				zap.String("index", name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				if _, derr := coll.Indexes().DropOne(ctx, name); derr == nil {
					if _, rerr := coll.Indexes().CreateOne(ctx, m); rerr == nil {
						continue
					}
				}
			}
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	return nil
}

type indexSig struct {
	name   string
	unique bool
}

func listIndexSigs(ctx context.Context, coll *mongo.Collection) (map[string]indexSig, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]indexSig)
	for cur.Next(ctx) {
		var doc struct {
			Name   string `bson:"name"`
			Key    bson.D `bson:"key"`
			Unique bool   `bson:"unique"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		if doc.Name == "_id_" {
			continue
		}
		out[keySig(doc.Key)] = indexSig{name: doc.Name, unique: doc.Unique}
	}
	return out, cur.Err()
}

// keySig renders an index key document into a stable comparable string.
func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, e := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", e.Key, e.Value))
	}
	return strings.Join(parts, ",")
}

func isOptionsConflictErr(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 85 IndexOptionsConflict, 86 IndexKeySpecsConflict.
		return cmdErr.Code == 85 || cmdErr.Code == 86
	}
	return false
}
