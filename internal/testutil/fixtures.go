package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a verified test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, username string, role models.Role) models.User {
	f.t.Helper()

	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        username + "@test.local",
		Name:         "Test " + username,
		Role:         role,
		Verified:     true,
		RegisteredAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateCategory creates a test category.
func (f *Fixtures) CreateCategory(ctx context.Context, name string) models.Category {
	f.t.Helper()

	cat := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("categories").InsertOne(ctx, cat); err != nil {
		f.t.Fatalf("failed to create test category: %v", err)
	}
	return cat
}

// CreateGathering inserts a gathering into the given collection ("events" or
// "parties") with the stated capacity and no participants.
func (f *Fixtures) CreateGathering(ctx context.Context, collection string, organizerID primitive.ObjectID, capacity int) models.Gathering {
	f.t.Helper()

	g := models.Gathering{
		ID:          primitive.NewObjectID(),
		Title:       "Test Gathering",
		StartsAt:    time.Now().Add(24 * time.Hour).UTC(),
		Location:    "Test Venue",
		Position:    models.Position{Lat: 45.07, Lng: 7.68},
		Capacity:    capacity,
		OrganizerID: organizerID,
		CategoryID:  primitive.NewObjectID(),
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection(collection).InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test gathering: %v", err)
	}
	return g
}

// CreatePost creates a test post by the given author.
func (f *Fixtures) CreatePost(ctx context.Context, authorID primitive.ObjectID) models.Post {
	f.t.Helper()

	p := models.Post{
		ID:        primitive.NewObjectID(),
		Body:      "test post body",
		Location:  "Test Venue",
		Position:  models.Position{Lat: 45.07, Lng: 7.68},
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("posts").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return p
}
