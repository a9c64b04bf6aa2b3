package postsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	commentstore "github.com/eventra/eventra/internal/app/store/comments"
	likestore "github.com/eventra/eventra/internal/app/store/likes"
	poststore "github.com/eventra/eventra/internal/app/store/posts"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/eventra/eventra/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := NewHandler(poststore.New(db), commentstore.New(db), likestore.New(db), zap.NewNop())
	return h, testutil.NewFixtures(t, db)
}

func TestCreate(t *testing.T) {
	h, fx := newTestHandler(t)
	author := fx.CreateUser(context.Background(), "writer", models.RoleBaseUser)

	body := `{"description":"sunset","body":"view from the hill","location":"Turin","position":{"lat":45.07,"lng":7.68}}`
	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/posts", body), author.ID, author.Role)
	rec := testutil.NewRecorder()
	h.Create(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	var created models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.AuthorID != author.ID {
		t.Fatalf("author not taken from the session: %s", created.AuthorID.Hex())
	}

	// An empty body and out-of-range coordinates are both rejected.
	for name, bad := range map[string]string{
		"empty body":    `{"position":{"lat":1,"lng":1}}`,
		"bad longitude": `{"body":"x","position":{"lat":1,"lng":181}}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewJSONRequest("POST", "/posts", bad), author.ID, author.Role)
			rec := testutil.NewRecorder()
			h.Create(rec.ResponseRecorder, req)
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestDeleteCascadesCommentsAndLikes(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()

	author := fx.CreateUser(ctx, "writer", models.RoleBaseUser)
	reader := fx.CreateUser(ctx, "reader", models.RoleBaseUser)
	post := fx.CreatePost(ctx, author.ID)

	if _, err := h.Comments.Create(ctx, models.Comment{PostID: post.ID, AuthorID: reader.ID, Text: "nice"}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Likes.Create(ctx, reader.ID, post.ID); err != nil {
		t.Fatal(err)
	}

	// Someone else cannot delete the post.
	req := testutil.WithUser(testutil.NewJSONRequest("DELETE", "/posts/"+post.ID.Hex(), ""), reader.ID, reader.Role)
	req = testutil.WithChiURLParam(req, "id", post.ID.Hex())
	rec := testutil.NewRecorder()
	h.Delete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	// The author can, and the comments and likes go with it.
	req = testutil.WithUser(testutil.NewJSONRequest("DELETE", "/posts/"+post.ID.Hex(), ""), author.ID, author.Role)
	req = testutil.WithChiURLParam(req, "id", post.ID.Hex())
	rec = testutil.NewRecorder()
	h.Delete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNoContent)

	comments, err := h.Comments.ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 0 {
		t.Fatalf("%d comments survived the delete", len(comments))
	}
	n, err := h.Likes.CountByPost(ctx, post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("%d likes survived the delete", n)
	}
}

func TestSearchPosition(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()

	author := fx.CreateUser(ctx, "writer", models.RoleBaseUser)
	post := fx.CreatePost(ctx, author.ID) // 45.07/7.68

	rec := testutil.NewRecorder()
	h.SearchPosition(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/posts/search/position",
		`{"lat":45.07,"lng":7.68}`))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, post.ID.Hex())

	rec = testutil.NewRecorder()
	h.SearchPosition(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/posts/search/position",
		`{"lat":10,"lng":10}`))
	rec.AssertStatus(t, http.StatusOK)
	var miss []models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &miss); err != nil {
		t.Fatal(err)
	}
	if len(miss) != 0 {
		t.Fatalf("expected no posts, got %d", len(miss))
	}
}
