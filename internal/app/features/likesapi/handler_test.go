package likesapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	likestore "github.com/eventra/eventra/internal/app/store/likes"
	poststore "github.com/eventra/eventra/internal/app/store/posts"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/eventra/eventra/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := NewHandler(likestore.New(db), poststore.New(db), zap.NewNop())
	return h, testutil.NewFixtures(t, db)
}

func TestCreateAndDuplicate(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()

	author := fx.CreateUser(ctx, "writer", models.RoleBaseUser)
	fan := fx.CreateUser(ctx, "fan", models.RoleBaseUser)
	post := fx.CreatePost(ctx, author.ID)

	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/likes/post/"+post.ID.Hex(), ""), fan.ID, fan.Role)
	req = testutil.WithChiURLParam(req, "post_id", post.ID.Hex())
	rec := testutil.NewRecorder()
	h.Create(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	var created models.Like
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.UserID != fan.ID {
		t.Fatalf("liking user not taken from the session: %s", created.UserID.Hex())
	}

	// Liking the same post twice is a conflict.
	req = testutil.WithUser(testutil.NewJSONRequest("POST", "/likes/post/"+post.ID.Hex(), ""), fan.ID, fan.Role)
	req = testutil.WithChiURLParam(req, "post_id", post.ID.Hex())
	rec = testutil.NewRecorder()
	h.Create(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestDeleteIsOwnerOnly(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()

	author := fx.CreateUser(ctx, "writer", models.RoleBaseUser)
	fan := fx.CreateUser(ctx, "fan", models.RoleBaseUser)
	admin := fx.CreateUser(ctx, "boss", models.RoleAdministrator)
	post := fx.CreatePost(ctx, author.ID)

	like, err := h.Likes.Create(ctx, fan.ID, post.ID)
	if err != nil {
		t.Fatal(err)
	}

	// Neither a stranger nor an administrator may remove someone else's like.
	for name, actor := range map[string]models.User{
		"stranger":      author,
		"administrator": admin,
	} {
		t.Run(name, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewJSONRequest("DELETE", "/likes/"+like.ID.Hex(), ""), actor.ID, actor.Role)
			req = testutil.WithChiURLParam(req, "id", like.ID.Hex())
			rec := testutil.NewRecorder()
			h.Delete(rec.ResponseRecorder, req)
			rec.AssertStatus(t, http.StatusForbidden)
		})
	}

	req := testutil.WithUser(testutil.NewJSONRequest("DELETE", "/likes/"+like.ID.Hex(), ""), fan.ID, fan.Role)
	req = testutil.WithChiURLParam(req, "id", like.ID.Hex())
	rec := testutil.NewRecorder()
	h.Delete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNoContent)

	if _, err := h.Likes.GetByID(ctx, like.ID); err != likestore.ErrNotFound {
		t.Fatalf("like still present after delete: %v", err)
	}
}
