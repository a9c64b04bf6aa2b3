package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/app/system/authz"
	"github.com/eventra/eventra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoPrincipal(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, _, ok := authz.UserCtx(r)
	if ok {
		t.Fatal("expected ok=false without a principal")
	}
}

func TestUserCtx_WithPrincipal(t *testing.T) {
	uid := primitive.NewObjectID()
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.Principal{
		UserID: uid,
		Role:   models.RoleOrganizer,
	})

	role, gotID, ok := authz.UserCtx(r)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != models.RoleOrganizer {
		t.Errorf("role = %s, want organizer", role)
	}
	if gotID != uid {
		t.Errorf("userID = %s, want %s", gotID.Hex(), uid.Hex())
	}
}

func TestRoleHelpers(t *testing.T) {
	base := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.Principal{
		UserID: primitive.NewObjectID(),
		Role:   models.RoleBaseUser,
	})
	admin := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.Principal{
		UserID: primitive.NewObjectID(),
		Role:   models.RoleAdministrator,
	})

	if !authz.IsBaseUser(base) || authz.IsOrganizer(base) || authz.IsAdministrator(base) {
		t.Error("base user helpers disagree")
	}
	if !authz.IsAdministrator(admin) || authz.IsBaseUser(admin) {
		t.Error("administrator helpers disagree")
	}
	if authz.IsBaseUser(httptest.NewRequest("GET", "/", nil)) {
		t.Error("unauthenticated request must not match any role")
	}
}
