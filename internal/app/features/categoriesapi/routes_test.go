package categoriesapi

import (
	"net/http"
	"strings"
	"testing"
	"time"

	categorystore "github.com/eventra/eventra/internal/app/store/categories"
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/eventra/eventra/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (http.Handler, *auth.TokenManager) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return Routes(NewHandler(categorystore.New(db), zap.NewNop()), tokens), tokens
}

func TestWriteAccessIsAdministratorOnly(t *testing.T) {
	router, tokens := newTestRouter(t)

	adminTok, err := tokens.Issue(primitive.NewObjectID(), models.RoleAdministrator)
	if err != nil {
		t.Fatal(err)
	}
	userTok, err := tokens.Issue(primitive.NewObjectID(), models.RoleBaseUser)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"base user", userTok, http.StatusForbidden},
		{"administrator", adminTok, http.StatusCreated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest("POST", "/", `{"name":"`+tc.name+`"}`)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec.ResponseRecorder, req)
			rec.AssertStatus(t, tc.wantStatus)
		})
	}
}

func TestListAndDuplicate(t *testing.T) {
	router, tokens := newTestRouter(t)

	adminTok, err := tokens.Issue(primitive.NewObjectID(), models.RoleAdministrator)
	if err != nil {
		t.Fatal(err)
	}

	create := func(name string) *testutil.ResponseRecorder {
		req := testutil.NewJSONRequest("POST", "/", `{"name":"`+name+`"}`)
		req.Header.Set("Authorization", "Bearer "+adminTok)
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec.ResponseRecorder, req)
		return rec
	}

	create("music").AssertStatus(t, http.StatusCreated)
	create("sports").AssertStatus(t, http.StatusCreated)
	create("music").AssertStatus(t, http.StatusConflict)

	req := testutil.NewJSONRequest("GET", "/", "")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	body := rec.Body.String()
	// Alphabetical listing.
	if strings.Index(body, "music") > strings.Index(body, "sports") {
		t.Fatalf("categories out of order: %s", body)
	}
}
