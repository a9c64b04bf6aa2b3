package usersapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"

	userstore "github.com/eventra/eventra/internal/app/store/users"
	"github.com/eventra/eventra/internal/app/system/mailer"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/eventra/eventra/internal/testutil"
	"go.uber.org/zap"
)

// captureMailer records outgoing mail instead of delivering it.
type captureMailer struct {
	mu   sync.Mutex
	sent []mailer.Email
}

func (m *captureMailer) Send(_ context.Context, e mailer.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *captureMailer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	mail := &captureMailer{}
	h := NewHandler(userstore.New(db), mail, "http://localhost:3000", zap.NewNop())
	return h, mail
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"username":"a","email":"a@b.c","password":"p"}`},
		{"missing email", `{"username":"a","password":"p","name":"A"}`},
		{"unknown role", `{"username":"a","email":"a@b.c","password":"p","name":"A","role":"superuser"}`},
		{"malformed body", `{"username":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.Register(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/users", tc.body))
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestRegisterAndVerificationMail(t *testing.T) {
	h, mail := newTestHandler(t)

	body := `{"username":"Dave","email":"Dave@Example.COM","password":"p4ss","name":"Dave D","role":"organizer"}`
	rec := testutil.NewRecorder()
	h.Register(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/users", body))
	rec.AssertStatus(t, http.StatusCreated)

	var created models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Username != "dave" || created.Email != "dave@example.com" {
		t.Fatalf("identifiers not normalized: %q %q", created.Username, created.Email)
	}
	if created.Role != models.RoleOrganizer || created.Verified {
		t.Fatalf("unexpected account state: role=%s verified=%v", created.Role, created.Verified)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mail.sent))
	}
	msg := mail.sent[0]
	if msg.To != "dave@example.com" {
		t.Fatalf("mail to %q", msg.To)
	}
	if !strings.Contains(msg.TextBody, "/api/v1/email/verify?token=") {
		t.Fatalf("verification link missing from body: %q", msg.TextBody)
	}
}

func TestRegisterDuplicatePrecedence(t *testing.T) {
	h, _ := newTestHandler(t)

	first := `{"username":"erin","email":"erin@test.local","password":"p","name":"Erin"}`
	rec := testutil.NewRecorder()
	h.Register(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/users", first))
	rec.AssertStatus(t, http.StatusCreated)

	// Both identifiers collide; the email conflict is reported.
	rec = testutil.NewRecorder()
	h.Register(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/users", first))
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "email already in use")

	// Only the username collides.
	rec = testutil.NewRecorder()
	h.Register(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/users",
		`{"username":"erin","email":"other@test.local","password":"p","name":"Erin"}`))
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "username already in use")
}

func TestMeAndUpdateMe(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	u, err := h.Users.Create(ctx, models.User{
		Username: "frank", Email: "frank@test.local", Name: "Frank", Role: models.RoleBaseUser, Verified: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	req := testutil.WithUser(testutil.NewJSONRequest("GET", "/users/me", ""), u.ID, u.Role)
	rec := testutil.NewRecorder()
	h.Me(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "frank")

	req = testutil.WithUser(testutil.NewJSONRequest("PATCH", "/users/me", `{"name":"Franklin"}`), u.ID, u.Role)
	rec = testutil.NewRecorder()
	h.UpdateMe(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	updated, err := h.Users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Franklin" || updated.Username != "frank" {
		t.Fatalf("partial update went wrong: %+v", updated)
	}

	req = testutil.WithUser(testutil.NewJSONRequest("PATCH", "/users/me", `{"username":""}`), u.ID, u.Role)
	rec = testutil.NewRecorder()
	h.UpdateMe(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestDeleteMe(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	u, err := h.Users.Create(ctx, models.User{
		Username: "gone", Email: "gone@test.local", Role: models.RoleBaseUser,
	})
	if err != nil {
		t.Fatal(err)
	}

	req := testutil.WithUser(testutil.NewJSONRequest("DELETE", "/users/me", ""), u.ID, u.Role)
	rec := testutil.NewRecorder()
	h.DeleteMe(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNoContent)

	if _, err := h.Users.GetByID(ctx, u.ID); err == nil {
		t.Fatal("account still present after delete")
	}
}
