package emailapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	userstore "github.com/eventra/eventra/internal/app/store/users"
	"github.com/eventra/eventra/internal/app/system/mailer"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/eventra/eventra/internal/testutil"
	"go.uber.org/zap"
)

type stubMailer struct {
	sent []mailer.Email
	err  error
}

func (m *stubMailer) Send(_ context.Context, e mailer.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

func TestSendValidation(t *testing.T) {
	h := NewHandler(nil, &stubMailer{}, zap.NewNop())

	cases := []struct {
		name string
		body string
	}{
		{"missing recipient", `{"subject":"s","text":"t"}`},
		{"missing subject", `{"to":"a@b.c","text":"t"}`},
		{"no body at all", `{"to":"a@b.c","subject":"s"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.Send(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/email", tc.body))
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestSend(t *testing.T) {
	mail := &stubMailer{}
	h := NewHandler(nil, mail, zap.NewNop())

	rec := testutil.NewRecorder()
	h.Send(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/email",
		`{"to":"a@b.c","subject":"hello","text":"hi there"}`))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "sent")

	if len(mail.sent) != 1 || mail.sent[0].To != "a@b.c" || mail.sent[0].TextBody != "hi there" {
		t.Fatalf("unexpected outbox: %+v", mail.sent)
	}
}

func TestSendUpstreamFailure(t *testing.T) {
	h := NewHandler(nil, &stubMailer{err: errors.New("sendgrid said no")}, zap.NewNop())

	rec := testutil.NewRecorder()
	h.Send(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/email",
		`{"to":"a@b.c","subject":"hello","text":"hi"}`))
	rec.AssertStatus(t, http.StatusBadGateway)
}

func TestVerify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	h := NewHandler(users, &stubMailer{}, zap.NewNop())
	ctx := context.Background()

	u, err := users.Create(ctx, models.User{
		Username:          "pending",
		Email:             "pending@test.local",
		Role:              models.RoleBaseUser,
		VerificationToken: "tok-123",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Missing token.
	rec := testutil.NewRecorder()
	h.Verify(rec.ResponseRecorder, httptest.NewRequest("GET", "/email/verify", nil))
	rec.AssertStatus(t, http.StatusBadRequest)

	// Unknown token.
	rec = testutil.NewRecorder()
	h.Verify(rec.ResponseRecorder, httptest.NewRequest("GET", "/email/verify?token=nope", nil))
	rec.AssertStatus(t, http.StatusNotFound)

	// Happy path flips the flag.
	rec = testutil.NewRecorder()
	h.Verify(rec.ResponseRecorder, httptest.NewRequest("GET", "/email/verify?token=tok-123", nil))
	rec.AssertStatus(t, http.StatusOK)

	got, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Verified {
		t.Fatal("account not marked verified")
	}

	// The token is single use.
	rec = testutil.NewRecorder()
	h.Verify(rec.ResponseRecorder, httptest.NewRequest("GET", "/email/verify?token=tok-123", nil))
	rec.AssertStatus(t, http.StatusNotFound)
}
