package faqsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	faqstore "github.com/eventra/eventra/internal/app/store/faqs"
	participationstore "github.com/eventra/eventra/internal/app/store/participations"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/eventra/eventra/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	events := participationstore.NewEvents(db).Parents()
	return NewHandler(faqstore.New(db), events, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestAskAndAnswer(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()

	organizer := fx.CreateUser(ctx, "org", models.RoleOrganizer)
	asker := fx.CreateUser(ctx, "curious", models.RoleBaseUser)
	other := fx.CreateUser(ctx, "bystander", models.RoleBaseUser)
	event := fx.CreateGathering(ctx, "events", organizer.ID, 10)

	body := fmt.Sprintf(`{"event_id":%q,"question":"is there parking?"}`, event.ID.Hex())
	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/faqs", body), asker.ID, asker.Role)
	rec := testutil.NewRecorder()
	h.Create(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	var q models.FAQ
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatal(err)
	}
	if q.AuthorID != asker.ID || q.Answer != nil {
		t.Fatalf("unexpected question: %+v", q)
	}

	// Only the event organizer (or an admin) may answer.
	answerBody := `{"answer":"yes, on site"}`
	req = testutil.WithUser(testutil.NewJSONRequest("PATCH", "/faqs/"+q.ID.Hex()+"/answer", answerBody), other.ID, other.Role)
	req = testutil.WithChiURLParam(req, "id", q.ID.Hex())
	rec = testutil.NewRecorder()
	h.Answer(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.WithUser(testutil.NewJSONRequest("PATCH", "/faqs/"+q.ID.Hex()+"/answer", answerBody), organizer.ID, organizer.Role)
	req = testutil.WithChiURLParam(req, "id", q.ID.Hex())
	rec = testutil.NewRecorder()
	h.Answer(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "yes, on site")
}

func TestCreateRequiresExistingEvent(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	asker := fx.CreateUser(ctx, "curious", models.RoleBaseUser)

	body := `{"event_id":"000000000000000000000000","question":"hello?"}`
	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/faqs", body), asker.ID, asker.Role)
	rec := testutil.NewRecorder()
	h.Create(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestDeleteOwnQuestion(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()

	organizer := fx.CreateUser(ctx, "org", models.RoleOrganizer)
	asker := fx.CreateUser(ctx, "curious", models.RoleBaseUser)
	stranger := fx.CreateUser(ctx, "other", models.RoleBaseUser)
	event := fx.CreateGathering(ctx, "events", organizer.ID, 10)

	q, err := h.FAQs.Create(ctx, models.FAQ{EventID: event.ID, AuthorID: asker.ID, Question: "when?"})
	if err != nil {
		t.Fatal(err)
	}

	req := testutil.WithUser(testutil.NewJSONRequest("DELETE", "/faqs/"+q.ID.Hex(), ""), stranger.ID, stranger.Role)
	req = testutil.WithChiURLParam(req, "id", q.ID.Hex())
	rec := testutil.NewRecorder()
	h.Delete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.WithUser(testutil.NewJSONRequest("DELETE", "/faqs/"+q.ID.Hex(), ""), asker.ID, asker.Role)
	req = testutil.WithChiURLParam(req, "id", q.ID.Hex())
	rec = testutil.NewRecorder()
	h.Delete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNoContent)
}
