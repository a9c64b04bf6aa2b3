package gatheringsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	categorystore "github.com/eventra/eventra/internal/app/store/categories"
	faqstore "github.com/eventra/eventra/internal/app/store/faqs"
	gatheringstore "github.com/eventra/eventra/internal/app/store/gatherings"
	participationstore "github.com/eventra/eventra/internal/app/store/participations"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/eventra/eventra/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newEventsHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	regs := participationstore.NewEvents(db)
	return &Handler{
		Store:          regs.Parents(),
		Categories:     categorystore.New(db),
		Participations: regs,
		FAQs:           faqstore.New(db),
		Log:            zap.NewNop(),
	}, testutil.NewFixtures(t, db)
}

func createBody(categoryID primitive.ObjectID) string {
	starts := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	return fmt.Sprintf(`{"title":"Meetup","description":"d","starts_at":%q,"location":"Turin",`+
		`"position":{"lat":45.07,"lng":7.68},"capacity":10,"category_id":%q}`,
		starts, categoryID.Hex())
}

func TestCreateValidation(t *testing.T) {
	h, fx := newEventsHandler(t)
	organizer := fx.CreateUser(context.Background(), "org", models.RoleOrganizer)
	cat := fx.CreateCategory(context.Background(), "music")

	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)

	cases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"missing title",
			fmt.Sprintf(`{"starts_at":%q,"position":{"lat":1,"lng":1},"category_id":%q}`, future, cat.ID.Hex()),
			http.StatusBadRequest},
		{"negative capacity",
			fmt.Sprintf(`{"title":"t","starts_at":%q,"position":{"lat":1,"lng":1},"capacity":-1,"category_id":%q}`, future, cat.ID.Hex()),
			http.StatusBadRequest},
		{"latitude out of range",
			fmt.Sprintf(`{"title":"t","starts_at":%q,"position":{"lat":91,"lng":1},"category_id":%q}`, future, cat.ID.Hex()),
			http.StatusBadRequest},
		{"starts in the past",
			fmt.Sprintf(`{"title":"t","starts_at":%q,"position":{"lat":1,"lng":1},"category_id":%q}`, past, cat.ID.Hex()),
			http.StatusBadRequest},
		{"unknown category",
			fmt.Sprintf(`{"title":"t","starts_at":%q,"position":{"lat":1,"lng":1},"category_id":%q}`, future, primitive.NewObjectID().Hex()),
			http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewJSONRequest("POST", "/events", tc.body), organizer.ID, organizer.Role)
			rec := testutil.NewRecorder()
			h.Create(rec.ResponseRecorder, req)
			rec.AssertStatus(t, tc.wantStatus)
		})
	}
}

func TestCreateAndGet(t *testing.T) {
	h, fx := newEventsHandler(t)
	ctx := context.Background()
	organizer := fx.CreateUser(ctx, "org", models.RoleOrganizer)
	cat := fx.CreateCategory(ctx, "music")

	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/events", createBody(cat.ID)), organizer.ID, organizer.Role)
	rec := testutil.NewRecorder()
	h.Create(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	var created models.Gathering
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.OrganizerID != organizer.ID {
		t.Fatalf("organizer not taken from the session: %s", created.OrganizerID.Hex())
	}
	if created.Participants != 0 {
		t.Fatalf("counter starts at %d", created.Participants)
	}

	getReq := testutil.WithChiURLParam(testutil.NewJSONRequest("GET", "/events/"+created.ID.Hex(), ""), "id", created.ID.Hex())
	rec = testutil.NewRecorder()
	h.Get(rec.ResponseRecorder, getReq)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Meetup")
}

func TestUpdateOwnershipAndFields(t *testing.T) {
	h, fx := newEventsHandler(t)
	ctx := context.Background()
	organizer := fx.CreateUser(ctx, "org", models.RoleOrganizer)
	stranger := fx.CreateUser(ctx, "other", models.RoleOrganizer)
	attendee := fx.CreateUser(ctx, "fan", models.RoleBaseUser)
	cat := fx.CreateCategory(ctx, "music")

	event := fx.CreateGathering(ctx, "events", organizer.ID, 10)
	if _, err := h.Participations.Register(ctx, attendee.ID, event.ID); err != nil {
		t.Fatal(err)
	}

	starts := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"title":"Renamed","description":"new plan","starts_at":%q,"location":"Milan",`+
		`"position":{"lat":45.46,"lng":9.19},"capacity":20,"category_id":%q}`, starts, cat.ID.Hex())

	// Someone else's organizer account cannot edit the event.
	req := testutil.WithUser(testutil.NewJSONRequest("PUT", "/events/"+event.ID.Hex(), body), stranger.ID, stranger.Role)
	req = testutil.WithChiURLParam(req, "id", event.ID.Hex())
	rec := testutil.NewRecorder()
	h.Update(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	// Capacity cannot drop below the registered count.
	tooSmall := fmt.Sprintf(`{"title":"Renamed","starts_at":%q,"position":{"lat":45.46,"lng":9.19},`+
		`"capacity":0,"category_id":%q}`, starts, cat.ID.Hex())
	req = testutil.WithUser(testutil.NewJSONRequest("PUT", "/events/"+event.ID.Hex(), tooSmall), organizer.ID, organizer.Role)
	req = testutil.WithChiURLParam(req, "id", event.ID.Hex())
	rec = testutil.NewRecorder()
	h.Update(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)

	req = testutil.WithUser(testutil.NewJSONRequest("PUT", "/events/"+event.ID.Hex(), body), organizer.ID, organizer.Role)
	req = testutil.WithChiURLParam(req, "id", event.ID.Hex())
	rec = testutil.NewRecorder()
	h.Update(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var updated models.Gathering
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Renamed" || updated.Capacity != 20 || updated.CategoryID != cat.ID {
		t.Fatalf("fields not applied: %+v", updated)
	}
	if updated.Participants != 1 {
		t.Fatalf("participant counter changed on update: %d", updated.Participants)
	}
}

func TestDeleteOwnershipAndCascade(t *testing.T) {
	h, fx := newEventsHandler(t)
	ctx := context.Background()
	organizer := fx.CreateUser(ctx, "org", models.RoleOrganizer)
	attendee := fx.CreateUser(ctx, "fan", models.RoleBaseUser)
	stranger := fx.CreateUser(ctx, "other", models.RoleOrganizer)

	event := fx.CreateGathering(ctx, "events", organizer.ID, 10)
	if _, err := h.Participations.Register(ctx, attendee.ID, event.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := h.FAQs.Create(ctx, models.FAQ{EventID: event.ID, AuthorID: attendee.ID, Question: "when?"}); err != nil {
		t.Fatal(err)
	}

	// A different organizer cannot delete someone else's event.
	req := testutil.WithUser(testutil.NewJSONRequest("DELETE", "/events/"+event.ID.Hex(), ""), stranger.ID, stranger.Role)
	req = testutil.WithChiURLParam(req, "id", event.ID.Hex())
	rec := testutil.NewRecorder()
	h.Delete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.WithUser(testutil.NewJSONRequest("DELETE", "/events/"+event.ID.Hex(), ""), organizer.ID, organizer.Role)
	req = testutil.WithChiURLParam(req, "id", event.ID.Hex())
	rec = testutil.NewRecorder()
	h.Delete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNoContent)

	if _, err := h.Store.GetByID(ctx, event.ID); err == nil {
		t.Fatal("event still present after delete")
	}
	regs, err := h.Participations.ListByParent(ctx, event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(regs) != 0 {
		t.Fatalf("%d registrations survived the delete", len(regs))
	}
	questions, err := h.FAQs.ListByEvent(ctx, event.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 0 {
		t.Fatalf("%d questions survived the delete", len(questions))
	}
}

func TestSearchRadius(t *testing.T) {
	h, fx := newEventsHandler(t)
	ctx := context.Background()
	organizer := fx.CreateUser(ctx, "org", models.RoleOrganizer)

	near := fx.CreateGathering(ctx, "events", organizer.ID, 5) // Turin, 45.07/7.68
	far := fx.CreateGathering(ctx, "events", organizer.ID, 5)
	if err := h.Store.Apply(ctx, far.ID, gatheringstore.Update{
		Title:      far.Title,
		StartsAt:   far.StartsAt,
		Position:   models.Position{Lat: 48.86, Lng: 2.35}, // Paris
		Capacity:   far.Capacity,
		CategoryID: far.CategoryID,
	}); err != nil {
		t.Fatal(err)
	}

	rec := testutil.NewRecorder()
	h.SearchRadius(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/events/search/radius",
		`{"lat":45.07,"lng":7.68,"rad":5}`))
	rec.AssertStatus(t, http.StatusOK)

	var items []models.Gathering
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, it := range items {
		if it.ID == near.ID {
			found = true
		}
		if it.ID == far.ID {
			t.Fatal("far-away event returned inside a 5km radius")
		}
	}
	if !found {
		t.Fatal("nearby event not returned")
	}
}
