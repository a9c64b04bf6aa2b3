// Package gatheringsapi serves the event and party surfaces. The two are
// identical except for which role may create; the handler is built once per
// collection.
package gatheringsapi

import (
	"context"
	"net/http"
	"time"

	"github.com/eventra/eventra/internal/app/policy/ownership"
	categorystore "github.com/eventra/eventra/internal/app/store/categories"
	faqstore "github.com/eventra/eventra/internal/app/store/faqs"
	gatheringstore "github.com/eventra/eventra/internal/app/store/gatherings"
	participationstore "github.com/eventra/eventra/internal/app/store/participations"
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/app/system/geo"
	"github.com/eventra/eventra/internal/app/system/htmlsanitize"
	"github.com/eventra/eventra/internal/app/system/httpjson"
	"github.com/eventra/eventra/internal/app/system/paging"
	"github.com/eventra/eventra/internal/app/system/timeouts"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Store          *gatheringstore.Store
	Categories     *categorystore.Store
	Participations *participationstore.Store
	// FAQs is set on the events handler only; parties carry no questions.
	FAQs *faqstore.Store
	Log  *zap.Logger
}

// List handles GET /.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Store.List(ctx, paging.FromRequest(r))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}

// Get handles GET /{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Store.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, g)
}

// ListByOrganizer handles GET /organizer/{id}.
func (h *Handler) ListByOrganizer(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid organizer id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Store.ListByOrganizer(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}

// ListByCategory handles GET /category/{id}.
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid category id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Store.ListByCategory(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}

type createRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StartsAt    time.Time       `json:"starts_at"`
	Location    string          `json:"location"`
	Position    models.Position `json:"position"`
	Capacity    int             `json:"capacity"`
	PhotoURL    string          `json:"photo_url"`
	CategoryID  string          `json:"category_id"`
}

// Create handles POST /.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.Title == "" {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "title is required"))
		return
	}
	if req.Capacity < 0 {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "capacity cannot be negative"))
		return
	}
	if err := geo.ValidateCoordinates(req.Position.Lat, req.Position.Lng); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.StartsAt.Before(time.Now()) {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "starts_at cannot be in the past"))
		return
	}
	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid category id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Categories.GetByID(ctx, categoryID); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	created, err := h.Store.Create(ctx, models.Gathering{
		Title:       htmlsanitize.StripTags(req.Title),
		Description: htmlsanitize.Sanitize(req.Description),
		StartsAt:    req.StartsAt,
		Location:    req.Location,
		Position:    req.Position,
		Capacity:    req.Capacity,
		PhotoURL:    req.PhotoURL,
		OrganizerID: p.UserID,
		CategoryID:  categoryID,
	})
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

// Update handles PUT /{id}. Only the owning organizer may edit, and the
// participant counter is never touched.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid id"))
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.Title == "" {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "title is required"))
		return
	}
	if req.Capacity < 0 {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "capacity cannot be negative"))
		return
	}
	if err := geo.ValidateCoordinates(req.Position.Lat, req.Position.Lng); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid category id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Store.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if !ownership.CanModifyGathering(r, g) {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindForbidden, "not the organizer"))
		return
	}
	if req.Capacity < g.Participants {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "capacity cannot fall below current participants"))
		return
	}

	if _, err := h.Categories.GetByID(ctx, categoryID); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	if err := h.Store.Apply(ctx, id, gatheringstore.Update{
		Title:       htmlsanitize.StripTags(req.Title),
		Description: htmlsanitize.Sanitize(req.Description),
		StartsAt:    req.StartsAt,
		Location:    req.Location,
		Position:    req.Position,
		Capacity:    req.Capacity,
		PhotoURL:    req.PhotoURL,
		CategoryID:  categoryID,
	}); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	updated, err := h.Store.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

// Delete handles DELETE /{id}. Registrations go with the document, and for
// events the questions do too.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Store.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if !ownership.CanModifyGathering(r, g) {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindForbidden, "not the organizer"))
		return
	}

	if err := h.Store.Delete(ctx, id); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if err := h.Participations.DeleteByParent(ctx, id); err != nil {
		h.Log.Error("orphaned registrations after delete", zap.String("id", id.Hex()), zap.Error(err))
	}
	if h.FAQs != nil {
		if err := h.FAQs.DeleteByEvent(ctx, id); err != nil {
			h.Log.Error("orphaned questions after delete", zap.String("id", id.Hex()), zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchRadius handles POST /search/radius.
func (h *Handler) SearchRadius(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
		Rad float64 `json:"rad"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Store.ListNearby(ctx, req.Lat, req.Lng, req.Rad)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}

// SearchPosition handles POST /search/position (exact match).
func (h *Handler) SearchPosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if err := geo.ValidateCoordinates(req.Lat, req.Lng); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Store.ListByPosition(ctx, req.Lat, req.Lng)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}
