// Package faqsapi serves event questions and organizer answers.
package faqsapi

import (
	"context"
	"net/http"

	"github.com/eventra/eventra/internal/app/policy/ownership"
	faqstore "github.com/eventra/eventra/internal/app/store/faqs"
	gatheringstore "github.com/eventra/eventra/internal/app/store/gatherings"
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/app/system/htmlsanitize"
	"github.com/eventra/eventra/internal/app/system/httpjson"
	"github.com/eventra/eventra/internal/app/system/timeouts"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	FAQs   *faqstore.Store
	Events *gatheringstore.Store
	Log    *zap.Logger
}

func NewHandler(faqs *faqstore.Store, events *gatheringstore.Store, logger *zap.Logger) *Handler {
	return &Handler{FAQs: faqs, Events: events, Log: logger}
}

// Create handles POST /faqs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}

	var req struct {
		EventID  string `json:"event_id"`
		Question string `json:"question"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.Question == "" {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "question is required"))
		return
	}
	eventID, err := primitive.ObjectIDFromHex(req.EventID)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid event id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	created, err := h.FAQs.Create(ctx, models.FAQ{
		EventID:  eventID,
		AuthorID: p.UserID,
		Question: htmlsanitize.Sanitize(req.Question),
	})
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

// ListByEvent handles GET /faqs/event/{id}.
func (h *Handler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid event id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	faqs, err := h.FAQs.ListByEvent(ctx, eventID)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, faqs)
}

// Answer handles PATCH /faqs/{id}/answer. Only the parent event's organizer
// (or an administrator) may answer.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid question id"))
		return
	}

	var req struct {
		Answer string `json:"answer"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.Answer == "" {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "answer is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	f, err := h.FAQs.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	event, err := h.Events.GetByID(ctx, f.EventID)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if !ownership.CanAnswerQuestion(r, event) {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindForbidden, "not the event organizer"))
		return
	}

	answer := htmlsanitize.Sanitize(req.Answer)
	if err := h.FAQs.SetAnswer(ctx, id, answer); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	f.Answer = &answer
	httpjson.Write(w, http.StatusOK, f)
}

// Delete handles DELETE /faqs/{id}. Only the asking user (or an
// administrator) may delete.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid question id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	f, err := h.FAQs.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if !ownership.CanDeleteQuestion(r, f) {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindForbidden, "not the asking user"))
		return
	}

	if err := h.FAQs.Delete(ctx, id); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
