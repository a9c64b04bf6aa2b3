// Package categoriesapi serves administrator-managed categories.
package categoriesapi

import (
	"context"
	"net/http"

	categorystore "github.com/eventra/eventra/internal/app/store/categories"
	"github.com/eventra/eventra/internal/app/system/httpjson"
	"github.com/eventra/eventra/internal/app/system/timeouts"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Categories *categorystore.Store
	Log        *zap.Logger
}

func NewHandler(categories *categorystore.Store, logger *zap.Logger) *Handler {
	return &Handler{Categories: categories, Log: logger}
}

// List handles GET /categories.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	categories, err := h.Categories.List(ctx)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, categories)
}

// Get handles GET /categories/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid category id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, cat)
}

// Create handles POST /categories.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.Name == "" {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "name is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cat, err := h.Categories.Create(ctx, req.Name)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, cat)
}

// Delete handles DELETE /categories/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid category id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
