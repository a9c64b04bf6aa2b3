// Package likesapi serves standalone post likes.
package likesapi

import (
	"context"
	"net/http"

	likestore "github.com/eventra/eventra/internal/app/store/likes"
	poststore "github.com/eventra/eventra/internal/app/store/posts"
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/app/system/authz"
	"github.com/eventra/eventra/internal/app/system/httpjson"
	"github.com/eventra/eventra/internal/app/system/timeouts"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Likes *likestore.Store
	Posts *poststore.Store
	Log   *zap.Logger
}

func NewHandler(likes *likestore.Store, posts *poststore.Store, logger *zap.Logger) *Handler {
	return &Handler{Likes: likes, Posts: posts, Log: logger}
}

// Create handles POST /likes/post/{post_id}.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "post_id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid post id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	like, err := h.Likes.Create(ctx, p.UserID, postID)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, like)
}

// Delete handles DELETE /likes/{id}. Only the liking user may remove it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid like id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	like, err := h.Likes.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	_, uid, ok := authz.UserCtx(r)
	if !ok || uid != like.UserID {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindForbidden, "not the liking user"))
		return
	}

	if err := h.Likes.Delete(ctx, id); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByPost handles GET /likes/post/{post_id}.
func (h *Handler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "post_id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid post id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	likes, err := h.Likes.ListByPost(ctx, postID)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, likes)
}
