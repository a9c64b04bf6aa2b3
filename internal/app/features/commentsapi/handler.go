// Package commentsapi serves comments and their embedded likes.
package commentsapi

import (
	"context"
	"net/http"

	"github.com/eventra/eventra/internal/app/policy/ownership"
	commentstore "github.com/eventra/eventra/internal/app/store/comments"
	poststore "github.com/eventra/eventra/internal/app/store/posts"
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
	Comments *commentstore.Store
	Posts    *poststore.Store
	Log      *zap.Logger
}

func NewHandler(comments *commentstore.Store, posts *poststore.Store, logger *zap.Logger) *Handler {
	return &Handler{Comments: comments, Posts: posts, Log: logger}
}

// Create handles POST /comments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}

	var req struct {
		PostID string `json:"post_id"`
		Text   string `json:"text"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.Text == "" {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "text is required"))
		return
	}
	postID, err := primitive.ObjectIDFromHex(req.PostID)
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

	created, err := h.Comments.Create(ctx, models.Comment{
		Text:     htmlsanitize.Sanitize(req.Text),
		AuthorID: p.UserID,
		PostID:   postID,
	})
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

// ListByPost handles GET /comments/post/{id}.
func (h *Handler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid post id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	comments, err := h.Comments.ListByPost(ctx, postID)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, comments)
}

// Delete handles DELETE /comments/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid comment id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cm, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if !ownership.CanModifyComment(r, cm) {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindForbidden, "not the comment author"))
		return
	}

	if err := h.Comments.Delete(ctx, id); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Like handles POST /comments/{id}/likes.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid comment id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Comments.AddLike(ctx, id, p.UserID); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unlike handles DELETE /comments/{id}/likes.
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid comment id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Comments.RemoveLike(ctx, id, p.UserID); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
