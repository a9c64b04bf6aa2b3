// Package postsapi serves post CRUD and geosearch.
package postsapi

import (
	"context"
	"net/http"

	"github.com/eventra/eventra/internal/app/policy/ownership"
	commentstore "github.com/eventra/eventra/internal/app/store/comments"
	likestore "github.com/eventra/eventra/internal/app/store/likes"
	poststore "github.com/eventra/eventra/internal/app/store/posts"
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
	Posts    *poststore.Store
	Comments *commentstore.Store
	Likes    *likestore.Store
	Log      *zap.Logger
}

func NewHandler(posts *poststore.Store, comments *commentstore.Store, likes *likestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Posts: posts, Comments: comments, Likes: likes, Log: logger}
}

// List handles GET /posts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := h.Posts.List(ctx, paging.FromRequest(r))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, posts)
}

// Get handles GET /posts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid post id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, p)
}

// ListByAuthor handles GET /posts/author/{id}.
func (h *Handler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid author id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := h.Posts.ListByAuthor(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, posts)
}

type createRequest struct {
	Description string          `json:"description"`
	Body        string          `json:"body"`
	Location    string          `json:"location"`
	Position    models.Position `json:"position"`
}

// Create handles POST /posts.
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
	if req.Body == "" {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "body is required"))
		return
	}
	if err := geo.ValidateCoordinates(req.Position.Lat, req.Position.Lng); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Posts.Create(ctx, models.Post{
		Description: htmlsanitize.Sanitize(req.Description),
		Body:        htmlsanitize.Sanitize(req.Body),
		Location:    req.Location,
		Position:    req.Position,
		AuthorID:    p.UserID,
	})
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

// Delete handles DELETE /posts/{id}. Comments and likes on the post are
// removed with it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid post id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if !ownership.CanModifyPost(r, post) {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindForbidden, "not the post author"))
		return
	}

	if err := h.Posts.Delete(ctx, id); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if err := h.Comments.DeleteByPost(ctx, id); err != nil {
		h.Log.Error("orphaned comments after post delete", zap.String("post_id", id.Hex()), zap.Error(err))
	}
	if err := h.Likes.DeleteByPost(ctx, id); err != nil {
		h.Log.Error("orphaned likes after post delete", zap.String("post_id", id.Hex()), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchRadius handles POST /posts/search/radius.
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

	posts, err := h.Posts.ListNearby(ctx, req.Lat, req.Lng, req.Rad)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, posts)
}

// SearchPosition handles POST /posts/search/position (exact match).
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

	posts, err := h.Posts.ListByPosition(ctx, req.Lat, req.Lng)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, posts)
}
