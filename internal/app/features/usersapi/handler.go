// Package usersapi serves account registration and profile management.
package usersapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	userstore "github.com/eventra/eventra/internal/app/store/users"
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/app/system/httpjson"
	"github.com/eventra/eventra/internal/app/system/mailer"
	"github.com/eventra/eventra/internal/app/system/paging"
	"github.com/eventra/eventra/internal/app/system/timeouts"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const siteName = "Eventra"

type Handler struct {
	Users   *userstore.Store
	Mail    mailer.Mailer
	BaseURL string
	Log     *zap.Logger
}

func NewHandler(users *userstore.Store, mail mailer.Mailer, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Mail: mail, BaseURL: baseURL, Log: logger}
}

type registerRequest struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	Name              string `json:"name"`
	Gender            string `json:"gender"`
	PictureURL        string `json:"picture_url"`
	NotificationPrefs string `json:"notification_prefs"`
	Role              string `json:"role"`
}

// Register handles POST /users.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Name == "" {
		httpjson.WriteDomainError(w, h.Log,
			apperr.New(apperr.KindValidation, "username, email, password and name are required"))
		return
	}
	role := models.RoleBaseUser
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			httpjson.WriteDomainError(w, h.Log, apperr.Wrap(apperr.KindValidation, "unknown role", err))
			return
		}
		role = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Email collisions are reported before username collisions.
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindConflict, "email already in use"))
		return
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if _, err := h.Users.GetByUsername(ctx, req.Username); err == nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindConflict, "username already in use"))
		return
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	token, err := newVerificationToken()
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		Username:          req.Username,
		Email:             req.Email,
		PasswordHash:      string(hash),
		Name:              req.Name,
		Gender:            req.Gender,
		PictureURL:        req.PictureURL,
		NotificationPrefs: req.NotificationPrefs,
		Role:              role,
		Verified:          false,
		VerificationToken: token,
	})
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	msg := mailer.BuildVerificationEmail(mailer.VerificationEmailData{
		SiteName:  siteName,
		Username:  u.Username,
		VerifyURL: h.BaseURL + "/api/v1/email/verify?token=" + token,
	})
	msg.To = u.Email
	if err := h.Mail.Send(ctx, msg); err != nil {
		// The account exists; a failed mail send is logged, not fatal.
		h.Log.Error("verification email failed", zap.String("email", u.Email), zap.Error(err))
	}

	httpjson.Write(w, http.StatusCreated, u)
}

// Me handles GET /users/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, p.UserID)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

// Get handles GET /users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid user id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

// ListByRole handles GET /users?role=.
func (h *Handler) ListByRole(w http.ResponseWriter, r *http.Request) {
	role, err := models.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.Wrap(apperr.KindValidation, "unknown role", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.ListByRole(ctx, role, paging.FromRequest(r))
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, users)
}

// UpdateMe handles PATCH /users/me.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}

	var req struct {
		Username          *string `json:"username"`
		Name              *string `json:"name"`
		Gender            *string `json:"gender"`
		PictureURL        *string `json:"picture_url"`
		NotificationPrefs *string `json:"notification_prefs"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.Username != nil && *req.Username == "" {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "username cannot be empty"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, p.UserID, userstore.ProfileUpdate{
		Username:          req.Username,
		Name:              req.Name,
		Gender:            req.Gender,
		PictureURL:        req.PictureURL,
		NotificationPrefs: req.NotificationPrefs,
	}); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}

	u, err := h.Users.GetByID(ctx, p.UserID)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

// DeleteMe handles DELETE /users/me.
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.Delete(ctx, p.UserID); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func newVerificationToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
