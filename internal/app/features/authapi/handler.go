// Package authapi issues session tokens for password and Google sign-in.
package authapi

import (
	"context"
	"net/http"

	userstore "github.com/eventra/eventra/internal/app/store/users"
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/app/system/httpjson"
	"github.com/eventra/eventra/internal/app/system/ratelimit"
	"github.com/eventra/eventra/internal/app/system/timeouts"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/eventra/eventra/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

// ErrAuthenticationFailed is deliberately the same for a missing user, a bad
// password, and an unverified account; the distinction lives in logs only.
var ErrAuthenticationFailed = apperr.New(apperr.KindAuth, "invalid credentials")

// ErrInvalidExternalToken is returned when the Google ID token does not
// verify or carries no email.
var ErrInvalidExternalToken = apperr.New(apperr.KindAuth, "invalid identity token")

// validateIDToken is swapped out in tests.
var validateIDToken = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
	return idtoken.Validate(ctx, token, audience)
}

type Handler struct {
	Users          *userstore.Store
	Tokens         *auth.TokenManager
	GoogleClientID string
	Log            *zap.Logger

	// limiter is set by Routes; a successful sign-in clears the caller's
	// throttle window.
	limiter *ratelimit.Limiter
}

func NewHandler(users *userstore.Store, tokens *auth.TokenManager, googleClientID string, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, GoogleClientID: googleClientID, Log: logger}
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  userSummary `json:"user"`
}

type userSummary struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Picture  string      `json:"picture_url"`
	Role     models.Role `json:"role"`
}

// Login handles POST /auth/sessions.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "username and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			h.Log.Info("login failed: unknown username", zap.String("username", req.Username))
			httpjson.WriteDomainError(w, h.Log, ErrAuthenticationFailed)
			return
		}
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		h.Log.Info("login failed: bad password", zap.String("username", req.Username))
		httpjson.WriteDomainError(w, h.Log, ErrAuthenticationFailed)
		return
	}
	if !u.Verified {
		h.Log.Info("login failed: account not verified", zap.String("username", req.Username))
		httpjson.WriteDomainError(w, h.Log, ErrAuthenticationFailed)
		return
	}

	h.issueSession(w, r, u)
}

// LoginGoogle handles POST /auth/sessions/google. The client posts a Google
// ID token; an account is created on first sign-in.
func (h *Handler) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.Token == "" {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "token is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	payload, err := validateIDToken(ctx, req.Token, h.GoogleClientID)
	if err != nil {
		h.Log.Info("google login failed: token rejected", zap.Error(err))
		httpjson.WriteDomainError(w, h.Log, ErrInvalidExternalToken)
		return
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		httpjson.WriteDomainError(w, h.Log, ErrInvalidExternalToken)
		return
	}

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			httpjson.WriteDomainError(w, h.Log, err)
			return
		}
		name, _ := payload.Claims["name"].(string)
		picture, _ := payload.Claims["picture"].(string)
		created, cerr := h.Users.Create(ctx, models.User{
			Username:   email,
			Email:      email,
			Name:       name,
			PictureURL: picture,
			Role:       models.RoleBaseUser,
			Verified:   true,
		})
		if cerr != nil {
			httpjson.WriteDomainError(w, h.Log, cerr)
			return
		}
		h.Log.Info("created account from google sign-in", zap.String("email", email))
		u = &created
	}

	h.issueSession(w, r, u)
}

func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, u *models.User) {
	token, err := h.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if h.limiter != nil {
		h.limiter.Reset(ratelimit.ClientIP(r))
	}
	httpjson.Write(w, http.StatusOK, sessionResponse{
		Token: token,
		User: userSummary{
			ID:       u.ID.Hex(),
			Username: u.Username,
			Picture:  u.PictureURL,
			Role:     u.Role,
		},
	})
}
