// internal/app/system/auth/auth.go

// Package auth issues and verifies the signed session tokens that carry a
// user's identity and role, and provides the per-route middleware that
// guards authenticated endpoints.
//
// Tokens are stateless HS256 JWTs with a fixed validity window. Routes that
// serve public reads are simply not wrapped in RequireAuth.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eventra/eventra/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrMissingToken is returned when no bearer token is present.
	ErrMissingToken = errors.New("no token provided")
	// ErrInvalidToken is returned on any verification failure: bad
	// signature, expired, malformed, or unknown role claim.
	ErrInvalidToken = errors.New("failed to authenticate token")
)

// Claims are the JWT claims carried by a session token. Subject holds the
// user's ObjectID hex.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the decoded identity attached to the request context by the
// guard middleware.
type Principal struct {
	UserID primitive.ObjectID
	Role   models.Role
}

// TokenManager signs and verifies session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a TokenManager. The secret must be non-empty;
// ttl defaults to one hour when zero.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token validity window.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a session token for the given user and role.
func (m *TokenManager) Issue(userID primitive.ObjectID, role models.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and decodes the principal.
func (m *TokenManager) Verify(tokenString string) (*Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	uid, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Principal{UserID: uid, Role: role}, nil
}

type ctxKey string

const principalKey ctxKey = "principal"

// CurrentUser returns the authenticated principal and a found flag.
func CurrentUser(r *http.Request) (*Principal, bool) {
	p, ok := r.Context().Value(principalKey).(*Principal)
	return p, ok
}

// WithTestUser injects a principal into the request context. Test use only.
func WithTestUser(r *http.Request, p *Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), principalKey, p))
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
// Returns "" when the header is absent or not a bearer scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth verifies the bearer token and attaches the principal to the
// request context. Missing token and invalid token both end the request
// with 401 and a JSON error body.
func (m *TokenManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := BearerToken(r)
		if tok == "" {
			writeAuthError(w, http.StatusUnauthorized, ErrMissingToken.Error())
			return
		}
		p, err := m.Verify(tok)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, ErrInvalidToken.Error())
			return
		}
		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole ensures the authenticated principal holds one of the allowed
// roles. It must be applied after RequireAuth.
func RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	set := make(map[models.Role]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := CurrentUser(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, ErrMissingToken.Error())
				return
			}
			if _, has := set[p.Role]; !has {
				writeAuthError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError emits the guard's minimal JSON error body. Kept local to
// avoid a dependency on httpjson from middleware.
func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{\"error\":%q}\n", msg)
}
