// Package emailapi sends transactional mail and completes account
// verification links.
package emailapi

import (
	"context"
	"net/http"

	userstore "github.com/eventra/eventra/internal/app/store/users"
	"github.com/eventra/eventra/internal/app/system/httpjson"
	"github.com/eventra/eventra/internal/app/system/mailer"
	"github.com/eventra/eventra/internal/app/system/timeouts"
	"github.com/eventra/eventra/internal/domain/apperr"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Mail  mailer.Mailer
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, mail mailer.Mailer, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Mail: mail, Log: logger}
}

// Send handles POST /email.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		Text    string `json:"text"`
		HTML    string `json:"html"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if req.To == "" || req.Subject == "" || (req.Text == "" && req.HTML == "") {
		httpjson.WriteDomainError(w, h.Log,
			apperr.New(apperr.KindValidation, "to, subject and a text or html body are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Mail.Send(ctx, mailer.Email{
		To:       req.To,
		Subject:  req.Subject,
		TextBody: req.Text,
		HTMLBody: req.HTML,
	}); err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.Wrap(apperr.KindUpstream, "email delivery failed", err))
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "sent"})
}

// Verify handles GET /email/verify?token=.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "token is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByVerificationToken(ctx, token)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	if u.Verified {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindConflict, "account already verified"))
		return
	}
	if err := h.Users.MarkVerified(ctx, token); err != nil {
		httpjson.WriteDomainError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "verified"})
}
