// Package uploadsapi issues Cloudinary upload signatures per upload context.
package uploadsapi

import (
	"net/http"

	"github.com/eventra/eventra/internal/app/system/cloudsign"
	"github.com/eventra/eventra/internal/app/system/httpjson"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// presets maps an upload context to its Cloudinary upload preset.
var presets = map[string]string{
	"post":          "eventra_post",
	"party":         "eventra_party",
	"event":         "eventra_event",
	"profile-photo": "eventra_profile",
}

type Handler struct {
	Signer *cloudsign.Signer
	Log    *zap.Logger
}

func NewHandler(signer *cloudsign.Signer, logger *zap.Logger) *Handler {
	return &Handler{Signer: signer, Log: logger}
}

// Sign handles POST /uploads/signatures/{context}.
func (h *Handler) Sign(w http.ResponseWriter, r *http.Request) {
	preset, ok := presets[chi.URLParam(r, "context")]
	if !ok {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "unknown upload context"))
		return
	}
	if h.Signer == nil {
		httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindUpstream, "upload signing not configured"))
		return
	}

	ticket, err := h.Signer.Sign(preset)
	if err != nil {
		httpjson.WriteDomainError(w, h.Log, apperr.Wrap(apperr.KindUpstream, "upload signing failed", err))
		return
	}
	httpjson.Write(w, http.StatusOK, ticket)
}
