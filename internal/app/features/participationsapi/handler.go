// Package participationsapi registers users to events and parties.
package participationsapi

import (
	"context"
	"net/http"

	participationstore "github.com/eventra/eventra/internal/app/store/participations"
	userstore "github.com/eventra/eventra/internal/app/store/users"
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/app/system/httpjson"
	"github.com/eventra/eventra/internal/app/system/timeouts"
	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Events  *participationstore.Store
	Parties *participationstore.Store
	Users   *userstore.Store
	Log     *zap.Logger
}

func NewHandler(events, parties *participationstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Events: events, Parties: parties, Users: users, Log: logger}
}

func (h *Handler) register(store *participationstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.CurrentUser(r)
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
			return
		}
		parentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid id"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		created, err := store.Register(ctx, p.UserID, parentID)
		if err != nil {
			httpjson.WriteDomainError(w, h.Log, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, created)
	}
}

func (h *Handler) unregister(store *participationstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.CurrentUser(r)
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
			return
		}
		parentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid id"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		if err := store.Unregister(ctx, p.UserID, parentID); err != nil {
			httpjson.WriteDomainError(w, h.Log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listParticipants returns the registered users in registration order.
func (h *Handler) listParticipants(store *participationstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			httpjson.WriteDomainError(w, h.Log, apperr.New(apperr.KindValidation, "invalid id"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		if _, err := store.Parents().GetByID(ctx, parentID); err != nil {
			httpjson.WriteDomainError(w, h.Log, err)
			return
		}

		regs, err := store.ListByParent(ctx, parentID)
		if err != nil {
			httpjson.WriteDomainError(w, h.Log, err)
			return
		}

		users := make([]models.User, 0, len(regs))
		for _, reg := range regs {
			u, err := h.Users.GetByID(ctx, reg.UserID)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindNotFound {
					// Account deleted after registering; skip.
					continue
				}
				httpjson.WriteDomainError(w, h.Log, err)
				return
			}
			users = append(users, *u)
		}
		httpjson.Write(w, http.StatusOK, users)
	}
}
