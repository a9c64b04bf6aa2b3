package httpjson_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eventra/eventra/internal/app/system/httpjson"
	"github.com/eventra/eventra/internal/domain/apperr"
	"go.uber.org/zap"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.New(apperr.KindValidation, "bad lat"), http.StatusBadRequest},
		{"auth", apperr.New(apperr.KindAuth, "authentication failed"), http.StatusUnauthorized},
		{"forbidden", apperr.New(apperr.KindForbidden, "not yours"), http.StatusForbidden},
		{"not found", apperr.New(apperr.KindNotFound, "event not found"), http.StatusNotFound},
		{"conflict", apperr.New(apperr.KindConflict, "already registered"), http.StatusConflict},
		{"capacity", apperr.New(apperr.KindCapacity, "capacity reached"), http.StatusConflict},
		{"upstream", apperr.New(apperr.KindUpstream, "provider down"), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := httpjson.StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteDomainError_DoesNotLeakInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.WriteDomainError(rec, zap.NewNop(), errors.New("mongo: secret connection detail"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if strings.Contains(body.Error, "secret") {
		t.Errorf("internal detail leaked: %q", body.Error)
	}
}

func TestWriteDomainError_Timeout(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.WriteDomainError(rec, zap.NewNop(), context.DeadlineExceeded)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestWriteDomainError_ClassifiedMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.WriteDomainError(rec, zap.NewNop(), apperr.New(apperr.KindNotFound, "party not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "party not found") {
		t.Errorf("body = %q, want caller-safe message", rec.Body.String())
	}
}

func TestDecode_Malformed(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader("{nope"))
	var dst map[string]string
	err := httpjson.Decode(r, &dst)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("KindOf = %v, want validation", apperr.KindOf(err))
	}
}
