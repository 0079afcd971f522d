package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/imelnyk/bankcore/internal/domain"
)

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code domain.ErrorCode
		want int
	}{
		{domain.CodeAccountNotFound, http.StatusNotFound},
		{domain.CodeInvalidAmount, http.StatusBadRequest},
		{domain.CodeInsufficientFunds, http.StatusUnprocessableEntity},
		{domain.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusForCode(tt.code); got != tt.want {
			t.Fatalf("statusForCode(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=7&bad=x", nil)

	if got := parseIntQuery(req, "limit", 20); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := parseIntQuery(req, "bad", 20); got != 20 {
		t.Fatalf("expected default for non-numeric, got %d", got)
	}
	if got := parseIntQuery(req, "missing", 20); got != 20 {
		t.Fatalf("expected default for missing, got %d", got)
	}
}

func TestHealthHandlerWithoutDependencies(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 liveness, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 readiness with no backing stores, got %d", rec.Code)
	}
}
