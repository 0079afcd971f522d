package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/imelnyk/bankcore/internal/adapter/http/dto"
	"github.com/imelnyk/bankcore/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a typed error response. Domain errors map to their
// wire code and status; everything else is an internal error.
func writeError(w http.ResponseWriter, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		writeJSON(w, statusForCode(domainErr.Code), dto.ErrorResponse{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
		})
		return
	}

	if errors.Is(err, domain.ErrAccountExists) {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{
			Code:    "ACCOUNT_EXISTS",
			Message: "Account already exists",
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
	})
}

// writeBadRequest writes a malformed-request error.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Code:    "INVALID_REQUEST",
		Message: message,
	})
}

// statusForCode maps domain error codes to HTTP status codes.
func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeAccountNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidAmount:
		return http.StatusBadRequest
	case domain.CodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
