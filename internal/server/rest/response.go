package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/devconnector/internal/common"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into dst. It writes a 400 and returns
// false on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return false
	}
	return true
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, common.ErrorValidation), errors.Is(kind, common.ErrorConflict):
		return http.StatusBadRequest
	case errors.Is(kind, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(kind, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(kind, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error to its status code and body. Field errors
// return their messages verbatim; internal failures are logged and hidden.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *common.FieldError
	if errors.As(err, &fe) {
		if status := statusFor(fe.Kind); status != http.StatusInternalServerError {
			writeJSON(w, status, fe.Fields)
			return
		}
	}

	switch status := statusFor(err); status {
	case http.StatusInternalServerError:
		s.logger.Error(r.Context(), "request failed", "error", err.Error(), "route", routeName(r), "request_id", requestIDFrom(r.Context()))
		writeJSON(w, status, errorBody("internal error"))
	case http.StatusUnauthorized:
		writeJSON(w, status, errorBody("unauthorized"))
	default:
		writeJSON(w, status, errorBody(http.StatusText(status)))
	}
}
