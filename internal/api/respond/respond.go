// Package respond writes the service's JSON envelopes. Failures are either
// {"message": "..."} or, for validation, {"errors": {field: message}} with
// every violated field listed.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

type messageBody struct {
	Message string `json:"message"`
}

type errorsBody struct {
	Errors map[string]string `json:"errors"`
}

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes a {"message"} envelope. Server errors are logged at error
// level with the underlying cause; the client only ever sees the generic
// message, never internal detail. Client errors log at warn.
func Error(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(message)
	}
	JSON(w, status, messageBody{Message: message})
}

// ValidationErrors writes a 400 {"errors"} envelope enumerating every
// failing field.
func ValidationErrors(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, errorsBody{Errors: fields})
}

// Convenience wrappers for the uniform security-sensitive responses.

func Unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	Error(w, r, http.StatusUnauthorized, "Unauthorized", err)
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	Error(w, r, http.StatusNotFound, "Not found", nil)
}

func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	Error(w, r, http.StatusInternalServerError, "Internal server error", err)
}
