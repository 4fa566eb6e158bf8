package httpx

import (
	"encoding/json"
	"net/http"

	"bookclub/internal/apperr"

	"github.com/rs/zerolog/log"
)

// ErrorResponse is the uniform error envelope: {"error": {"message", "status"}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err onto the uniform error envelope. Unclassified errors become
// opaque 500s; those are the only ones worth logging here.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.From(err)
	status := appErr.Status()

	if appErr.Kind == apperr.KindInternal {
		log.Error().
			Err(err).
			Str("request_id", RequestIDFrom(r)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unhandled error")
	}

	JSON(w, status, ErrorResponse{
		Error: ErrorBody{
			Message: appErr.Message,
			Status:  status,
		},
	})
}
