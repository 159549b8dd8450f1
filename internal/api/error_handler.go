package api

import (
	"net/http"

	"github.com/vytor/squadpick/internal/errors"
	"github.com/vytor/squadpick/internal/logger"
)

// handleError centralizes error handling for HTTP responses.
// Validation failures use a "message" key, everything else an "error" key.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	switch {
	case appErr.Status >= 500:
		log.Error("server error: %v", appErr)
	case appErr.Status >= 400:
		log.Warn("client error: %v", appErr)
	default:
		log.Debug("error: %v", appErr)
	}

	key := "error"
	if appErr.Code == errors.ErrCodeValidation {
		key = "message"
	}
	writeJSON(w, r, appErr.Status, map[string]string{key: appErr.Message})
}
