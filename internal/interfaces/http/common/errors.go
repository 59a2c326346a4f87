package common

import (
	"errors"
	"log"
	"net/http"

	"github.com/Austinekay/mainserver/internal/public/application"
)

// ErrorPayload is the JSON body returned for failed requests.
type ErrorPayload struct {
	Message string `json:"message"`
}

// WriteError maps application errors onto HTTP statuses and writes the
// JSON error body. Unknown errors become opaque 500s and get logged.
func WriteError(logger *log.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidQuery):
		WriteJSON(logger, w, http.StatusBadRequest, ErrorPayload{Message: trimSentinel(err)})
	case errors.Is(err, application.ErrNotFound):
		WriteJSON(logger, w, http.StatusNotFound, ErrorPayload{Message: trimSentinel(err)})
	case errors.Is(err, application.ErrForbidden):
		WriteJSON(logger, w, http.StatusForbidden, ErrorPayload{Message: trimSentinel(err)})
	case errors.Is(err, application.ErrDuplicate):
		WriteJSON(logger, w, http.StatusBadRequest, ErrorPayload{Message: trimSentinel(err)})
	case errors.Is(err, application.ErrConfiguration):
		WriteJSON(logger, w, http.StatusInternalServerError, ErrorPayload{Message: "API configuration error"})
	case errors.Is(err, application.ErrUpstream):
		WriteJSON(logger, w, http.StatusInternalServerError, ErrorPayload{Message: "Failed to get recommendations"})
	default:
		if logger != nil {
			logger.Printf("ハンドラ内部エラー: %v", err)
		}
		WriteJSON(logger, w, http.StatusInternalServerError, ErrorPayload{Message: "Internal server error"})
	}
}

// trimSentinel drops the "%w: " prefix so the client sees only the detail.
func trimSentinel(err error) string {
	message := err.Error()
	for _, sentinel := range []error{
		application.ErrInvalidQuery,
		application.ErrNotFound,
		application.ErrForbidden,
		application.ErrDuplicate,
	} {
		prefix := sentinel.Error() + ": "
		if len(message) > len(prefix) && message[:len(prefix)] == prefix {
			return message[len(prefix):]
		}
	}
	return message
}
