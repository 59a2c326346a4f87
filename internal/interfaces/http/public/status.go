package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Austinekay/mainserver/internal/interfaces/http/common"
)

func (h *Handler) shopStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		now := time.Now().In(h.location)

		status, err := h.shopQueries.Status(ctx, id, now)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, shopStatusResponse{
			IsOpen:      status.IsOpen,
			Message:     status.Message,
			CurrentTime: now.Format("15:04"),
			CurrentDay:  strings.ToLower(now.Weekday().String()),
		})
	}
}
