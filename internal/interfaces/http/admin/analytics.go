package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/Austinekay/mainserver/internal/interfaces/http/common"
)

func (h *Handler) analyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		stats, err := h.shopService.Stats(ctx)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, stats)
	}
}
