package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Austinekay/mainserver/internal/interfaces/http/common"
	"github.com/Austinekay/mainserver/internal/recommend"
)

func (h *Handler) recommendHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// 外部ランキング呼び出しを含むため他より長めのタイムアウト。
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		var req recommendRequest
		if err := decodeBody(r, &req); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		if req.Query == nil || strings.TrimSpace(*req.Query) == "" || req.Lat == nil || req.Lng == nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, common.ErrorPayload{Message: "Query and location are required"})
			return
		}

		recommendations, err := h.pipeline.Recommend(ctx, recommend.Query{
			Query: strings.TrimSpace(*req.Query),
			Lat:   *req.Lat,
			Lng:   *req.Lng,
		})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, recommendResponse{Recommendations: recommendations})
	}
}
