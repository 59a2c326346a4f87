package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/Austinekay/mainserver/internal/interfaces/http/common"
)

func (h *Handler) settingsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		settings, err := h.settings.All(ctx)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		items := make([]adminSettingResponse, 0, len(settings))
		for _, setting := range settings {
			items = append(items, adminSettingDomainToResponse(setting))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

// settingsUpdateHandler upserts every key in the request body in one call.
func (h *Handler) settingsUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var req adminSettingsUpdateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, common.ErrorPayload{Message: "invalid JSON body"})
			return
		}
		if len(req.Settings) == 0 {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, common.ErrorPayload{Message: "settings object is required"})
			return
		}

		items := make([]adminSettingResponse, 0, len(req.Settings))
		for key, value := range req.Settings {
			setting, err := h.settings.Set(ctx, key, value)
			if err != nil {
				common.WriteError(h.logger, w, err)
				return
			}
			items = append(items, adminSettingDomainToResponse(*setting))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}
