package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Austinekay/mainserver/internal/interfaces/http/common"
	"github.com/Austinekay/mainserver/internal/public/application"
)

func (h *Handler) notificationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		user, _ := common.UserFromContext(r.Context())
		page, _ := common.ParsePositiveInt(r.URL.Query().Get("page"), 1)
		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), 20)

		notifications, err := h.notifications.FindByRecipient(ctx, user.ID, application.Paging{Page: page, Limit: limit})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		items := make([]notificationResponse, 0, len(notifications))
		for _, notification := range notifications {
			items = append(items, buildNotificationResponse(notification))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) notificationReadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		user, _ := common.UserFromContext(r.Context())
		if err := h.notifications.MarkRead(ctx, id, user.ID); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
	}
}
