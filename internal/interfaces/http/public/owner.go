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

func (h *Handler) ownerDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		user, _ := common.UserFromContext(r.Context())
		shops, err := h.shopQueries.ByOwner(ctx, user.ID)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		shopIDs := make([]string, 0, len(shops))
		approved := 0
		items := make([]shopResponse, 0, len(shops))
		for _, shop := range shops {
			shopIDs = append(shopIDs, shop.ID)
			if shop.Approved {
				approved++
			}
			items = append(items, buildShopResponse(shop))
		}

		totalReviews := int64(0)
		recentReviews := make([]reviewResponse, 0)
		if len(shopIDs) > 0 {
			filter := application.ReviewFilter{ShopIDs: shopIDs}
			totalReviews, err = h.reviews.Count(ctx, filter)
			if err != nil {
				common.WriteError(h.logger, w, err)
				return
			}
			latest, err := h.reviews.Find(ctx, filter, application.Paging{Page: 1, Limit: 5})
			if err != nil {
				common.WriteError(h.logger, w, err)
				return
			}
			for _, review := range latest {
				recentReviews = append(recentReviews, buildReviewResponse(review))
			}
		}

		viewsToday, err := h.analytics.CountToday(ctx, shopIDs, "view")
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		clicksToday, err := h.analytics.CountToday(ctx, shopIDs, "click")
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, ownerDashboardResponse{
			TotalShops:    len(shops),
			ApprovedShops: approved,
			PendingShops:  len(shops) - approved,
			TotalReviews:  totalReviews,
			ViewsToday:    viewsToday,
			ClicksToday:   clicksToday,
			Shops:         items,
			RecentReviews: recentReviews,
		})
	}
}

func (h *Handler) ownerAnalyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		user, _ := common.UserFromContext(r.Context())

		shop, err := h.shopQueries.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		if shop.OwnerID != user.ID && !user.IsAdmin() {
			common.WriteJSON(h.logger, w, http.StatusForbidden, common.ErrorPayload{Message: "You can only view analytics for your own shops"})
			return
		}

		days, _ := common.ParsePositiveInt(r.URL.Query().Get("period"), 7)
		totalViews, err := h.analytics.CountTotal(ctx, shop.ID, "view")
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		totalClicks, err := h.analytics.CountTotal(ctx, shop.ID, "click")
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		daily, err := h.analytics.DailyBreakdown(ctx, shop.ID, days)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, ownerAnalyticsResponse{
			ShopID:      shop.ID,
			TotalViews:  totalViews,
			TotalClicks: totalClicks,
			Daily:       daily,
		})
	}
}
