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

func (h *Handler) reviewListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		shopID := strings.TrimSpace(chi.URLParam(r, "id"))
		query := r.URL.Query()
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 10)
		sortKey := strings.TrimSpace(query.Get("sort"))

		reviews, total, stats, err := h.reviewQueries.ListForShop(ctx, shopID, application.Paging{
			Page:  page,
			Limit: limit,
			Sort:  sortKey,
		})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		items := make([]reviewResponse, 0, len(reviews))
		for _, review := range reviews {
			items = append(items, buildReviewResponse(review))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, reviewListResponse{
			Items:     items,
			Total:     total,
			AvgRating: stats.AvgRating,
		})
	}
}

func (h *Handler) reviewCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		user, _ := common.UserFromContext(r.Context())
		var req reviewCreateRequest
		if err := decodeBody(r, &req); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		review, err := h.reviewCommands.Submit(ctx, application.SubmitReviewCommand{
			ShopID:   strings.TrimSpace(req.ShopID),
			UserID:   user.ID,
			UserName: reviewerDisplayName(user),
			Rating:   req.Rating,
			Comment:  req.Comment,
			Photos:   req.Photos,
		})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildReviewResponse(*review))
	}
}

func (h *Handler) reviewUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		user, _ := common.UserFromContext(r.Context())
		var req reviewUpdateRequest
		if err := decodeBody(r, &req); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		review, err := h.reviewCommands.Update(ctx, id, user.ID, application.UpdateReviewCommand{
			Rating:  req.Rating,
			Comment: req.Comment,
			Photos:  req.Photos,
		})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildReviewResponse(*review))
	}
}

func (h *Handler) reviewDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		user, _ := common.UserFromContext(r.Context())
		if err := h.reviewCommands.Delete(ctx, id, user.ID, user.IsAdmin()); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Review deleted successfully"})
	}
}

func (h *Handler) reviewReplyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		user, _ := common.UserFromContext(r.Context())
		var req reviewReplyRequest
		if err := decodeBody(r, &req); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		review, err := h.reviewCommands.Reply(ctx, id, user.ID, user.IsAdmin(), req.Text)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildReviewResponse(*review))
	}
}
