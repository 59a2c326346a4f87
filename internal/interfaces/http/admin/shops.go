package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/Austinekay/mainserver/internal/admin/application"
	admindomain "github.com/Austinekay/mainserver/internal/admin/domain"
	"github.com/Austinekay/mainserver/internal/interfaces/http/common"
	publicdomain "github.com/Austinekay/mainserver/internal/public/domain"
)

func (h *Handler) shopListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		query := r.URL.Query()
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 20)

		filter := adminapp.ShopFilter{
			Keyword:  strings.TrimSpace(query.Get("search")),
			Category: strings.TrimSpace(query.Get("category")),
		}
		switch strings.TrimSpace(query.Get("status")) {
		case "approved":
			filter.ApprovedOnly = true
		case "pending":
			filter.PendingOnly = true
		}

		shops, err := h.shopService.List(ctx, filter, adminapp.Paging{Page: page, Limit: limit})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		items := make([]adminShopResponse, 0, len(shops))
		for _, shop := range shops {
			items = append(items, adminShopDomainToResponse(shop))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items, "page": page, "limit": limit})
	}
}

func (h *Handler) shopDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		shop, err := h.shopService.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminShopDomainToResponse(*shop))
	}
}

func (h *Handler) shopUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		var req adminShopUpdateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, common.ErrorPayload{Message: "invalid JSON body"})
			return
		}

		cmd, err := buildAdminUpdateCommand(req)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, common.ErrorPayload{Message: err.Error()})
			return
		}

		shop, err := h.shopService.Update(ctx, id, cmd)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminShopDomainToResponse(*shop))
	}
}

func (h *Handler) shopApproveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		shop, err := h.shopService.Approve(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminShopDomainToResponse(*shop))
	}
}

func (h *Handler) shopRejectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		shop, err := h.shopService.Reject(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminShopDomainToResponse(*shop))
	}
}

func (h *Handler) shopDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if err := h.shopService.Delete(ctx, id); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Shop deleted successfully"})
	}
}

func buildAdminUpdateCommand(req adminShopUpdateRequest) (adminapp.UpdateShopCommand, error) {
	cmd := adminapp.UpdateShopCommand{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Address:     strings.TrimSpace(req.Address),
		Contact:     strings.TrimSpace(req.Contact),
		Categories:  req.Categories,
		Images:      req.Images,
		Approved:    req.Approved,
	}
	if req.Location != nil {
		location, err := admindomain.NewCoordinates(req.Location.Lng, req.Location.Lat)
		if err != nil {
			return adminapp.UpdateShopCommand{}, err
		}
		cmd.Location = &location
	}
	if req.OpeningHours != nil {
		hours, err := parseAdminWeekHours(*req.OpeningHours)
		if err != nil {
			return adminapp.UpdateShopCommand{}, err
		}
		cmd.OpeningHours = hours
	}
	return cmd, nil
}

func parseAdminWeekHours(payload map[string]adminDayHoursPayload) (*publicdomain.WeekHours, error) {
	weekdays := map[string]time.Weekday{
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
		"sunday":    time.Sunday,
	}
	hours := publicdomain.DefaultWeekHours()
	for key, entry := range payload {
		day, ok := weekdays[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			return nil, &weekdayError{key: key}
		}
		if _, err := admindomain.NewTimeOfDay(entry.Open); err != nil {
			return nil, err
		}
		if _, err := admindomain.NewTimeOfDay(entry.Close); err != nil {
			return nil, err
		}
		hours.Set(day, publicdomain.DayHours{Open: entry.Open, Close: entry.Close, Closed: entry.Closed})
	}
	return &hours, nil
}

type weekdayError struct{ key string }

func (e *weekdayError) Error() string { return "unknown weekday: " + e.key }
