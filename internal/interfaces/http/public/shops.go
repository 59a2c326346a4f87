package public

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Austinekay/mainserver/internal/interfaces/http/common"
	"github.com/Austinekay/mainserver/internal/public/application"
	"github.com/Austinekay/mainserver/internal/public/domain"
)

const defaultSearchRadiusMeters = 5000

func (h *Handler) shopListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		query := r.URL.Query()
		latParam := strings.TrimSpace(query.Get("lat"))
		lngParam := strings.TrimSpace(query.Get("lng"))

		// 座標が付いていれば近傍検索、無ければ通常の絞り込み一覧。
		if latParam != "" || lngParam != "" {
			h.searchNearby(ctx, w, query)
			return
		}

		filter := application.ShopFilter{
			Search:   strings.TrimSpace(query.Get("search")),
			Category: strings.TrimSpace(query.Get("category")),
		}
		shops, err := h.shopQueries.List(ctx, filter)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		writeShopList(h, w, shops)
	}
}

func (h *Handler) searchNearby(ctx context.Context, w http.ResponseWriter, query map[string][]string) {
	get := func(key string) string {
		values := query[key]
		if len(values) == 0 {
			return ""
		}
		return strings.TrimSpace(values[0])
	}
	lat, latErr := strconv.ParseFloat(get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(get("lng"), 64)
	if latErr != nil || lngErr != nil {
		common.WriteJSON(h.logger, w, http.StatusBadRequest, common.ErrorPayload{Message: "lat and lng must be numbers"})
		return
	}
	radius := defaultSearchRadiusMeters
	if parsed, ok := common.ParsePositiveInt(get("radius"), defaultSearchRadiusMeters); ok {
		radius = parsed
	}
	limit, _ := common.ParsePositiveInt(get("limit"), 20)

	shops, err := h.shopQueries.SearchNearby(ctx, application.GeoQuery{
		Lat:          lat,
		Lng:          lng,
		RadiusMeters: radius,
		Category:     get("category"),
		Text:         get("search"),
		Limit:        limit,
	})
	if err != nil {
		common.WriteError(h.logger, w, err)
		return
	}
	writeShopList(h, w, shops)
}

func writeShopList(h *Handler, w http.ResponseWriter, shops []domain.Shop) {
	items := make([]shopResponse, 0, len(shops))
	for _, shop := range shops {
		items = append(items, buildShopResponse(shop))
	}
	common.WriteJSON(h.logger, w, http.StatusOK, shopListResponse{Items: items, Total: len(items)})
}

func (h *Handler) shopDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		shop, err := h.shopQueries.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		// 閲覧イベントは失敗しても応答を妨げない。
		if err := h.analytics.Record(ctx, application.AnalyticsEvent{
			ShopID:    shop.ID,
			Type:      "view",
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		}); err != nil {
			h.logger.Printf("閲覧イベントの記録に失敗 shop=%s err=%v", shop.ID, err)
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildShopResponse(*shop))
	}
}

func (h *Handler) shopClickHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		shop, err := h.shopQueries.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		userID := ""
		if user, ok := common.UserFromContext(r.Context()); ok {
			userID = user.ID
		}
		if err := h.analytics.Record(ctx, application.AnalyticsEvent{
			ShopID:    shop.ID,
			Type:      "click",
			UserID:    userID,
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		}); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Click tracked"})
	}
}

func (h *Handler) shopsByOwnerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ownerID := strings.TrimSpace(chi.URLParam(r, "ownerId"))
		user, _ := common.UserFromContext(r.Context())
		if user.ID != ownerID && !user.IsAdmin() {
			common.WriteJSON(h.logger, w, http.StatusForbidden, common.ErrorPayload{Message: "You can only view your own shops"})
			return
		}

		shops, err := h.shopQueries.ByOwner(ctx, ownerID)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		writeShopList(h, w, shops)
	}
}

func (h *Handler) shopCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		user, _ := common.UserFromContext(r.Context())
		cmd, err := h.decodeShopRequest(ctx, r)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		cmd.OwnerID = user.ID

		shop, err := h.shopCommands.Create(ctx, cmd)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildShopResponse(*shop))
	}
}

func (h *Handler) shopUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		user, _ := common.UserFromContext(r.Context())
		cmd, err := h.decodeShopRequest(ctx, r)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		shop, err := h.shopCommands.Update(ctx, id, user.ID, cmd)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildShopResponse(*shop))
	}
}

func (h *Handler) shopDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		user, _ := common.UserFromContext(r.Context())
		if err := h.shopCommands.Delete(ctx, id, user.ID, user.IsAdmin()); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Shop deleted successfully"})
	}
}

func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := common.UserFromContext(r.Context())
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"user": user})
	}
}

// decodeShopRequest accepts either a JSON body or a multipart form with
// image files attached.
func (h *Handler) decodeShopRequest(ctx context.Context, r *http.Request) (application.UpsertShopCommand, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.decodeShopMultipart(ctx, r)
	}

	var req shopUpsertRequest
	if err := decodeBody(r, &req); err != nil {
		return application.UpsertShopCommand{}, err
	}
	return h.buildShopCommand(req)
}

func (h *Handler) buildShopCommand(req shopUpsertRequest) (application.UpsertShopCommand, error) {
	cmd := application.UpsertShopCommand{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Address:     strings.TrimSpace(req.Address),
		Contact:     strings.TrimSpace(req.Contact),
		Categories:  req.Categories,
		Images:      req.Images,
	}
	if req.Location != nil {
		cmd.Location = &domain.GeoPoint{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}
	if req.OpeningHours != nil {
		hours, err := parseWeekHours(*req.OpeningHours)
		if err != nil {
			return application.UpsertShopCommand{}, err
		}
		cmd.OpeningHours = hours
	}
	return cmd, nil
}

func (h *Handler) decodeShopMultipart(ctx context.Context, r *http.Request) (application.UpsertShopCommand, error) {
	maxBytes := h.maxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return application.UpsertShopCommand{}, applicationInvalid("multipart form too large or malformed")
	}

	req := shopUpsertRequest{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
		Contact:     r.FormValue("contact"),
	}
	if raw := r.FormValue("categories"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Categories); err != nil {
			req.Categories = splitCSV(raw)
		}
	}
	if raw := r.FormValue("location"); raw != "" {
		var location locationPayload
		if err := json.Unmarshal([]byte(raw), &location); err != nil {
			return application.UpsertShopCommand{}, applicationInvalid("location must be JSON with lat and lng")
		}
		req.Location = &location
	}
	if raw := r.FormValue("openingHours"); raw != "" {
		var hours weekHoursPayload
		if err := json.Unmarshal([]byte(raw), &hours); err != nil {
			return application.UpsertShopCommand{}, applicationInvalid("openingHours must be a JSON object")
		}
		req.OpeningHours = &hours
	}

	cmd, err := h.buildShopCommand(req)
	if err != nil {
		return application.UpsertShopCommand{}, err
	}

	// 画像はサービス層の作成バリデーションより先にアップロードされる。
	// 作成が拒否された場合、アップロード済みオブジェクトは S3 に残る。
	if r.MultipartForm != nil && h.uploader != nil {
		files := r.MultipartForm.File["images"]
		if len(files) > common.MaxShopImageCount {
			return application.UpsertShopCommand{}, applicationInvalid("too many images")
		}
		for _, header := range files {
			url, err := h.uploadImage(ctx, header, maxBytes)
			if err != nil {
				return application.UpsertShopCommand{}, err
			}
			cmd.Images = append(cmd.Images, url)
		}
	}
	return cmd, nil
}

func (h *Handler) uploadImage(ctx context.Context, header *multipart.FileHeader, maxBytes int64) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", applicationInvalid("could not read uploaded image")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes))
	if err != nil {
		return "", applicationInvalid("could not read uploaded image")
	}
	return h.uploader.Upload(ctx, header.Filename, header.Header.Get("Content-Type"), data)
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
