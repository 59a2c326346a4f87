package public

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Austinekay/mainserver/internal/public/application"
	"github.com/Austinekay/mainserver/internal/recommend"
)

// ImageUploader stores uploaded shop images and returns their public URLs.
type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger         *log.Logger
	shopQueries    application.ShopQueryService
	shopCommands   application.ShopCommandService
	reviewQueries  application.ReviewQueryService
	reviewCommands application.ReviewCommandService
	notifications  application.NotificationRepository
	analytics      application.AnalyticsRecorder
	reviews        application.ReviewRepository
	pipeline       *recommend.Pipeline
	uploader       ImageUploader
	location       *time.Location
	maxUploadBytes int64
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger         *log.Logger
	ShopQueries    application.ShopQueryService
	ShopCommands   application.ShopCommandService
	ReviewQueries  application.ReviewQueryService
	ReviewCommands application.ReviewCommandService
	Notifications  application.NotificationRepository
	Analytics      application.AnalyticsRecorder
	Reviews        application.ReviewRepository
	Pipeline       *recommend.Pipeline
	Uploader       ImageUploader
	Location       *time.Location
	MaxUploadBytes int64
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		logger:         cfg.Logger,
		shopQueries:    cfg.ShopQueries,
		shopCommands:   cfg.ShopCommands,
		reviewQueries:  cfg.ReviewQueries,
		reviewCommands: cfg.ReviewCommands,
		notifications:  cfg.Notifications,
		analytics:      cfg.Analytics,
		reviews:        cfg.Reviews,
		pipeline:       cfg.Pipeline,
		uploader:       cfg.Uploader,
		location:       location,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Register mounts all public routes onto the router. maintenanceMiddleware
// guards write endpoints; reads stay available during maintenance.
func (h *Handler) Register(r chi.Router, authMiddleware, maintenanceMiddleware func(http.Handler) http.Handler) {
	r.Get("/shops", h.shopListHandler())
	r.Get("/shops/{id}", h.shopDetailHandler())
	r.Get("/shops/{id}/status", h.shopStatusHandler())
	r.Get("/shops/{id}/reviews", h.reviewListHandler())
	r.Post("/shops/{id}/click", h.shopClickHandler())
	r.Post("/recommend", h.recommendHandler())

	r.With(authMiddleware).Get("/shops/owner/{ownerId}", h.shopsByOwnerHandler())
	r.With(authMiddleware).Get("/auth/verify", h.authVerifyHandler())
	r.With(authMiddleware).Get("/notifications", h.notificationListHandler())
	r.With(authMiddleware).Post("/notifications/{id}/read", h.notificationReadHandler())
	r.With(authMiddleware).Get("/owner/dashboard", h.ownerDashboardHandler())
	r.With(authMiddleware).Get("/owner/shops/{id}/analytics", h.ownerAnalyticsHandler())

	r.With(authMiddleware, maintenanceMiddleware).Post("/shops", h.shopCreateHandler())
	r.With(authMiddleware, maintenanceMiddleware).Put("/shops/{id}", h.shopUpdateHandler())
	r.With(authMiddleware, maintenanceMiddleware).Delete("/shops/{id}", h.shopDeleteHandler())
	r.With(authMiddleware, maintenanceMiddleware).Post("/reviews", h.reviewCreateHandler())
	r.With(authMiddleware, maintenanceMiddleware).Put("/reviews/{id}", h.reviewUpdateHandler())
	r.With(authMiddleware, maintenanceMiddleware).Delete("/reviews/{id}", h.reviewDeleteHandler())
	r.With(authMiddleware, maintenanceMiddleware).Post("/reviews/{id}/reply", h.reviewReplyHandler())
}
