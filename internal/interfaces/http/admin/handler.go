package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/Austinekay/mainserver/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger      *log.Logger
	shopService adminapp.ShopService
	settings    adminapp.SettingsService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger      *log.Logger
	ShopService adminapp.ShopService
	Settings    adminapp.SettingsService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:      cfg.Logger,
		shopService: cfg.ShopService,
		settings:    cfg.Settings,
	}
}

// Register mounts admin routes onto router. The caller is expected to have
// applied auth and admin-role middleware already.
func (h *Handler) Register(r chi.Router) {
	r.Get("/shops", h.shopListHandler())
	r.Get("/shops/{id}", h.shopDetailHandler())
	r.Put("/shops/{id}", h.shopUpdateHandler())
	r.Put("/shops/{id}/approve", h.shopApproveHandler())
	r.Put("/shops/{id}/reject", h.shopRejectHandler())
	r.Delete("/shops/{id}", h.shopDeleteHandler())
	r.Get("/settings", h.settingsListHandler())
	r.Put("/settings", h.settingsUpdateHandler())
	r.Get("/analytics", h.analyticsHandler())
}
