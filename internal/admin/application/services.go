package application

import (
	"context"

	admindomain "github.com/Austinekay/mainserver/internal/admin/domain"
	publicdomain "github.com/Austinekay/mainserver/internal/public/domain"
)

// ShopRepository exposes admin operations on shops, unapproved included.
type ShopRepository interface {
	Find(ctx context.Context, filter ShopFilter, paging Paging) ([]admindomain.Shop, error)
	FindByID(ctx context.Context, id string) (*admindomain.Shop, error)
	Update(ctx context.Context, shop *admindomain.Shop) error
	SetApproval(ctx context.Context, id string, approved bool) (*admindomain.Shop, error)
	Delete(ctx context.Context, id string) error
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	CountAll(ctx context.Context) (int64, error)
	CountApproved(ctx context.Context) (int64, error)
}

// SettingsRepository persists runtime settings as key/value documents.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*admindomain.Setting, error)
	All(ctx context.Context) ([]admindomain.Setting, error)
	Upsert(ctx context.Context, key string, value any) (*admindomain.Setting, error)
	EnsureDefaults(ctx context.Context, defaults []admindomain.Setting) error
}

// NotificationWriter publishes moderation outcomes to shop owners.
type NotificationWriter interface {
	Create(ctx context.Context, notification *publicdomain.Notification) error
}

// ShopFilter expresses admin search criteria.
type ShopFilter struct {
	Keyword      string
	Category     string
	ApprovedOnly bool
	PendingOnly  bool
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// CategoryCount is one category's share of the directory.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PlatformStats summarizes the directory for the admin dashboard.
type PlatformStats struct {
	TotalShops    int64           `json:"totalShops"`
	ApprovedShops int64           `json:"approvedShops"`
	PendingShops  int64           `json:"pendingShops"`
	TopCategories []CategoryCount `json:"topCategories"`
}

// ShopService describes admin shop moderation use-cases.
type ShopService interface {
	List(ctx context.Context, filter ShopFilter, paging Paging) ([]admindomain.Shop, error)
	Detail(ctx context.Context, id string) (*admindomain.Shop, error)
	Update(ctx context.Context, id string, cmd UpdateShopCommand) (*admindomain.Shop, error)
	Approve(ctx context.Context, id string) (*admindomain.Shop, error)
	Reject(ctx context.Context, id string) (*admindomain.Shop, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (PlatformStats, error)
}

// UpdateShopCommand contains admin inputs for updating any shop.
type UpdateShopCommand struct {
	Name         string
	Description  string
	Address      string
	Contact      string
	Categories   []string
	Images       []string
	Location     *admindomain.Coordinates
	OpeningHours *publicdomain.WeekHours
	Approved     *bool
}
