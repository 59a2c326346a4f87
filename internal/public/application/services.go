package application

import (
	"context"
	"fmt"

	"github.com/Austinekay/mainserver/internal/public/domain"
)

// ShopRepository abstracts read/write access to shops.
// ShopRepository は Public コンテキストで店舗を読み書きするためのポート。
type ShopRepository interface {
	Find(ctx context.Context, filter ShopFilter) ([]domain.Shop, error)
	FindNearby(ctx context.Context, query GeoQuery) ([]domain.Shop, error)
	FindByID(ctx context.Context, id string) (*domain.Shop, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Create(ctx context.Context, shop *domain.Shop) error
	Update(ctx context.Context, shop *domain.Shop) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository handles review reads/writes.
type ReviewRepository interface {
	Find(ctx context.Context, filter ReviewFilter, paging Paging) ([]domain.Review, error)
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	FindByShopAndUser(ctx context.Context, shopID, userID string) (*domain.Review, error)
	Count(ctx context.Context, filter ReviewFilter) (int64, error)
	Stats(ctx context.Context, shopID string) (domain.ReviewStats, error)
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository stores and lists in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	FindByRecipient(ctx context.Context, recipientID string, paging Paging) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}

// AnalyticsRecorder records view/click events and answers owner dashboards.
type AnalyticsRecorder interface {
	Record(ctx context.Context, event AnalyticsEvent) error
	CountToday(ctx context.Context, shopIDs []string, eventType string) (int64, error)
	CountTotal(ctx context.Context, shopID, eventType string) (int64, error)
	DailyBreakdown(ctx context.Context, shopID string, days int) ([]DailyStat, error)
}

// AnalyticsEvent is a single tracked interaction with a shop listing.
type AnalyticsEvent struct {
	ShopID    string
	Type      string // "view" or "click"
	UserID    string
	IPAddress string
	UserAgent string
}

// DailyStat is one day's view/click totals for a shop.
type DailyStat struct {
	Date   string `json:"date"`
	Views  int    `json:"views"`
	Clicks int    `json:"clicks"`
}

// ShopFilter expresses public browse criteria. Proximity queries go through
// GeoQuery and FindNearby instead.
type ShopFilter struct {
	Search   string
	Category string
}

// GeoQuery is a radius search around a point, approved shops only,
// nearest-first.
type GeoQuery struct {
	Lat          float64
	Lng          float64
	RadiusMeters int
	Category     string
	Text         string
	Limit        int
}

// Validate rejects malformed geo queries before they reach the store.
func (q GeoQuery) Validate() error {
	if err := (domain.GeoPoint{Lng: q.Lng, Lat: q.Lat}).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if q.RadiusMeters <= 0 {
		return fmt.Errorf("%w: radius must be positive", ErrInvalidQuery)
	}
	return nil
}

// ReviewFilter expresses review search criteria.
type ReviewFilter struct {
	ShopID  string
	ShopIDs []string
	UserID  string
}

// Paging controls pagination and sort order.
type Paging struct {
	Page  int
	Limit int
	Sort  string
}

// Skip returns the number of documents to skip for the page.
func (p Paging) Skip() int64 {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return int64((page - 1) * p.Limit)
}
