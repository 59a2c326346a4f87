package domain

import "time"

// NotificationType enumerates the events surfaced to users in-app.
type NotificationType string

const (
	NotificationReview       NotificationType = "review"
	NotificationAdminMessage NotificationType = "admin_message"
	NotificationShopApproved NotificationType = "shop_approved"
	NotificationShopRejected NotificationType = "shop_rejected"
)

// Notification is an in-app message for a user. Delivery beyond the store
// (mail, push) is handled elsewhere.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Read        bool
	ShopID      string
	ReviewID    string
	CreatedAt   time.Time
}
