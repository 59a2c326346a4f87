package public

import (
	"time"

	"github.com/Austinekay/mainserver/internal/public/application"
	"github.com/Austinekay/mainserver/internal/public/domain"
	"github.com/Austinekay/mainserver/internal/recommend"
)

type locationPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type dayHoursPayload struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"isClosed"`
}

// weekHoursPayload is the wire shape of an opening-hours table, keyed by
// lowercase English weekday names.
type weekHoursPayload map[string]dayHoursPayload

type shopResponse struct {
	ID           string           `json:"id"`
	OwnerID      string           `json:"ownerId,omitempty"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Address      string           `json:"address"`
	Contact      string           `json:"contact,omitempty"`
	Categories   []string         `json:"categories"`
	Images       []string         `json:"images"`
	Location     locationPayload  `json:"location"`
	Approved     bool             `json:"approved"`
	OpeningHours weekHoursPayload `json:"openingHours"`
	CreatedAt    string           `json:"createdAt,omitempty"`
	UpdatedAt    string           `json:"updatedAt,omitempty"`
}

type shopListResponse struct {
	Items []shopResponse `json:"items"`
	Total int            `json:"total"`
}

type shopUpsertRequest struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Address      string            `json:"address"`
	Contact      string            `json:"contact"`
	Categories   []string          `json:"categories"`
	Images       []string          `json:"images"`
	Location     *locationPayload  `json:"location"`
	OpeningHours *weekHoursPayload `json:"openingHours"`
}

type shopStatusResponse struct {
	IsOpen      bool   `json:"isOpen"`
	Message     string `json:"message"`
	CurrentTime string `json:"currentTime"`
	CurrentDay  string `json:"currentDay"`
}

type reviewReplyPayload struct {
	Text     string `json:"text"`
	AuthorID string `json:"authorId"`
	Date     string `json:"date"`
}

type reviewResponse struct {
	ID        string              `json:"id"`
	ShopID    string              `json:"shopId"`
	UserID    string              `json:"userId"`
	UserName  string              `json:"userName,omitempty"`
	Rating    int                 `json:"rating"`
	Comment   string              `json:"comment"`
	Photos    []string            `json:"photos"`
	Reply     *reviewReplyPayload `json:"reply,omitempty"`
	CreatedAt string              `json:"createdAt"`
	UpdatedAt string              `json:"updatedAt"`
}

type reviewListResponse struct {
	Items     []reviewResponse `json:"items"`
	Total     int64            `json:"total"`
	AvgRating float64          `json:"avgRating"`
}

type reviewCreateRequest struct {
	ShopID  string   `json:"shopId"`
	Rating  int      `json:"rating"`
	Comment string   `json:"comment"`
	Photos  []string `json:"photos"`
}

type reviewUpdateRequest struct {
	Rating  int      `json:"rating"`
	Comment string   `json:"comment"`
	Photos  []string `json:"photos"`
}

type reviewReplyRequest struct {
	Text string `json:"text"`
}

// recommendRequest uses pointers so missing fields are distinguishable from
// zero values.
type recommendRequest struct {
	Query *string  `json:"query"`
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
}

type recommendResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

type notificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	ShopID    string `json:"shopId,omitempty"`
	ReviewID  string `json:"reviewId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type ownerDashboardResponse struct {
	TotalShops    int                    `json:"totalShops"`
	ApprovedShops int                    `json:"approvedShops"`
	PendingShops  int                    `json:"pendingShops"`
	TotalReviews  int64                  `json:"totalReviews"`
	ViewsToday    int64                  `json:"viewsToday"`
	ClicksToday   int64                  `json:"clicksToday"`
	Shops         []shopResponse         `json:"shops"`
	RecentReviews []reviewResponse       `json:"recentReviews"`
}

type ownerAnalyticsResponse struct {
	ShopID      string                  `json:"shopId"`
	TotalViews  int64                   `json:"totalViews"`
	TotalClicks int64                   `json:"totalClicks"`
	Daily       []application.DailyStat `json:"daily"`
}

func buildShopResponse(shop domain.Shop) shopResponse {
	return shopResponse{
		ID:           shop.ID,
		OwnerID:      shop.OwnerID,
		Name:         shop.Name,
		Description:  shop.Description,
		Address:      shop.Address,
		Contact:      shop.Contact,
		Categories:   append([]string{}, shop.Categories...),
		Images:       append([]string{}, shop.Images...),
		Location:     locationPayload{Lat: shop.Location.Lat, Lng: shop.Location.Lng},
		Approved:     shop.Approved,
		OpeningHours: buildWeekHoursPayload(shop.OpeningHours),
		CreatedAt:    formatTime(shop.CreatedAt),
		UpdatedAt:    formatTime(shop.UpdatedAt),
	}
}

func buildReviewResponse(review domain.Review) reviewResponse {
	var reply *reviewReplyPayload
	if review.Reply != nil {
		reply = &reviewReplyPayload{
			Text:     review.Reply.Text,
			AuthorID: review.Reply.AuthorID,
			Date:     formatTime(review.Reply.Date),
		}
	}
	return reviewResponse{
		ID:        review.ID,
		ShopID:    review.ShopID,
		UserID:    review.UserID,
		UserName:  review.UserName,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Photos:    append([]string{}, review.Photos...),
		Reply:     reply,
		CreatedAt: formatTime(review.CreatedAt),
		UpdatedAt: formatTime(review.UpdatedAt),
	}
}

func buildNotificationResponse(notification domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        notification.ID,
		Type:      string(notification.Type),
		Title:     notification.Title,
		Message:   notification.Message,
		Read:      notification.Read,
		ShopID:    notification.ShopID,
		ReviewID:  notification.ReviewID,
		CreatedAt: formatTime(notification.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
