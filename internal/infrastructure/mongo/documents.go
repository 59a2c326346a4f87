package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Austinekay/mainserver/internal/public/domain"
)

// LocationDocument は GeoJSON Point を表す埋め込みドキュメント。
// Coordinates は [lng, lat] の順で 2dsphere インデックスの対象になる。
type LocationDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// DayHoursDocument は 1 曜日分の営業時間。
type DayHoursDocument struct {
	Open   string `bson:"open"`
	Close  string `bson:"close"`
	Closed bool   `bson:"isClosed"`
}

// WeekHoursDocument は曜日キー固定の営業時間表。
type WeekHoursDocument struct {
	Monday    DayHoursDocument `bson:"monday"`
	Tuesday   DayHoursDocument `bson:"tuesday"`
	Wednesday DayHoursDocument `bson:"wednesday"`
	Thursday  DayHoursDocument `bson:"thursday"`
	Friday    DayHoursDocument `bson:"friday"`
	Saturday  DayHoursDocument `bson:"saturday"`
	Sunday    DayHoursDocument `bson:"sunday"`
}

// ShopDocument は MongoDB 上での店舗スキーマを Go 構造体として表現したもの。
type ShopDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	OwnerID      string             `bson:"ownerId,omitempty"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description,omitempty"`
	Address      string             `bson:"address,omitempty"`
	Contact      string             `bson:"contact,omitempty"`
	Categories   []string           `bson:"categories,omitempty"`
	Images       []string           `bson:"images,omitempty"`
	Location     LocationDocument   `bson:"location"`
	Approved     bool               `bson:"approved"`
	OpeningHours WeekHoursDocument  `bson:"openingHours"`
	CreatedAt    *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt    *time.Time         `bson:"updatedAt,omitempty"`
}

// ReviewDocument はレビューのスキーマ。reply は未返信なら欠損する。
type ReviewDocument struct {
	ID        primitive.ObjectID   `bson:"_id"`
	ShopID    primitive.ObjectID   `bson:"shopId"`
	UserID    string               `bson:"userId"`
	UserName  string               `bson:"userName,omitempty"`
	Rating    int                  `bson:"rating"`
	Comment   string               `bson:"comment"`
	Photos    []string             `bson:"photos,omitempty"`
	Reply     *ReviewReplyDocument `bson:"reply,omitempty"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

// ReviewReplyDocument は店舗側からの返信 1 件分。
type ReviewReplyDocument struct {
	Text     string    `bson:"text"`
	AuthorID string    `bson:"authorId"`
	Date     time.Time `bson:"date"`
}

// NotificationDocument はアプリ内通知のスキーマ。
type NotificationDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	RecipientID string             `bson:"recipientId"`
	Type        string             `bson:"type"`
	Title       string             `bson:"title"`
	Message     string             `bson:"message"`
	Read        bool               `bson:"read"`
	ShopID      string             `bson:"shopId,omitempty"`
	ReviewID    string             `bson:"reviewId,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

// SettingDocument はプラットフォーム設定 1 件分。key でユニーク。
type SettingDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Key         string             `bson:"key"`
	Value       any                `bson:"value"`
	Description string             `bson:"description,omitempty"`
	Category    string             `bson:"category,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// AnalyticsEventDocument は閲覧/クリックイベント 1 件分。
type AnalyticsEventDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	ShopID    primitive.ObjectID `bson:"shopId"`
	Type      string             `bson:"type"`
	UserID    string             `bson:"userId,omitempty"`
	IPAddress string             `bson:"ipAddress,omitempty"`
	UserAgent string             `bson:"userAgent,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`
}

func newLocationDocument(point domain.GeoPoint) LocationDocument {
	return LocationDocument{Type: "Point", Coordinates: []float64{point.Lng, point.Lat}}
}

func mapLocationDocument(doc LocationDocument) domain.GeoPoint {
	if len(doc.Coordinates) != 2 {
		return domain.GeoPoint{}
	}
	return domain.GeoPoint{Lng: doc.Coordinates[0], Lat: doc.Coordinates[1]}
}

func newWeekHoursDocument(hours domain.WeekHours) WeekHoursDocument {
	day := func(entry domain.DayHours) DayHoursDocument {
		return DayHoursDocument{Open: entry.Open, Close: entry.Close, Closed: entry.Closed}
	}
	return WeekHoursDocument{
		Monday:    day(hours.Monday),
		Tuesday:   day(hours.Tuesday),
		Wednesday: day(hours.Wednesday),
		Thursday:  day(hours.Thursday),
		Friday:    day(hours.Friday),
		Saturday:  day(hours.Saturday),
		Sunday:    day(hours.Sunday),
	}
}

func mapWeekHoursDocument(doc WeekHoursDocument) domain.WeekHours {
	day := func(entry DayHoursDocument) domain.DayHours {
		return domain.DayHours{Open: entry.Open, Close: entry.Close, Closed: entry.Closed}
	}
	return domain.WeekHours{
		Monday:    day(doc.Monday),
		Tuesday:   day(doc.Tuesday),
		Wednesday: day(doc.Wednesday),
		Thursday:  day(doc.Thursday),
		Friday:    day(doc.Friday),
		Saturday:  day(doc.Saturday),
		Sunday:    day(doc.Sunday),
	}
}

func mapShopDocument(doc ShopDocument) domain.Shop {
	createdAt := time.Time{}
	if doc.CreatedAt != nil {
		createdAt = *doc.CreatedAt
	}
	updatedAt := time.Time{}
	if doc.UpdatedAt != nil {
		updatedAt = *doc.UpdatedAt
	}
	return domain.Shop{
		ID:           doc.ID.Hex(),
		OwnerID:      doc.OwnerID,
		Name:         doc.Name,
		Description:  doc.Description,
		Address:      doc.Address,
		Contact:      doc.Contact,
		Categories:   append([]string{}, doc.Categories...),
		Images:       append([]string{}, doc.Images...),
		Location:     mapLocationDocument(doc.Location),
		Approved:     doc.Approved,
		OpeningHours: mapWeekHoursDocument(doc.OpeningHours),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

func mapReviewDocument(doc ReviewDocument) domain.Review {
	var reply *domain.ReviewReply
	if doc.Reply != nil {
		reply = &domain.ReviewReply{
			Text:     doc.Reply.Text,
			AuthorID: doc.Reply.AuthorID,
			Date:     doc.Reply.Date,
		}
	}
	return domain.Review{
		ID:        doc.ID.Hex(),
		ShopID:    doc.ShopID.Hex(),
		UserID:    doc.UserID,
		UserName:  doc.UserName,
		Rating:    doc.Rating,
		Comment:   doc.Comment,
		Photos:    append([]string{}, doc.Photos...),
		Reply:     reply,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func mapNotificationDocument(doc NotificationDocument) domain.Notification {
	return domain.Notification{
		ID:          doc.ID.Hex(),
		RecipientID: doc.RecipientID,
		Type:        domain.NotificationType(doc.Type),
		Title:       doc.Title,
		Message:     doc.Message,
		Read:        doc.Read,
		ShopID:      doc.ShopID,
		ReviewID:    doc.ReviewID,
		CreatedAt:   doc.CreatedAt,
	}
}
