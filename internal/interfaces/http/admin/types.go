package admin

import (
	"time"

	admindomain "github.com/Austinekay/mainserver/internal/admin/domain"
	publicdomain "github.com/Austinekay/mainserver/internal/public/domain"
)

type adminLocationPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type adminDayHoursPayload struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"isClosed"`
}

type adminShopResponse struct {
	ID           string                          `json:"id"`
	OwnerID      string                          `json:"ownerId,omitempty"`
	Name         string                          `json:"name"`
	Description  string                          `json:"description"`
	Address      string                          `json:"address"`
	Contact      string                          `json:"contact,omitempty"`
	Categories   []string                        `json:"categories"`
	Images       []string                        `json:"images"`
	Location     adminLocationPayload            `json:"location"`
	Approved     bool                            `json:"approved"`
	OpeningHours map[string]adminDayHoursPayload `json:"openingHours"`
	ReviewCount  int                             `json:"reviewCount"`
	CreatedAt    string                          `json:"createdAt,omitempty"`
	UpdatedAt    string                          `json:"updatedAt,omitempty"`
}

type adminShopUpdateRequest struct {
	Name         string                           `json:"name"`
	Description  string                           `json:"description"`
	Address      string                           `json:"address"`
	Contact      string                           `json:"contact"`
	Categories   []string                         `json:"categories"`
	Images       []string                         `json:"images"`
	Location     *adminLocationPayload            `json:"location"`
	OpeningHours *map[string]adminDayHoursPayload `json:"openingHours"`
	Approved     *bool                            `json:"approved"`
}

type adminSettingResponse struct {
	Key         string `json:"key"`
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type adminSettingsUpdateRequest struct {
	Settings map[string]any `json:"settings"`
}

func adminShopDomainToResponse(shop admindomain.Shop) adminShopResponse {
	return adminShopResponse{
		ID:           shop.ID,
		OwnerID:      shop.OwnerID,
		Name:         shop.Name,
		Description:  shop.Description,
		Address:      shop.Address,
		Contact:      shop.Contact,
		Categories:   shop.Categories.Strings(),
		Images:       shop.Images.Strings(),
		Location:     adminLocationPayload{Lat: shop.Location.Lat, Lng: shop.Location.Lng},
		Approved:     shop.Approved,
		OpeningHours: adminWeekHoursPayload(shop.OpeningHours),
		ReviewCount:  shop.ReviewCount,
		CreatedAt:    adminFormatTime(shop.CreatedAt),
		UpdatedAt:    adminFormatTime(shop.UpdatedAt),
	}
}

func adminWeekHoursPayload(hours publicdomain.WeekHours) map[string]adminDayHoursPayload {
	days := map[string]publicdomain.DayHours{
		"monday":    hours.Monday,
		"tuesday":   hours.Tuesday,
		"wednesday": hours.Wednesday,
		"thursday":  hours.Thursday,
		"friday":    hours.Friday,
		"saturday":  hours.Saturday,
		"sunday":    hours.Sunday,
	}
	payload := make(map[string]adminDayHoursPayload, len(days))
	for key, entry := range days {
		payload[key] = adminDayHoursPayload{Open: entry.Open, Close: entry.Close, Closed: entry.Closed}
	}
	return payload
}

func adminSettingDomainToResponse(setting admindomain.Setting) adminSettingResponse {
	return adminSettingResponse{
		Key:         setting.Key,
		Value:       setting.Value,
		Description: setting.Description,
		Category:    setting.Category,
		UpdatedAt:   adminFormatTime(setting.UpdatedAt),
	}
}

func adminFormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
