package domain

import (
	"fmt"
	"time"
)

// DayHours describes the opening window for a single weekday.
// Open/Close are zero-padded 24-hour "HH:MM" strings, comparable
// lexicographically as time-of-day.
type DayHours struct {
	Open   string
	Close  string
	Closed bool
}

// WeekHours は曜日キーの欠損を型レベルで排除した7日固定の営業時間表。
type WeekHours struct {
	Monday    DayHours
	Tuesday   DayHours
	Wednesday DayHours
	Thursday  DayHours
	Friday    DayHours
	Saturday  DayHours
	Sunday    DayHours
}

// DefaultWeekHours returns the opening hours applied when a shop is
// created without an explicit table.
func DefaultWeekHours() WeekHours {
	weekday := DayHours{Open: "09:00", Close: "17:00"}
	weekend := DayHours{Open: "10:00", Close: "16:00"}
	return WeekHours{
		Monday:    weekday,
		Tuesday:   weekday,
		Wednesday: weekday,
		Thursday:  weekday,
		Friday:    weekday,
		Saturday:  weekend,
		Sunday:    weekend,
	}
}

// For returns the entry for the given weekday.
func (h WeekHours) For(day time.Weekday) DayHours {
	switch day {
	case time.Monday:
		return h.Monday
	case time.Tuesday:
		return h.Tuesday
	case time.Wednesday:
		return h.Wednesday
	case time.Thursday:
		return h.Thursday
	case time.Friday:
		return h.Friday
	case time.Saturday:
		return h.Saturday
	default:
		return h.Sunday
	}
}

// Set replaces the entry for the given weekday.
func (h *WeekHours) Set(day time.Weekday, entry DayHours) {
	switch day {
	case time.Monday:
		h.Monday = entry
	case time.Tuesday:
		h.Tuesday = entry
	case time.Wednesday:
		h.Wednesday = entry
	case time.Thursday:
		h.Thursday = entry
	case time.Friday:
		h.Friday = entry
	case time.Saturday:
		h.Saturday = entry
	default:
		h.Sunday = entry
	}
}

// ShopStatus is the open/closed state derived from WeekHours at an instant.
type ShopStatus struct {
	IsOpen  bool
	Message string
}

// StatusAt evaluates open/closed state against the current instant.
// No per-shop timezone conversion is performed; now must already be in the
// location the caller considers local.
func (h WeekHours) StatusAt(now time.Time) ShopStatus {
	today := h.For(now.Weekday())
	currentTime := now.Format("15:04")

	if today.Closed {
		return ShopStatus{Message: "Closed today"}
	}
	if today.Open == "" || today.Close == "" {
		return ShopStatus{Message: "Hours not available"}
	}

	switch {
	case currentTime >= today.Open && currentTime <= today.Close:
		return ShopStatus{IsOpen: true, Message: fmt.Sprintf("Open until %s", today.Close)}
	case currentTime < today.Open:
		return ShopStatus{Message: fmt.Sprintf("Opens at %s", today.Open)}
	default:
		return ShopStatus{Message: "Closed - Opens tomorrow"}
	}
}
