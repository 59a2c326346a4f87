package domain

import (
	"testing"
	"time"
)

// 2026-03-02 is a Monday.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, time.March, 2, hour, minute, 0, 0, time.UTC)
}

func TestWeekHoursStatusAt(t *testing.T) {
	hours := DefaultWeekHours() // Mon-Fri 09:00-17:00

	tests := []struct {
		name        string
		hours       WeekHours
		now         time.Time
		wantOpen    bool
		wantMessage string
	}{
		{
			name:        "one minute before opening",
			hours:       hours,
			now:         mondayAt(8, 59),
			wantOpen:    false,
			wantMessage: "Opens at 09:00",
		},
		{
			name:        "opening minute is inclusive",
			hours:       hours,
			now:         mondayAt(9, 0),
			wantOpen:    true,
			wantMessage: "Open until 17:00",
		},
		{
			name:        "closing minute is inclusive",
			hours:       hours,
			now:         mondayAt(17, 0),
			wantOpen:    true,
			wantMessage: "Open until 17:00",
		},
		{
			name:        "after closing",
			hours:       hours,
			now:         mondayAt(17, 1),
			wantOpen:    false,
			wantMessage: "Closed - Opens tomorrow",
		},
		{
			name: "closed flag wins",
			hours: func() WeekHours {
				h := DefaultWeekHours()
				h.Set(time.Monday, DayHours{Open: "09:00", Close: "17:00", Closed: true})
				return h
			}(),
			now:         mondayAt(12, 0),
			wantOpen:    false,
			wantMessage: "Closed today",
		},
		{
			name: "missing hours",
			hours: func() WeekHours {
				h := DefaultWeekHours()
				h.Set(time.Monday, DayHours{})
				return h
			}(),
			now:         mondayAt(12, 0),
			wantOpen:    false,
			wantMessage: "Hours not available",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.hours.StatusAt(tc.now)
			if got.IsOpen != tc.wantOpen {
				t.Fatalf("IsOpen = %v, want %v", got.IsOpen, tc.wantOpen)
			}
			if got.Message != tc.wantMessage {
				t.Fatalf("Message = %q, want %q", got.Message, tc.wantMessage)
			}
		})
	}
}

func TestDefaultWeekHours(t *testing.T) {
	hours := DefaultWeekHours()
	if hours.Monday.Open != "09:00" || hours.Monday.Close != "17:00" {
		t.Fatalf("unexpected weekday hours: %+v", hours.Monday)
	}
	if hours.Saturday.Open != "10:00" || hours.Saturday.Close != "16:00" {
		t.Fatalf("unexpected weekend hours: %+v", hours.Saturday)
	}
	if hours.Sunday.Closed {
		t.Fatal("default hours should not mark Sunday closed")
	}
}

func TestGeoPointValidate(t *testing.T) {
	valid := GeoPoint{Lng: 3.3792, Lat: 6.5244}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid point rejected: %v", err)
	}
	for _, point := range []GeoPoint{
		{Lng: -181, Lat: 0},
		{Lng: 181, Lat: 0},
		{Lng: 0, Lat: -91},
		{Lng: 0, Lat: 91},
	} {
		if err := point.Validate(); err == nil {
			t.Fatalf("point %+v should be rejected", point)
		}
	}
}
