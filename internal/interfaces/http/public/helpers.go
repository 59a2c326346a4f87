package public

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Austinekay/mainserver/internal/interfaces/http/common"
	"github.com/Austinekay/mainserver/internal/public/application"
	"github.com/Austinekay/mainserver/internal/public/domain"
)

var weekdayKeys = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var weekdayOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// decodeBody decodes a size-limited JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, common.MaxRequestBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", application.ErrInvalidQuery)
	}
	return nil
}

func buildWeekHoursPayload(hours domain.WeekHours) weekHoursPayload {
	payload := make(weekHoursPayload, len(weekdayOrder))
	for _, key := range weekdayOrder {
		entry := hours.For(weekdayKeys[key])
		payload[key] = dayHoursPayload{Open: entry.Open, Close: entry.Close, Closed: entry.Closed}
	}
	return payload
}

// parseWeekHours validates weekday keys and time formats. Unknown keys are
// rejected rather than ignored so typos surface immediately.
func parseWeekHours(payload weekHoursPayload) (*domain.WeekHours, error) {
	hours := domain.DefaultWeekHours()
	for key, entry := range payload {
		day, ok := weekdayKeys[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", application.ErrInvalidQuery, key)
		}
		if !entry.Closed {
			if err := validateTimeOfDay(entry.Open); err != nil {
				return nil, err
			}
			if err := validateTimeOfDay(entry.Close); err != nil {
				return nil, err
			}
		}
		hours.Set(day, domain.DayHours{Open: entry.Open, Close: entry.Close, Closed: entry.Closed})
	}
	return &hours, nil
}

func validateTimeOfDay(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("%w: invalid time %q (expected HH:MM)", application.ErrInvalidQuery, value)
	}
	return nil
}

func applicationInvalid(message string) error {
	return fmt.Errorf("%w: %s", application.ErrInvalidQuery, message)
}

// clientIP prefers the forwarded address set by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func reviewerDisplayName(user common.AuthenticatedUser) string {
	name := strings.TrimSpace(user.Name)
	if name != "" {
		return name
	}
	return "Anonymous"
}
