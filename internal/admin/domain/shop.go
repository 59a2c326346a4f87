package domain

import (
	"time"

	publicdomain "github.com/Austinekay/mainserver/internal/public/domain"
)

// Shop aggregates the data required for admin moderation, including the
// unapproved listings hidden from the public context.
type Shop struct {
	ID           string
	OwnerID      string
	Name         string
	Description  string
	Address      string
	Contact      string
	Categories   CategoryList
	Images       ImageURLList
	Location     Coordinates
	Approved     bool
	OpeningHours publicdomain.WeekHours
	ReviewCount  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Setting is a single process-wide configuration entry backed by the store.
type Setting struct {
	Key         string
	Value       any
	Description string
	Category    string
	UpdatedAt   time.Time
}
