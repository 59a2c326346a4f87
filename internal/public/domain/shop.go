package domain

import (
	"fmt"
	"time"
)

// GeoPoint is a WGS-84 coordinate pair.
type GeoPoint struct {
	Lng float64
	Lat float64
}

// Validate checks the WGS-84 ranges.
func (p GeoPoint) Validate() error {
	if p.Lng < -180 || p.Lng > 180 || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("invalid coordinates: longitude must be between -180 and 180, latitude between -90 and 90")
	}
	return nil
}

// Shop represents a publicly visible business listing.
type Shop struct {
	ID           string
	OwnerID      string
	Name         string
	Description  string
	Address      string
	Contact      string
	Categories   []string
	Images       []string
	Location     GeoPoint
	Approved     bool
	OpeningHours WeekHours
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
