package domain

import "time"

// Review is a customer's rating of a shop. One review per user per shop.
type Review struct {
	ID        string
	ShopID    string
	UserID    string
	UserName  string
	Rating    int
	Comment   string
	Photos    []string
	Reply     *ReviewReply
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewReply is the single owner/admin response attached to a review.
type ReviewReply struct {
	Text     string
	AuthorID string
	Date     time.Time
}

// ReviewStats aggregates ratings over a shop's reviews.
type ReviewStats struct {
	AvgRating float64
	Count     int
}
