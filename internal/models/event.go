package models

import "time"

// Event is a lightweight analytics entry (button clicks, page actions).
type Event struct {
	Action    string    `json:"action"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats aggregates operator-facing numbers across the store.
type Stats struct {
	TotalBookings   int            `json:"total_bookings"`
	ByStatus        map[string]int `json:"by_status"`
	FeedbackCount   int            `json:"feedback_count"`
	AverageRating   float64        `json:"average_rating"`
	PageViews       int64          `json:"page_views"`
	CounterValue    int            `json:"counter_value"`
	LastBookingCode string         `json:"last_booking_code,omitempty"`
}
