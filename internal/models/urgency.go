package models

import (
	"fmt"
	"time"
)

// Urgency determines turnaround window and surcharge.
type Urgency string

const (
	UrgencyStandard  Urgency = "standard"
	UrgencyExpress   Urgency = "express"
	UrgencyEmergency Urgency = "emergency"
)

func ParseUrgency(raw string) (Urgency, error) {
	switch Urgency(raw) {
	case UrgencyStandard, UrgencyExpress, UrgencyEmergency:
		return Urgency(raw), nil
	default:
		return "", fmt.Errorf("unknown urgency: %q", raw)
	}
}

// Display returns the customer-facing label used on the site and in
// operator messages.
func (u Urgency) Display() string {
	switch u {
	case UrgencyExpress:
		return "🟡 Express (Same day) +GH₵20"
	case UrgencyEmergency:
		return "🔴 Emergency (4-6 hours) +GH₵50"
	default:
		return "🟢 Standard (2-3 days)"
	}
}

// Turnaround returns the expected repair window.
func (u Urgency) Turnaround() string {
	switch u {
	case UrgencyExpress:
		return "Same day"
	case UrgencyEmergency:
		return "4-6 hours"
	default:
		return "2-3 days"
	}
}

// SurchargeGHS is the fee added on top of the base quote, in Ghana cedis.
func (u Urgency) SurchargeGHS() int {
	switch u {
	case UrgencyExpress:
		return 20
	case UrgencyEmergency:
		return 50
	default:
		return 0
	}
}

// EstimatedCompletion derives the display string shown to the customer at
// creation time.
func (u Urgency) EstimatedCompletion(now time.Time) string {
	switch u {
	case UrgencyExpress:
		return fmt.Sprintf("Today, %s (same day)", now.Format("Monday 2 January"))
	case UrgencyEmergency:
		return fmt.Sprintf("Within 4-6 hours (by %s)", now.Add(6*time.Hour).Format("3:04 PM"))
	default:
		return now.AddDate(0, 0, 3).Format("Monday, 2 January")
	}
}
