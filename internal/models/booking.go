package models

import (
	"regexp"
	"strings"
	"time"
)

// Step is one phase of the repair pipeline. Steps keep insertion order,
// which mirrors the physical flow of a device through the workshop.
type Step struct {
	Name string `json:"name"`
	Time string `json:"time"`
	Done bool   `json:"done"`
}

// StepNames lists the repair pipeline phases in workshop order.
var StepNames = []string{
	StepReceived,
	StepDiagnosis,
	StepParts,
	StepRepair,
	StepTesting,
	StepQuality,
	StepReady,
}

// Booking is a customer's repair request. Code is immutable once assigned.
type Booking struct {
	Code                string    `json:"code"`
	Name                string    `json:"name"`
	Phone               string    `json:"phone"`
	Hostel              string    `json:"hostel"`
	Device              string    `json:"device"`
	Issue               string    `json:"issue"`
	Urgency             Urgency   `json:"urgency"`
	Status              string    `json:"status"`
	Progress            int       `json:"progress"`
	Steps               []Step    `json:"steps"`
	Notes               []string  `json:"notes"`
	EstimatedCompletion string    `json:"estimated_completion"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// BookingInput carries the raw form fields for a new booking.
type BookingInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Hostel  string `json:"hostel"`
	Device  string `json:"device"`
	Issue   string `json:"issue"`
	Urgency string `json:"urgency"`
}

var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{10,}$`)

// Validate trims the input in place and collects user-facing field errors.
// No state may be touched while any error remains.
func (in *BookingInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Hostel = strings.TrimSpace(in.Hostel)
	in.Device = strings.TrimSpace(in.Device)
	in.Issue = strings.TrimSpace(in.Issue)
	in.Urgency = strings.TrimSpace(strings.ToLower(in.Urgency))

	var errs []string
	if in.Name == "" {
		errs = append(errs, "Full name is required")
	} else if len(in.Name) < 2 {
		errs = append(errs, "Please enter your full name")
	}
	if in.Phone == "" {
		errs = append(errs, "Phone number is required")
	} else if !phonePattern.MatchString(in.Phone) {
		errs = append(errs, "Please enter a valid phone number")
	}
	if in.Hostel == "" {
		errs = append(errs, "Hostel information is required")
	}
	if in.Device == "" {
		errs = append(errs, "Device model is required")
	}
	if in.Issue == "" {
		errs = append(errs, "Issue description is required")
	}
	if in.Urgency != "" {
		if _, err := ParseUrgency(in.Urgency); err != nil {
			errs = append(errs, "Unknown urgency level")
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// NewBooking builds a validated record from form input. The caller is
// expected to apply the initial lifecycle snapshot before persisting.
func NewBooking(code string, in BookingInput, now time.Time) (*Booking, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	urgency := UrgencyStandard
	if in.Urgency != "" {
		urgency, _ = ParseUrgency(in.Urgency)
	}

	return &Booking{
		Code:                code,
		Name:                in.Name,
		Phone:               in.Phone,
		Hostel:              in.Hostel,
		Device:              in.Device,
		Issue:               in.Issue,
		Urgency:             urgency,
		EstimatedCompletion: urgency.EstimatedCompletion(now),
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// AppendNote adds an annotation. Notes are append-only.
func (b *Booking) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	b.Notes = append(b.Notes, note)
}

// ValidationError aggregates user-facing form errors.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, ", ")
}
