// Package whatsapp renders booking records into pre-filled wa.me compose
// links. Building the message is pure; actually opening the link is left
// to whoever receives it. This is the system's only outward integration.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"campusfix/internal/models"
)

// DefaultBusinessNumber is the workshop's WhatsApp number in international
// format without the plus sign.
const DefaultBusinessNumber = "233246912468"

const baseURL = "https://wa.me/"

// Formatter builds operator-facing messages for a fixed business number.
type Formatter struct {
	number string
}

func NewFormatter(number string) *Formatter {
	number = strings.TrimSpace(strings.TrimPrefix(number, "+"))
	if number == "" {
		number = DefaultBusinessNumber
	}
	return &Formatter{number: number}
}

func (f *Formatter) Number() string {
	return f.number
}

// BookingMessage renders the operator notification for a new booking.
// Deterministic for a given record; fails instead of emitting a message
// with missing customer details.
func (f *Formatter) BookingMessage(b *models.Booking) (string, error) {
	if err := requireFields(b); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("📱 *NEW PHONE REPAIR BOOKING - CampusFix* 📱\n\n")
	sb.WriteString("👤 *CUSTOMER INFORMATION*\n")
	fmt.Fprintf(&sb, "• Booking Code: %s\n", b.Code)
	fmt.Fprintf(&sb, "• Full Name: %s\n", b.Name)
	fmt.Fprintf(&sb, "• Phone Number: %s\n", b.Phone)
	fmt.Fprintf(&sb, "• Hostel & Room: %s\n\n", b.Hostel)
	sb.WriteString("📋 *REPAIR DETAILS*\n")
	fmt.Fprintf(&sb, "• Device Model: %s\n", b.Device)
	fmt.Fprintf(&sb, "• Urgency Level: %s\n", b.Urgency.Display())
	fmt.Fprintf(&sb, "• Booking Time: %s\n\n", b.CreatedAt.Format("Monday, 2 January 2006, 15:04"))
	sb.WriteString("🔧 *ISSUE DESCRIPTION*\n")
	sb.WriteString(b.Issue)
	sb.WriteString("\n\n📍 *NEXT STEPS*\n")
	sb.WriteString("1. Contact customer to confirm details\n")
	sb.WriteString("2. Arrange hostel pickup\n")
	sb.WriteString("3. Prioritize based on urgency level\n")
	fmt.Fprintf(&sb, "• Estimated: %s", b.Urgency.Turnaround())

	return sb.String(), nil
}

// StatusMessage renders a stage-change notification.
func (f *Formatter) StatusMessage(b *models.Booking) (string, error) {
	if err := requireFields(b); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("🔧 *REPAIR STATUS UPDATE - CampusFix*\n\n")
	fmt.Fprintf(&sb, "• Booking Code: %s\n", b.Code)
	fmt.Fprintf(&sb, "• Customer: %s (%s)\n", b.Name, b.Phone)
	fmt.Fprintf(&sb, "• Device: %s\n", b.Device)
	fmt.Fprintf(&sb, "• Status: %s (%d%%)\n", b.Status, b.Progress)
	if len(b.Notes) > 0 {
		fmt.Fprintf(&sb, "• Latest note: %s\n", b.Notes[len(b.Notes)-1])
	}
	return sb.String(), nil
}

// Link URL-encodes a message into a wa.me deep link for the business
// number.
func (f *Formatter) Link(message string) string {
	return baseURL + f.number + "?text=" + url.QueryEscape(message)
}

// BookingLink is BookingMessage followed by Link.
func (f *Formatter) BookingLink(b *models.Booking) (string, error) {
	msg, err := f.BookingMessage(b)
	if err != nil {
		return "", err
	}
	return f.Link(msg), nil
}

func requireFields(b *models.Booking) error {
	if b == nil {
		return fmt.Errorf("booking is nil")
	}
	missing := []string{}
	if b.Code == "" {
		missing = append(missing, "code")
	}
	if b.Name == "" {
		missing = append(missing, "name")
	}
	if b.Phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("booking missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
