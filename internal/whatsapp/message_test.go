package whatsapp

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"campusfix/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooking() *models.Booking {
	return &models.Booking{
		Code:      "CF-2024-2601",
		Name:      "Ama Boateng",
		Phone:     "+233 24 555 0134",
		Hostel:    "Unity Hall, Room 212",
		Device:    "iPhone 12",
		Issue:     "Cracked screen after a fall",
		Urgency:   models.UrgencyExpress,
		Status:    models.StatusReceived,
		Progress:  10,
		CreatedAt: time.Date(2024, 11, 4, 10, 30, 0, 0, time.UTC),
	}
}

func TestNewFormatter(t *testing.T) {
	assert.Equal(t, DefaultBusinessNumber, NewFormatter("").Number())
	assert.Equal(t, "233200000001", NewFormatter("+233200000001").Number())
	assert.Equal(t, "233200000001", NewFormatter(" 233200000001 ").Number())
}

func TestBookingMessage(t *testing.T) {
	f := NewFormatter("")
	msg, err := f.BookingMessage(sampleBooking())
	require.NoError(t, err)

	assert.Contains(t, msg, "CF-2024-2601")
	assert.Contains(t, msg, "Ama Boateng")
	assert.Contains(t, msg, "+233 24 555 0134")
	assert.Contains(t, msg, "Unity Hall, Room 212")
	assert.Contains(t, msg, "iPhone 12")
	assert.Contains(t, msg, "🟡 Express (Same day) +GH₵20")
	assert.Contains(t, msg, "Cracked screen after a fall")
	assert.Contains(t, msg, "Monday, 4 November 2024, 10:30")
}

func TestBookingMessageIsDeterministic(t *testing.T) {
	f := NewFormatter("")
	first, err := f.BookingMessage(sampleBooking())
	require.NoError(t, err)
	second, err := f.BookingMessage(sampleBooking())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBookingMessageMissingFields(t *testing.T) {
	f := NewFormatter("")

	b := sampleBooking()
	b.Phone = ""
	_, err := f.BookingMessage(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone")

	_, err = f.BookingMessage(nil)
	require.Error(t, err)
}

func TestStatusMessage(t *testing.T) {
	f := NewFormatter("")
	b := sampleBooking()
	b.Status = models.StatusRepair
	b.Progress = 60
	b.Notes = []string{"diagnosis done", "screen ordered"}

	msg, err := f.StatusMessage(b)
	require.NoError(t, err)
	assert.Contains(t, msg, "Repair In Progress (60%)")
	assert.Contains(t, msg, "screen ordered")
	assert.NotContains(t, msg, "diagnosis done", "only the latest note is shown")
}

func TestLink(t *testing.T) {
	f := NewFormatter("")
	link := f.Link("hello world & more")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/233246912468?text="), link)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "hello world & more", parsed.Query().Get("text"))
}

func TestBookingLink(t *testing.T) {
	f := NewFormatter("")
	link, err := f.BookingLink(sampleBooking())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(link, "https://wa.me/233246912468?text="))

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	decoded := parsed.Query().Get("text")
	assert.Contains(t, decoded, "CF-2024-2601")
	assert.Contains(t, decoded, "NEW PHONE REPAIR BOOKING")
}
