package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() BookingInput {
	return BookingInput{
		Name:    "Ama Boateng",
		Phone:   "+233 24 555 0134",
		Hostel:  "Unity Hall, Room 212",
		Device:  "iPhone 12",
		Issue:   "Cracked screen after a fall",
		Urgency: "express",
	}
}

func TestBookingInputValidate(t *testing.T) {
	t.Run("valid input passes and is trimmed", func(t *testing.T) {
		in := validInput()
		in.Name = "  Ama Boateng  "
		in.Urgency = " Express "

		require.NoError(t, in.Validate())
		assert.Equal(t, "Ama Boateng", in.Name)
		assert.Equal(t, "express", in.Urgency)
	})

	t.Run("missing name is reported", func(t *testing.T) {
		in := validInput()
		in.Name = "   "

		err := in.Validate()
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "Full name is required")
	})

	t.Run("short phone is rejected", func(t *testing.T) {
		in := validInput()
		in.Phone = "12345"

		err := in.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Please enter a valid phone number")
	})

	t.Run("phone with letters is rejected", func(t *testing.T) {
		in := validInput()
		in.Phone = "+233 CALL ME NOW"

		require.Error(t, in.Validate())
	})

	t.Run("all empty collects every field error", func(t *testing.T) {
		in := BookingInput{}

		err := in.Validate()
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 5)
	})

	t.Run("unknown urgency is rejected", func(t *testing.T) {
		in := validInput()
		in.Urgency = "yesterday"

		err := in.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown urgency level")
	})
}

func TestNewBooking(t *testing.T) {
	now := time.Date(2024, 11, 4, 10, 30, 0, 0, time.UTC)

	t.Run("carries validated fields", func(t *testing.T) {
		b, err := NewBooking("CF-2024-2601", validInput(), now)
		require.NoError(t, err)

		assert.Equal(t, "CF-2024-2601", b.Code)
		assert.Equal(t, "Ama Boateng", b.Name)
		assert.Equal(t, UrgencyExpress, b.Urgency)
		assert.Equal(t, now, b.CreatedAt)
		assert.NotEmpty(t, b.EstimatedCompletion)
	})

	t.Run("urgency defaults to standard", func(t *testing.T) {
		in := validInput()
		in.Urgency = ""

		b, err := NewBooking("CF-2024-2602", in, now)
		require.NoError(t, err)
		assert.Equal(t, UrgencyStandard, b.Urgency)
	})

	t.Run("invalid input returns no booking", func(t *testing.T) {
		in := validInput()
		in.Device = ""

		b, err := NewBooking("CF-2024-2603", in, now)
		require.Error(t, err)
		assert.Nil(t, b)
	})
}

func TestAppendNote(t *testing.T) {
	b := &Booking{}
	b.AppendNote("diagnosis started")
	b.AppendNote("   ")
	b.AppendNote("part ordered")

	assert.Equal(t, []string{"diagnosis started", "part ordered"}, b.Notes)
}

func TestUrgency(t *testing.T) {
	t.Run("parse accepts known levels", func(t *testing.T) {
		for _, raw := range []string{"standard", "express", "emergency"} {
			u, err := ParseUrgency(raw)
			require.NoError(t, err)
			assert.Equal(t, Urgency(raw), u)
		}
	})

	t.Run("parse rejects unknown levels", func(t *testing.T) {
		_, err := ParseUrgency("asap")
		require.Error(t, err)
	})

	t.Run("display labels carry surcharge", func(t *testing.T) {
		assert.Equal(t, "🟢 Standard (2-3 days)", UrgencyStandard.Display())
		assert.Equal(t, "🟡 Express (Same day) +GH₵20", UrgencyExpress.Display())
		assert.Equal(t, "🔴 Emergency (4-6 hours) +GH₵50", UrgencyEmergency.Display())
	})

	t.Run("surcharges match display labels", func(t *testing.T) {
		assert.Equal(t, 0, UrgencyStandard.SurchargeGHS())
		assert.Equal(t, 20, UrgencyExpress.SurchargeGHS())
		assert.Equal(t, 50, UrgencyEmergency.SurchargeGHS())
	})
}

func TestNewFeedback(t *testing.T) {
	now := time.Now()

	fb, err := NewFeedback("CF-2024-2599", 5, "Great service", now)
	require.NoError(t, err)
	assert.NotEmpty(t, fb.ID)
	assert.Equal(t, "CF-2024-2599", fb.Code)
	assert.Equal(t, 5, fb.Rating)

	for _, rating := range []int{0, -1, 6} {
		_, err := NewFeedback("CF-2024-2599", rating, "", now)
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
}
