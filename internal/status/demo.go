package status

import (
	"time"

	"campusfix/internal/lifecycle"
	"campusfix/internal/models"
)

// demoRecords are hardcoded show-case bookings so the tracker can be
// demonstrated without a real submission. They are checked before the live
// store and never persisted.
var demoRecords = map[string]*models.Booking{
	"CF-2024-2581": demoBooking("CF-2024-2581", models.BookingInput{
		Name:    "Kwame Mensah",
		Phone:   "0551112233",
		Hostel:  "Unity Hall, Rm 204",
		Device:  "iPhone 12",
		Issue:   "Cracked screen replacement",
		Urgency: "express",
	}, lifecycle.StageRepair),
	"CF-2024-2599": demoBooking("CF-2024-2599", models.BookingInput{
		Name:    "Abena Owusu",
		Phone:   "0249998877",
		Hostel:  "Hall 3, Rm 12",
		Device:  "Samsung Galaxy S21",
		Issue:   "Battery drains within an hour",
		Urgency: "standard",
	}, lifecycle.StageCompleted),
	"CF-2024-2600": demoBooking("CF-2024-2600", models.BookingInput{
		Name:    "Yaw Darko",
		Phone:   "0205556677",
		Hostel:  "Brunei Complex, Rm 8",
		Device:  "Infinix Note 30",
		Issue:   "Charging port loose",
		Urgency: "emergency",
	}, lifecycle.StageDiagnosis),
}

func demoBooking(code string, in models.BookingInput, stage lifecycle.Stage) *models.Booking {
	created := time.Date(2024, time.November, 4, 10, 30, 0, 0, time.UTC)
	b, err := models.NewBooking(code, in, created)
	if err != nil {
		panic(err)
	}
	if err := lifecycle.Apply(b, stage, "", created.Add(2*time.Hour)); err != nil {
		panic(err)
	}
	return b
}
