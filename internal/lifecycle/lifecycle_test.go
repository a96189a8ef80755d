package lifecycle

import (
	"testing"
	"time"

	"campusfix/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 11, 4, 14, 0, 0, 0, time.UTC)

func newBooking(t *testing.T) *models.Booking {
	t.Helper()
	b, err := models.NewBooking("CF-2024-2601", models.BookingInput{
		Name:    "Kwame Mensah",
		Phone:   "0244123456",
		Hostel:  "Katanga Hall, Room 14",
		Device:  "Samsung Galaxy A54",
		Issue:   "Battery drains in two hours",
		Urgency: "standard",
	}, testTime)
	require.NoError(t, err)
	require.NoError(t, Apply(b, StageReceived, "", testTime))
	return b
}

func TestStageLabelsAndProgress(t *testing.T) {
	assert.Equal(t, models.StatusReceived, StageReceived.Label())
	assert.Equal(t, models.StatusDiagnosis, StageDiagnosis.Label())
	assert.Equal(t, models.StatusRepair, StageRepair.Label())
	assert.Equal(t, models.StatusCompleted, StageCompleted.Label())

	assert.Equal(t, 10, StageReceived.Progress())
	assert.Equal(t, 30, StageDiagnosis.Progress())
	assert.Equal(t, 60, StageRepair.Progress())
	assert.Equal(t, 100, StageCompleted.Progress())
}

func TestApplyAdvancesSnapshot(t *testing.T) {
	b := newBooking(t)

	require.NoError(t, Apply(b, StageDiagnosis, "cracked connector found", testTime))

	assert.Equal(t, models.StatusDiagnosis, b.Status)
	assert.Equal(t, 30, b.Progress)
	require.Len(t, b.Steps, len(models.StepNames))

	assert.True(t, b.Steps[0].Done)
	assert.True(t, b.Steps[1].Done)
	assert.False(t, b.Steps[2].Done)
	assert.Equal(t, "In progress", b.Steps[2].Time)
	assert.Equal(t, "Pending", b.Steps[3].Time)
	assert.Equal(t, []string{"cracked connector found"}, b.Notes)
}

func TestApplyCompletedFinishesAllSteps(t *testing.T) {
	b := newBooking(t)

	require.NoError(t, Apply(b, StageCompleted, "", testTime))

	assert.Equal(t, 100, b.Progress)
	for _, step := range b.Steps {
		assert.True(t, step.Done, "step %s should be done", step.Name)
	}
}

func TestApplyRejectsRegression(t *testing.T) {
	b := newBooking(t)
	require.NoError(t, Apply(b, StageRepair, "", testTime))

	err := Apply(b, StageDiagnosis, "", testTime)
	require.ErrorIs(t, err, ErrStageRegression)

	// The failed transition must not have touched the record.
	assert.Equal(t, models.StatusRepair, b.Status)
	assert.Equal(t, 60, b.Progress)
}

func TestApplyRepeatIsIdempotent(t *testing.T) {
	b := newBooking(t)
	require.NoError(t, Apply(b, StageRepair, "first note", testTime))
	require.NoError(t, Apply(b, StageRepair, "second note", testTime))

	assert.Equal(t, models.StatusRepair, b.Status)
	assert.Equal(t, 60, b.Progress)
	assert.Equal(t, []string{"first note", "second note"}, b.Notes)
}

func TestApplyNotesAreAppendOnly(t *testing.T) {
	b := newBooking(t)
	require.NoError(t, Apply(b, StageDiagnosis, "note one", testTime))
	require.NoError(t, Apply(b, StageRepair, "", testTime))
	require.NoError(t, Apply(b, StageCompleted, "note two", testTime))

	assert.Equal(t, []string{"note one", "note two"}, b.Notes)
}

func TestParse(t *testing.T) {
	cases := map[string]Stage{
		"received":             StageReceived,
		"diagnosis":            StageDiagnosis,
		models.StatusDiagnosis: StageDiagnosis,
		"repair":               StageRepair,
		models.StatusRepair:    StageRepair,
		"completed":            StageCompleted,
		models.StatusCompleted: StageCompleted,
	}
	for raw, want := range cases {
		got, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := Parse("shipped")
	require.ErrorIs(t, err, ErrUnknownStage)
}

func TestFromStatus(t *testing.T) {
	stage, err := FromStatus(models.StatusRepair)
	require.NoError(t, err)
	assert.Equal(t, StageRepair, stage)

	_, err = FromStatus("Lost")
	require.ErrorIs(t, err, ErrUnknownStage)
}
