// Package lifecycle implements the forward-only repair stage machine.
// All status/progress/step mutations go through Apply so a booking can
// never carry a stage snapshot that disagrees with its progress value.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"campusfix/internal/models"
)

// Stage is an enumerated lifecycle position.
type Stage int

const (
	StageReceived Stage = iota
	StageDiagnosis
	StageRepair
	StageCompleted
)

var stages = []Stage{StageReceived, StageDiagnosis, StageRepair, StageCompleted}

var (
	ErrUnknownStage    = errors.New("unknown stage")
	ErrStageRegression = errors.New("stage regression is not allowed")
)

// Label returns the customer-facing status string for the stage.
func (s Stage) Label() string {
	switch s {
	case StageDiagnosis:
		return models.StatusDiagnosis
	case StageRepair:
		return models.StatusRepair
	case StageCompleted:
		return models.StatusCompleted
	default:
		return models.StatusReceived
	}
}

// Progress returns the fixed completion percentage for the stage.
func (s Stage) Progress() int {
	switch s {
	case StageDiagnosis:
		return 30
	case StageRepair:
		return 60
	case StageCompleted:
		return 100
	default:
		return 10
	}
}

// completedSteps is how many pipeline steps are finished at each stage.
// Completed marks the whole pipeline done.
func (s Stage) completedSteps() int {
	switch s {
	case StageDiagnosis:
		return 2
	case StageRepair:
		return 3
	case StageCompleted:
		return len(models.StepNames)
	default:
		return 1
	}
}

// Parse maps admin API input to a stage. Accepts both the short token and
// the display label.
func Parse(raw string) (Stage, error) {
	switch raw {
	case "received", models.StatusReceived:
		return StageReceived, nil
	case "diagnosis", models.StatusDiagnosis:
		return StageDiagnosis, nil
	case "repair", models.StatusRepair:
		return StageRepair, nil
	case "completed", models.StatusCompleted:
		return StageCompleted, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStage, raw)
	}
}

// FromStatus resolves a stored status label back to its stage.
func FromStatus(status string) (Stage, error) {
	for _, s := range stages {
		if s.Label() == status {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStage, status)
}

// Apply moves the booking to the given stage. The whole step map is
// rewritten as a snapshot: finished steps get a time label, later steps
// stay pending. Repeating the current stage is an idempotent overwrite;
// moving backwards fails. Notes are appended, never replaced.
func Apply(b *models.Booking, stage Stage, note string, now time.Time) error {
	if stage < StageReceived || stage > StageCompleted {
		return ErrUnknownStage
	}
	if stage.Progress() < b.Progress {
		return fmt.Errorf("%w: %s -> %s", ErrStageRegression, b.Status, stage.Label())
	}

	b.Status = stage.Label()
	b.Progress = stage.Progress()
	b.Steps = Snapshot(stage, now)
	b.AppendNote(note)
	b.UpdatedAt = now
	return nil
}

// Snapshot builds the full step list for a stage.
func Snapshot(stage Stage, now time.Time) []models.Step {
	done := stage.completedSteps()
	steps := make([]models.Step, 0, len(models.StepNames))
	for i, name := range models.StepNames {
		step := models.Step{Name: name}
		switch {
		case i < done:
			step.Done = true
			step.Time = now.Format("Mon 2 Jan, 3:04 PM")
		case i == done:
			step.Time = "In progress"
		default:
			step.Time = "Pending"
		}
		steps = append(steps, step)
	}
	return steps
}
