package models

// Lifecycle stage labels as shown to customers.
const (
	StatusReceived  = "Received"
	StatusDiagnosis = "Diagnosis Complete"
	StatusRepair    = "Repair In Progress"
	StatusCompleted = "Completed"
)

// Repair pipeline step names.
const (
	StepReceived  = "received"
	StepDiagnosis = "diagnosis"
	StepParts     = "parts"
	StepRepair    = "repair"
	StepTesting   = "testing"
	StepQuality   = "quality"
	StepReady     = "ready"
)

const (
	// CodePrefix starts every booking code.
	CodePrefix = "CF"

	// CodeSuffixDigits is the minimum zero-padded width of the sequence part.
	CodeSuffixDigits = 4

	// BookingCounterName keys the persisted sequence counter.
	BookingCounterName = "booking_sequence"
)

const (
	// AlertQueueSize bounds the operator-alert worker queue.
	AlertQueueSize = 256

	// EventLogLimit caps the retained analytics event log.
	EventLogLimit = 1000
)
