package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so the relay
// can route them to different retention tiers.
type EventCategory string

const (
	// CategoryCompliance covers HR-record changes that must be retained:
	// window edits, grants and revocations of late-submission exceptions.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine lifecycle activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so the outbox and in-memory stores can share it.
type Event struct {
	Category   EventCategory
	Timestamp  time.Time
	Action     string
	CycleID    string
	EmployeeID string
	// Subject identifies the record acted on, e.g. "q2" or a permission ID.
	Subject   string
	Decision  string
	Reason    string
	RequestID string
	ActorID   string
}

type AuditEvent string

const (
	EventCycleCreated         AuditEvent = "cycle_created"
	EventCycleStatusChanged   AuditEvent = "cycle_status_changed"
	EventCycleScheduleUpdated AuditEvent = "cycle_schedule_updated"

	EventQuarterWindowUpdated AuditEvent = "quarter_window_updated"

	EventLateSubmissionGranted     AuditEvent = "late_submission_granted"
	EventLateSubmissionReactivated AuditEvent = "late_submission_reactivated"
	EventLateSubmissionRevoked     AuditEvent = "late_submission_revoked"
	EventLateSubmissionUpdated     AuditEvent = "late_submission_updated"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventQuarterWindowUpdated:      CategoryCompliance,
	EventLateSubmissionGranted:     CategoryCompliance,
	EventLateSubmissionReactivated: CategoryCompliance,
	EventLateSubmissionRevoked:     CategoryCompliance,
	EventCycleStatusChanged:        CategoryCompliance,
	EventCycleScheduleUpdated:      CategoryCompliance,
	EventLateSubmissionUpdated:     CategoryCompliance,

	EventCycleCreated: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations writing inside a transaction
// pick it out of the context, so an event commits or rolls back with the change
// it describes.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Normalize fills Category and Timestamp when the caller left them empty.
func (e Event) Normalize(now time.Time) Event {
	if e.Category == "" {
		e.Category = AuditEvent(e.Action).Category()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	return e
}
