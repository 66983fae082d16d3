// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published after a booking transaction commits.
// It carries enough information for downstream consumers to log, notify
// parents, or feed analytics without querying the primary database.
// EventID is a UUID assigned by the publisher for deduplication.
type BookingCreatedEvent struct {
	EventID          string `json:"event_id"`
	BookingID        uint64 `json:"booking_id"`
	Reference        string `json:"booking_reference"`
	ClassSessionID   uint64 `json:"class_session_id"`
	SessionName      string `json:"session_name"`
	VenueName        string `json:"venue_name"`
	StartsAt         string `json:"starts_at"`
	Origin           string `json:"origin"`
	ParentAccountID  uint64 `json:"parent_account_id"`
	StudentCount     uint32 `json:"student_count"`
	FirstStudentName string `json:"first_student_name"`
	CreatedAt        string `json:"created_at"`
}
