package model

import "time"

// Origin identifies the channel a booking request arrived through.
// It drives parent-identity resolution and how bookedBy/source are
// stamped on the created booking.
type Origin string

const (
	OriginAdmin        Origin = "admin"         // staff-entered booking
	OriginParentPortal Origin = "parent-portal" // authenticated parent self-service
	OriginWebsite      Origin = "website"       // public signup form
)

// Booking statuses. Transitions beyond ACTIVE belong to the
// cancellation flow and are not handled here.
const (
	BookingStatusActive          = "ACTIVE"
	BookingStatusCancelled       = "CANCELLED"
	BookingStatusRequestToCancel = "REQUEST_TO_CANCEL"
)

// Source values stored on public-origin bookings. Staff-entered
// bookings leave the column NULL and carry booked_by instead.
const (
	SourceWebsite      = "WEBSITE"
	SourceParentPortal = "PARENT_PORTAL"
)

// Booking is the allocation record tying students to a class session.
// BookedBy starts NULL and is set at most once by agent assignment;
// it is never cleared or reassigned.
//
// Fields:
//  ID              – primary key identifier.
//  Reference       – public 8-character alphanumeric reference code (unique).
//  ClassSessionID  – target session.
//  ParentAccountID – owning parent account (null until resolved; always set after creation).
//  BookedBy        – assigned staff agent (null until assignment).
//  Source          – WEBSITE or PARENT_PORTAL for public bookings, null for staff-entered.
//  Status          – ACTIVE, CANCELLED or REQUEST_TO_CANCEL.
//  StudentCount    – number of slots this booking consumed.
//  CreatedAt       – creation timestamp.
type Booking struct {
	ID              uint64    // bookings.id
	Reference       string    // bookings.reference
	ClassSessionID  uint64    // bookings.class_session_id
	ParentAccountID *uint64   // bookings.parent_account_id (nullable)
	BookedBy        *uint64   // bookings.booked_by (nullable)
	Source          *string   // bookings.source (nullable)
	Status          string    // bookings.status
	StudentCount    uint32    // bookings.student_count
	CreatedAt       time.Time // bookings.created_at
}

// Student is one enrolled child owned by exactly one booking. Session
// name and start time are denormalized so the record stays historically
// accurate if the session is later renamed or moved.
type Student struct {
	ID              uint64    // students.id
	BookingID       uint64    // students.booking_id
	FirstName       string    // students.first_name
	LastName        string    // students.last_name
	SessionName     string    // students.session_name
	SessionStartsAt time.Time // students.session_starts_at
}

// Parent is the contact snapshot submitted with a booking. All parents
// of a booking anchor to the booking's first student, not to the
// booking itself.
type Parent struct {
	ID        uint64 // parents.id
	StudentID uint64 // parents.student_id
	FirstName string // parents.first_name
	LastName  string // parents.last_name
	Email     string // parents.email
	Phone     string // parents.phone
}

// EmergencyContact is the optional extra contact anchored to a
// booking's first student. At most one exists per booking.
type EmergencyContact struct {
	ID           uint64 // emergency_contacts.id
	StudentID    uint64 // emergency_contacts.student_id
	FirstName    string // emergency_contacts.first_name
	Phone        string // emergency_contacts.phone
	Relationship string // emergency_contacts.relationship
}
