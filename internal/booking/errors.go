// Package booking implements the core of the system: the booking
// creation transaction, the parent identity resolution policy, the
// role-scoped read model and agent assignment. Handlers call into this
// package and translate its typed errors into HTTP responses; no error
// below ever carries driver or SQL detail to the caller.
package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/class-session-booking/internal/repository"
)

// ErrNotFoundOrUnauthorized is returned when a read matches zero rows
// under the caller's visibility predicate. Missing and forbidden are
// deliberately indistinguishable so existence is not leaked.
var ErrNotFoundOrUnauthorized = errors.New("not found or unauthorized")

// ErrDuplicateIdentity is returned before the transaction opens when a
// submitted email already belongs to a conflicting account (a staff
// account, or a deactivated parent account).
var ErrDuplicateIdentity = errors.New("email already registered to a conflicting account")

// ErrAgentNotFound is returned when an assignment targets a staff id
// that does not exist or is inactive.
var ErrAgentNotFound = errors.New("agent account not found")

// ValidationError reports the first offending field of a request. It
// is always produced before any storage call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// CapacityError is returned when a class session cannot accommodate
// the requested student count. Remaining tells the caller how many
// slots were left at the time the transaction was rolled back.
type CapacityError struct {
	SessionID uint64
	Requested uint32
	Remaining uint32
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("class session %d cannot take %d more students, %d slots remaining",
		e.SessionID, e.Requested, e.Remaining)
}

// AlreadyAssignedError rejects a whole assignment batch because some
// bookings already have an agent. The conflict list names the first
// student and parent of each blocking booking for operator diagnosis.
type AlreadyAssignedError struct {
	Conflicts []repository.ConflictParty
}

func (e *AlreadyAssignedError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		p := c.StudentName
		if c.ParentName != "" {
			p += " / " + c.ParentName
		}
		parts = append(parts, fmt.Sprintf("booking %d (%s)", c.BookingID, p))
	}
	return "already assigned: " + strings.Join(parts, ", ")
}

// MissingBookingsError rejects an assignment batch naming the ids that
// did not resolve to bookings.
type MissingBookingsError struct {
	IDs []uint64
}

func (e *MissingBookingsError) Error() string {
	parts := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return "unknown booking ids: " + strings.Join(parts, ", ")
}
