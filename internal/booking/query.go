package booking

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/class-session-booking/internal/access"
	"github.com/iliyamo/class-session-booking/internal/repository"
)

// ListQuery carries the optional filters for a staff booking list.
// StudentName is a case-insensitive substring match applied here after
// retrieval; the remaining filters are pushed into SQL.
type ListQuery struct {
	Filters     repository.ListFilters
	StudentName string
}

// ListResult is a filtered page of bookings with the total count after
// filtering.
type ListResult struct {
	Bookings   []*repository.BookingDetail `json:"bookings"`
	TotalCount int                         `json:"total_count"`
}

// ListBookings returns the bookings visible to the given staff caller.
// The caller's role decides the managed staff set, and one predicate
// derived from that set scopes the query; there is no separate
// admin-wide code path.
func (s *Service) ListBookings(ctx context.Context, callerID uint64, q ListQuery) (*ListResult, error) {
	pred, err := s.visibilityFor(ctx, callerID)
	if err != nil {
		return nil, err
	}
	details, err := s.bookings.List(ctx, pred, q.Filters)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(q.StudentName); name != "" {
		details = filterByStudentName(details, name)
	}
	return &ListResult{Bookings: details, TotalCount: len(details)}, nil
}

// GetBookingByID returns one booking under the caller's visibility
// predicate. A booking outside the caller's scope is reported exactly
// like a missing one.
func (s *Service) GetBookingByID(ctx context.Context, callerID, bookingID uint64) (*repository.BookingDetail, error) {
	pred, err := s.visibilityFor(ctx, callerID)
	if err != nil {
		return nil, err
	}
	d, err := s.bookings.GetByID(ctx, pred, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFoundOrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// visibilityFor resolves the caller's staff record and managed set into
// the SQL predicate shared by every staff read.
func (s *Service) visibilityFor(ctx context.Context, callerID uint64) (access.Predicate, error) {
	caller, err := s.staff.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return access.Predicate{}, ErrNotFoundOrUnauthorized
		}
		return access.Predicate{}, err
	}
	role, err := access.ParseRole(caller.Role)
	if err != nil {
		return access.Predicate{}, err
	}
	managed, err := s.staff.ManagedAdminIDs(ctx, caller)
	if err != nil {
		return access.Predicate{}, err
	}
	return access.BookingVisibility(role, managed), nil
}

// filterByStudentName keeps bookings where any student's full name
// contains the query, case-insensitively.
func filterByStudentName(details []*repository.BookingDetail, name string) []*repository.BookingDetail {
	needle := strings.ToLower(name)
	out := make([]*repository.BookingDetail, 0, len(details))
	for _, d := range details {
		for _, st := range d.Students {
			full := strings.ToLower(st.FirstName + " " + st.LastName)
			if strings.Contains(full, needle) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
