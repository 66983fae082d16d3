package booking

import (
	"context"
	"fmt"
)

// AssignBookings stamps an agent on a batch of bookings atomically.
// The batch either assigns completely or not at all: unknown ids and
// already-assigned bookings both reject the whole request, and the
// targeted rows stay locked from the conflict check through the write
// so no booking can be claimed in between. The returned slice holds
// the ids actually written, after dropping zeros and duplicates, so
// callers report the real assignment count rather than the raw request
// length.
func (s *Service) AssignBookings(ctx context.Context, bookingIDs []uint64, agentID uint64) ([]uint64, error) {
	ids := dedupIDs(bookingIDs)
	if len(ids) == 0 {
		return nil, &ValidationError{Field: "booking_ids", Reason: "at least one booking id is required"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ok, err := s.staff.ExistsTx(ctx, tx, agentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAgentNotFound
	}

	rows, err := s.bookings.LockForAssignmentTx(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uint64]bool, len(rows))
	var conflicted []uint64
	for _, row := range rows {
		found[row.ID] = true
		if row.BookedBy != nil {
			conflicted = append(conflicted, row.ID)
		}
	}
	var missing []uint64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingBookingsError{IDs: missing}
	}
	if len(conflicted) > 0 {
		parties, err := s.bookings.ConflictPartiesTx(ctx, tx, conflicted)
		if err != nil {
			return nil, err
		}
		return nil, &AlreadyAssignedError{Conflicts: parties}
	}

	affected, err := s.bookings.AssignTx(ctx, tx, ids, agentID)
	if err != nil {
		return nil, err
	}
	if affected != int64(len(ids)) {
		return nil, fmt.Errorf("assignment affected %d of %d bookings", affected, len(ids))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return ids, nil
}

// dedupIDs drops zero and repeated ids while keeping first-seen order.
func dedupIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
