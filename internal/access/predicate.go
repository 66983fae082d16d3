package access

import (
	"sort"
	"strings"
)

// Predicate is a boolean SQL fragment plus its bind arguments. It is
// appended to the WHERE clause of both the booking list query and the
// get-by-id query so a single rule decides visibility everywhere. The
// fragment assumes the aliases used by the booking repository:
// b = bookings, cs = class_sessions, v = venues.
type Predicate struct {
	Clause string
	Args   []interface{}
}

// BookingVisibility builds the visibility predicate for a caller whose
// managed staff set has already been resolved (see ManagedAdminIDs on
// the staff repository). For admin roles the rule is a disjunction of
// two clauses:
//
//   1. the booking is assigned to someone in the managed set, or
//   2. the booking came from the public website and its session's venue
//      was created by someone in the managed set.
//
// Agents get only clause 1: an agent sees bookings assigned to it and
// nothing through venue ownership, even if the account created venues
// while holding a different role. Website bookings are never visible by
// role alone; venue ownership is the gate. The ids are deduplicated and
// sorted so the same caller state always yields an identical clause and
// argument list.
func BookingVisibility(role Role, managedIDs []uint64) Predicate {
	ids := dedupSorted(managedIDs)
	if len(ids) == 0 {
		// No managed set means nothing is visible. FALSE keeps the
		// surrounding query valid.
		return Predicate{Clause: "FALSE"}
	}
	ph := placeholders(len(ids))
	args := make([]interface{}, 0, len(ids)*2)
	for _, id := range ids {
		args = append(args, id)
	}
	if role == RoleAgent {
		return Predicate{Clause: "b.booked_by IN (" + ph + ")", Args: args}
	}
	for _, id := range ids {
		args = append(args, id)
	}
	clause := "(b.booked_by IN (" + ph + ") OR (b.source = 'WEBSITE' AND v.created_by IN (" + ph + ")))"
	return Predicate{Clause: clause, Args: args}
}

func dedupSorted(ids []uint64) []uint64 {
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
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
