package access

import (
	"reflect"
	"strings"
	"testing"
)

func TestBookingVisibilityEmptySet(t *testing.T) {
	p := BookingVisibility(RoleAdmin, nil)
	if p.Clause != "FALSE" {
		t.Fatalf("clause = %q, want FALSE", p.Clause)
	}
	if len(p.Args) != 0 {
		t.Fatalf("args = %v, want none", p.Args)
	}
}

func TestBookingVisibilitySingleID(t *testing.T) {
	p := BookingVisibility(RoleAdmin, []uint64{7})
	want := "(b.booked_by IN (?) OR (b.source = 'WEBSITE' AND v.created_by IN (?)))"
	if p.Clause != want {
		t.Fatalf("clause = %q, want %q", p.Clause, want)
	}
	if !reflect.DeepEqual(p.Args, []interface{}{uint64(7), uint64(7)}) {
		t.Fatalf("args = %v", p.Args)
	}
}

func TestBookingVisibilityAgentScopedToAssignments(t *testing.T) {
	// An agent sees only bookings assigned to it. The venue-ownership
	// clause must not appear even if the account created venues while
	// holding an admin role earlier.
	p := BookingVisibility(RoleAgent, []uint64{7})
	if p.Clause != "b.booked_by IN (?)" {
		t.Fatalf("clause = %q, want booked_by only", p.Clause)
	}
	if strings.Contains(p.Clause, "created_by") || strings.Contains(p.Clause, "WEBSITE") {
		t.Fatalf("agent predicate leaks venue ownership: %q", p.Clause)
	}
	if !reflect.DeepEqual(p.Args, []interface{}{uint64(7)}) {
		t.Fatalf("args = %v, want single id", p.Args)
	}
}

func TestBookingVisibilityDedupsAndSorts(t *testing.T) {
	a := BookingVisibility(RoleSuperAdmin, []uint64{5, 3, 5, 0, 3})
	b := BookingVisibility(RoleSuperAdmin, []uint64{3, 5})
	if a.Clause != b.Clause {
		t.Fatalf("clauses differ: %q vs %q", a.Clause, b.Clause)
	}
	if !reflect.DeepEqual(a.Args, b.Args) {
		t.Fatalf("args differ: %v vs %v", a.Args, b.Args)
	}
	want := []interface{}{uint64(3), uint64(5), uint64(3), uint64(5)}
	if !reflect.DeepEqual(a.Args, want) {
		t.Fatalf("args = %v, want %v", a.Args, want)
	}
}

func TestBookingVisibilityDeterministic(t *testing.T) {
	ids := []uint64{9, 1, 4}
	first := BookingVisibility(RoleAdmin, ids)
	for i := 0; i < 10; i++ {
		again := BookingVisibility(RoleAdmin, []uint64{4, 9, 1})
		if again.Clause != first.Clause || !reflect.DeepEqual(again.Args, first.Args) {
			t.Fatalf("predicate not stable across calls")
		}
	}
}
