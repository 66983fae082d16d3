package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ClassSessionRecord mirrors the class_sessions table joined with the
// owning venue's name. It is the shape returned to browse endpoints
// and to the booking coordinator when it snapshots session details
// onto student rows.
type ClassSessionRecord struct {
	ID                uint64    `json:"id"`
	VenueID           uint64    `json:"venue_id"`
	VenueName         string    `json:"venue_name"`
	Name              string    `json:"name"`
	StartsAt          time.Time `json:"starts_at"`
	RemainingCapacity uint32    `json:"remaining_capacity"`
}

// ErrSessionNotFound is returned when a class session id does not
// resolve to a row.
var ErrSessionNotFound = errors.New("class session not found")

// SessionRepo encapsulates database access for class sessions,
// including the capacity allocator. RemainingCapacity is only ever
// decremented here, inside the caller's booking transaction.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the provided DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// DB exposes the underlying handle so coordinators can open
// transactions spanning several repositories.
func (r *SessionRepo) DB() *sql.DB { return r.db }

// Create inserts a new class session under a venue with its initial
// capacity. Used by schedule management, not by booking creation.
func (r *SessionRepo) Create(ctx context.Context, venueID uint64, name string, startsAt time.Time, capacity uint32) (uint64, error) {
	const q = `INSERT INTO class_sessions (venue_id, name, starts_at, remaining_capacity) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, venueID, name, startsAt.UTC(), capacity)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns one session with its venue name. ErrSessionNotFound
// is returned when the id does not exist.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*ClassSessionRecord, error) {
	const q = `SELECT cs.id, cs.venue_id, v.name, cs.name, cs.starts_at, cs.remaining_capacity
	           FROM class_sessions cs
	           JOIN venues v ON v.id = cs.venue_id
	           WHERE cs.id = ?`
	var s ClassSessionRecord
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.VenueID, &s.VenueName, &s.Name, &s.StartsAt, &s.RemainingCapacity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDTx is GetByID executed inside an existing transaction so the
// booking coordinator reads the session it is about to book against.
func (r *SessionRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*ClassSessionRecord, error) {
	const q = `SELECT cs.id, cs.venue_id, v.name, cs.name, cs.starts_at, cs.remaining_capacity
	           FROM class_sessions cs
	           JOIN venues v ON v.id = cs.venue_id
	           WHERE cs.id = ?`
	var s ClassSessionRecord
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.VenueID, &s.VenueName, &s.Name, &s.StartsAt, &s.RemainingCapacity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListUpcomingByVenue returns sessions starting after now for a venue,
// ordered by start time. Used by the public browse endpoints.
func (r *SessionRepo) ListUpcomingByVenue(ctx context.Context, venueID uint64) ([]*ClassSessionRecord, error) {
	const q = `SELECT cs.id, cs.venue_id, v.name, cs.name, cs.starts_at, cs.remaining_capacity
	           FROM class_sessions cs
	           JOIN venues v ON v.id = cs.venue_id
	           WHERE cs.venue_id = ? AND cs.starts_at > UTC_TIMESTAMP()
	           ORDER BY cs.starts_at`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*ClassSessionRecord
	for rows.Next() {
		s := new(ClassSessionRecord)
		if err := rows.Scan(&s.ID, &s.VenueID, &s.VenueName, &s.Name, &s.StartsAt, &s.RemainingCapacity); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReserveTx atomically takes count slots from a session as part of the
// caller's booking transaction. The decrement is conditional on enough
// capacity remaining, so two concurrent transactions can never drive
// the counter negative: the losing one matches zero rows and receives
// ErrInsufficientCapacity together with the current remaining count
// for the caller's error message. A plain read-then-write here would
// be open to lost updates under concurrency.
func (r *SessionRepo) ReserveTx(ctx context.Context, tx *sql.Tx, sessionID uint64, count uint32) (remaining uint32, err error) {
	const q = `UPDATE class_sessions
	           SET remaining_capacity = remaining_capacity - ?
	           WHERE id = ? AND remaining_capacity >= ?`
	res, err := tx.ExecContext(ctx, q, count, sessionID, count)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// Either the session vanished or there is not enough room.
		// Read the counter to tell the caller how many slots are left.
		const sel = `SELECT remaining_capacity FROM class_sessions WHERE id = ?`
		if err := tx.QueryRowContext(ctx, sel, sessionID).Scan(&remaining); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, ErrSessionNotFound
			}
			return 0, err
		}
		return remaining, ErrInsufficientCapacity
	}
	const sel = `SELECT remaining_capacity FROM class_sessions WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, sessionID).Scan(&remaining); err != nil {
		return 0, err
	}
	return remaining, nil
}
