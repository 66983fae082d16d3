package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/class-session-booking/internal/access"
	"github.com/iliyamo/class-session-booking/internal/model"
)

// BookingRepo provides persistence for bookings and their dependent
// rows (students, parents, emergency contacts). All creation methods
// take a *sql.Tx: a booking and its children only ever exist as the
// outcome of one committed transaction.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for transaction-opening callers.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID on the record. A
// duplicate reference code maps to ErrReferenceExists so the caller
// can retry with a fresh code; the unique index makes collisions loud
// instead of silent.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (reference, class_session_id, parent_account_id, booked_by, source, status, student_count)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.Reference, b.ClassSessionID, b.ParentAccountID, b.BookedBy, b.Source, b.Status, b.StudentCount)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrReferenceExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// CreateStudentTx inserts one student row and populates its ID. The
// coordinator inserts students one by one because the first student's
// generated id anchors the parent and emergency contact rows.
func (r *BookingRepo) CreateStudentTx(ctx context.Context, tx *sql.Tx, s *model.Student) error {
	const q = `INSERT INTO students (booking_id, first_name, last_name, session_name, session_starts_at)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.BookingID, s.FirstName, s.LastName, s.SessionName, s.SessionStartsAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// CreateParentsBulkTx inserts multiple parent rows in a single
// statement. Every row anchors to the booking's first student.
// Passing an empty slice has no effect and returns nil.
func (r *BookingRepo) CreateParentsBulkTx(ctx context.Context, tx *sql.Tx, parents []model.Parent) error {
	if len(parents) == 0 {
		return nil
	}
	query := `INSERT INTO parents (student_id, first_name, last_name, email, phone) VALUES `
	args := make([]interface{}, 0, len(parents)*5)
	for i, p := range parents {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, p.StudentID, p.FirstName, p.LastName, p.Email, p.Phone)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CreateEmergencyContactTx inserts the optional emergency contact row.
func (r *BookingRepo) CreateEmergencyContactTx(ctx context.Context, tx *sql.Tx, e *model.EmergencyContact) error {
	const q = `INSERT INTO emergency_contacts (student_id, first_name, phone, relationship) VALUES (?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, e.StudentID, e.FirstName, e.Phone, e.Relationship)
	return err
}

// BookingParty is a parent contact attached to a booking's first
// student, as rendered in list and detail responses.
type BookingParty struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// BookingStudent is one enrolled child in a detail response.
type BookingStudent struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// BookingDetail aggregates a booking with its session, venue, students
// and parents. It is the shape consumed by staff list/detail reads.
type BookingDetail struct {
	ID              uint64           `json:"id"`
	Reference       string           `json:"reference"`
	ClassSessionID  uint64           `json:"class_session_id"`
	SessionName     string           `json:"session_name"`
	SessionStartsAt time.Time        `json:"session_starts_at"`
	VenueID         uint64           `json:"venue_id"`
	VenueName       string           `json:"venue_name"`
	ParentAccountID *uint64          `json:"parent_account_id,omitempty"`
	BookedBy        *uint64          `json:"booked_by,omitempty"`
	Source          *string          `json:"source,omitempty"`
	Status          string           `json:"status"`
	StudentCount    uint32           `json:"student_count"`
	CreatedAt       time.Time        `json:"created_at"`
	Students        []BookingStudent `json:"students"`
	Parents         []BookingParty   `json:"parents"`
}

// ListFilters narrows a visibility-scoped booking list. From/To bound
// the session start time; SessionID pins one session. The free-text
// student name filter is applied by the service after retrieval, not
// here.
type ListFilters struct {
	From      *time.Time
	To        *time.Time
	SessionID *uint64
}

const bookingSelect = `SELECT b.id, b.reference, b.class_session_id, cs.name, cs.starts_at,
	       v.id, v.name, b.parent_account_id, b.booked_by, b.source, b.status, b.student_count, b.created_at
	FROM bookings b
	JOIN class_sessions cs ON cs.id = b.class_session_id
	JOIN venues v ON v.id = cs.venue_id`

func scanBookingRow(rows interface {
	Scan(dest ...interface{}) error
}) (*BookingDetail, error) {
	var d BookingDetail
	var parentAccountID, bookedBy sql.NullInt64
	var source sql.NullString
	if err := rows.Scan(
		&d.ID, &d.Reference, &d.ClassSessionID, &d.SessionName, &d.SessionStartsAt,
		&d.VenueID, &d.VenueName, &parentAccountID, &bookedBy, &source, &d.Status, &d.StudentCount, &d.CreatedAt,
	); err != nil {
		return nil, err
	}
	if parentAccountID.Valid {
		v := uint64(parentAccountID.Int64)
		d.ParentAccountID = &v
	}
	if bookedBy.Valid {
		v := uint64(bookedBy.Int64)
		d.BookedBy = &v
	}
	if source.Valid {
		s := source.String
		d.Source = &s
	}
	d.Students = []BookingStudent{}
	d.Parents = []BookingParty{}
	return &d, nil
}

// List returns all bookings matching the caller's visibility predicate
// and the optional filters, newest first, with students and parents
// populated. The predicate clause is ANDed into the WHERE verbatim; it
// is built by access.BookingVisibility and uses the same aliases.
func (r *BookingRepo) List(ctx context.Context, pred access.Predicate, f ListFilters) ([]*BookingDetail, error) {
	query := bookingSelect + ` WHERE ` + pred.Clause
	args := append([]interface{}{}, pred.Args...)
	if f.From != nil {
		query += ` AND cs.starts_at >= ?`
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		query += ` AND cs.starts_at <= ?`
		args = append(args, f.To.UTC())
	}
	if f.SessionID != nil {
		query += ` AND b.class_session_id = ?`
		args = append(args, *f.SessionID)
	}
	query += ` ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]*BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		d, err := scanBookingRow(rows)
		if err != nil {
			return nil, err
		}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	if err := r.populateParties(ctx, details, index); err != nil {
		return nil, err
	}
	return details, nil
}

// GetByID returns a single booking, applying the same visibility
// predicate as List. A booking that exists but is outside the caller's
// scope yields sql.ErrNoRows exactly like a missing one, so callers
// cannot distinguish the two cases.
func (r *BookingRepo) GetByID(ctx context.Context, pred access.Predicate, bookingID uint64) (*BookingDetail, error) {
	query := bookingSelect + ` WHERE b.id = ? AND ` + pred.Clause
	args := append([]interface{}{bookingID}, pred.Args...)
	row := r.db.QueryRowContext(ctx, query, args...)
	d, err := scanBookingRow(row)
	if err != nil {
		return nil, err
	}
	details := []*BookingDetail{d}
	if err := r.populateParties(ctx, details, map[uint64]int{d.ID: 0}); err != nil {
		return nil, err
	}
	return d, nil
}

// populateParties loads students and parents for a set of bookings in
// two IN queries and attaches them to the matching details.
func (r *BookingRepo) populateParties(ctx context.Context, details []*BookingDetail, index map[uint64]int) error {
	ids := make([]interface{}, 0, len(details))
	ph := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		ph = append(ph, "?")
	}
	in := strings.Join(ph, ",")

	studentQ := `SELECT s.booking_id, s.id, s.first_name, s.last_name
	             FROM students s
	             WHERE s.booking_id IN (` + in + `)
	             ORDER BY s.booking_id, s.id`
	srows, err := r.db.QueryContext(ctx, studentQ, ids...)
	if err != nil {
		return err
	}
	defer srows.Close()
	for srows.Next() {
		var bid uint64
		var st BookingStudent
		if err := srows.Scan(&bid, &st.ID, &st.FirstName, &st.LastName); err != nil {
			return err
		}
		if idx, ok := index[bid]; ok {
			details[idx].Students = append(details[idx].Students, st)
		}
	}
	if err := srows.Err(); err != nil {
		return err
	}

	parentQ := `SELECT s.booking_id, p.first_name, p.last_name, p.email, p.phone
	            FROM parents p
	            JOIN students s ON s.id = p.student_id
	            WHERE s.booking_id IN (` + in + `)
	            ORDER BY s.booking_id, p.id`
	prows, err := r.db.QueryContext(ctx, parentQ, ids...)
	if err != nil {
		return err
	}
	defer prows.Close()
	for prows.Next() {
		var bid uint64
		var p BookingParty
		if err := prows.Scan(&bid, &p.FirstName, &p.LastName, &p.Email, &p.Phone); err != nil {
			return err
		}
		if idx, ok := index[bid]; ok {
			details[idx].Parents = append(details[idx].Parents, p)
		}
	}
	return prows.Err()
}

// AssignmentRow is a booking's id and current assignee as read under
// lock during agent assignment.
type AssignmentRow struct {
	ID       uint64
	BookedBy *uint64
}

// LockForAssignmentTx reads the targeted bookings FOR UPDATE so their
// booked_by values cannot change until the caller's transaction ends.
// The result may be shorter than ids when some bookings do not exist.
func (r *BookingRepo) LockForAssignmentTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]AssignmentRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		ph = append(ph, "?")
		args = append(args, id)
	}
	query := `SELECT id, booked_by FROM bookings WHERE id IN (` + strings.Join(ph, ",") + `) FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AssignmentRow
	for rows.Next() {
		var row AssignmentRow
		var bookedBy sql.NullInt64
		if err := rows.Scan(&row.ID, &bookedBy); err != nil {
			return nil, err
		}
		if bookedBy.Valid {
			v := uint64(bookedBy.Int64)
			row.BookedBy = &v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ConflictParty holds the first student and first parent names of an
// already-assigned booking, for the operator-facing rejection message.
type ConflictParty struct {
	BookingID   uint64
	StudentName string
	ParentName  string
}

// ConflictPartiesTx fetches diagnostic names for bookings that blocked
// an assignment batch.
func (r *BookingRepo) ConflictPartiesTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]ConflictParty, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		ph = append(ph, "?")
		args = append(args, id)
	}
	// First student per booking is the one with the smallest id; its
	// first parent likewise.
	query := `SELECT s.booking_id,
	                 CONCAT(s.first_name, ' ', s.last_name),
	                 COALESCE((SELECT CONCAT(p.first_name, ' ', p.last_name)
	                           FROM parents p WHERE p.student_id = s.id
	                           ORDER BY p.id LIMIT 1), '')
	          FROM students s
	          WHERE s.booking_id IN (` + strings.Join(ph, ",") + `)
	            AND s.id = (SELECT MIN(s2.id) FROM students s2 WHERE s2.booking_id = s.booking_id)`
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ConflictParty
	for rows.Next() {
		var cp ConflictParty
		if err := rows.Scan(&cp.BookingID, &cp.StudentName, &cp.ParentName); err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

// AssignTx stamps booked_by on every targeted booking. The guard on
// booked_by IS NULL makes the write a no-op for rows assigned after
// the lock check; the caller verifies the affected count matches.
func (r *BookingRepo) AssignTx(ctx context.Context, tx *sql.Tx, ids []uint64, agentID uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ph := make([]string, 0, len(ids))
	args := []interface{}{agentID}
	for _, id := range ids {
		ph = append(ph, "?")
		args = append(args, id)
	}
	query := `UPDATE bookings SET booked_by = ? WHERE id IN (` + strings.Join(ph, ",") + `) AND booked_by IS NULL`
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
