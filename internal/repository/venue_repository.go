package repository

import (
	"context"
	"database/sql"
	"errors"
)

// VenueRecord mirrors the venues table. CreatedBy references the staff
// account that created the venue; it feeds the website-booking
// visibility rule and should not be exposed on public responses.
type VenueRecord struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	CreatedBy uint64 `json:"-"`
}

// ErrVenueNotFound is returned when a venue cannot be found.
var ErrVenueNotFound = errors.New("venue not found")

// VenueRepo encapsulates database queries related to venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// Create inserts a new venue and populates the generated ID.
func (r *VenueRepo) Create(ctx context.Context, v *VenueRecord) error {
	const q = `INSERT INTO venues (name, created_by) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a venue by id regardless of creator.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*VenueRecord, error) {
	const q = `SELECT id, name, created_by FROM venues WHERE id = ?`
	var v VenueRecord
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Name, &v.CreatedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// UpdateName renames a venue if it was created by the given staff
// account. sql.ErrNoRows is returned when no row is affected.
func (r *VenueRepo) UpdateName(ctx context.Context, id, createdBy uint64, name string) error {
	const q = `UPDATE venues SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND created_by = ?`
	res, err := r.db.ExecContext(ctx, q, name, id, createdBy)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListAll returns all venues ordered by id. Only id and name are
// selected; this backs the public browse endpoint.
func (r *VenueRepo) ListAll(ctx context.Context) ([]*VenueRecord, error) {
	const q = `SELECT id, name FROM venues ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*VenueRecord
	for rows.Next() {
		v := new(VenueRecord)
		if err := rows.Scan(&v.ID, &v.Name); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
