package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/class-session-booking/internal/access"
	"github.com/iliyamo/class-session-booking/internal/model"
)

// ErrStaffNotFound is returned when a staff account id or email does
// not resolve to a row.
var ErrStaffNotFound = errors.New("staff account not found")

// StaffRepo provides access to staff accounts and resolves the admin
// hierarchy consumed by the visibility predicate.
type StaffRepo struct{ DB *sql.DB }

// NewStaffRepo returns a StaffRepo bound to the database.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

// GetByEmail fetches a staff account by normalized email.
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (model.StaffAccount, error) {
	var s model.StaffAccount
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,full_name,role,parent_admin_id,is_active,created_at,updated_at FROM staff_accounts WHERE email=? LIMIT 1",
		NormalizeEmail(email)).Scan(&s.ID, &s.Email, &s.PasswordHash, &s.FullName, &s.Role, &s.ParentAdminID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrStaffNotFound
	}
	return s, err
}

// GetByID fetches a staff account by id.
func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (model.StaffAccount, error) {
	var s model.StaffAccount
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,full_name,role,parent_admin_id,is_active,created_at,updated_at FROM staff_accounts WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.Email, &s.PasswordHash, &s.FullName, &s.Role, &s.ParentAdminID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrStaffNotFound
	}
	return s, err
}

// ExistsTx reports whether a staff account exists, inside the caller's
// transaction. The assignment coordinator uses it to verify the target
// agent before locking any bookings.
func (r *StaffRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM staff_accounts WHERE id=? AND is_active=1 LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ManagedAdminIDs resolves the set of staff ids whose bookings (and
// venues) the caller may see:
//
//   agent       – only itself
//   admin       – itself plus its super admin, when one is set
//   super admin – itself plus every admin it manages
//
// The returned set always contains the caller's own id. Non-staff
// roles get ErrForbidden.
func (r *StaffRepo) ManagedAdminIDs(ctx context.Context, caller model.StaffAccount) ([]uint64, error) {
	role, err := access.ParseRole(caller.Role)
	if err != nil {
		return nil, err
	}
	if !role.IsStaff() {
		return nil, ErrForbidden
	}
	ids := []uint64{caller.ID}
	switch role {
	case access.RoleAdmin:
		if caller.ParentAdminID != nil {
			ids = append(ids, *caller.ParentAdminID)
		}
	case access.RoleSuperAdmin:
		rows, err := r.DB.QueryContext(ctx,
			"SELECT id FROM staff_accounts WHERE parent_admin_id=?", caller.ID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var id uint64
			if err := rows.Scan(&id); err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}
