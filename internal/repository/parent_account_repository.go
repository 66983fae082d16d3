package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/class-session-booking/internal/model"
)

// ParentAccountRepo persists durable parent identities. Emails are
// normalized (trimmed, lower-cased) before every lookup or insert so
// two spellings of the same address never split into two accounts.
//
// The email index is deliberately non-unique: staff-entered bookings
// always create a fresh account even for a known email, so duplicate
// rows are tolerated by policy. The website find-or-create path
// instead serializes racing creators with a locking read (the gap lock
// on the email index blocks a concurrent insert of the same address).
type ParentAccountRepo struct{ DB *sql.DB }

// NewParentAccountRepo returns a ParentAccountRepo bound to the database.
func NewParentAccountRepo(db *sql.DB) *ParentAccountRepo { return &ParentAccountRepo{DB: db} }

// NormalizeEmail applies the canonical trim+lowercase normalization.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetByEmail fetches the oldest account for a normalized email. With
// staff-entered duplicates the oldest row is the login identity.
func (r *ParentAccountRepo) GetByEmail(ctx context.Context, email string) (model.ParentAccount, error) {
	email = NormalizeEmail(email)
	var a model.ParentAccount
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,full_name,is_active,created_at,updated_at FROM parent_accounts WHERE email=? ORDER BY id LIMIT 1",
		email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// GetByID fetches an account by id.
func (r *ParentAccountRepo) GetByID(ctx context.Context, id uint64) (model.ParentAccount, error) {
	var a model.ParentAccount
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,full_name,is_active,created_at,updated_at FROM parent_accounts WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateTx unconditionally inserts a new account inside the caller's
// transaction and returns its id. This is the staff-entry path: no
// lookup happens first, so a second account for a known email is
// created on purpose.
func (r *ParentAccountRepo) CreateTx(ctx context.Context, tx *sql.Tx, email, passwordHash, fullName string) (uint64, error) {
	email = NormalizeEmail(email)
	res, err := tx.ExecContext(ctx,
		"INSERT INTO parent_accounts (email, password_hash, full_name, is_active) VALUES (?,?,?,1)",
		email, passwordHash, fullName)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindOrCreateTx implements the website policy: reuse the account for
// a normalized email when one exists, otherwise insert one. The
// lookup runs FOR UPDATE so two transactions racing to create the same
// new email serialize on the email index gap; the second one re-reads
// the row the first one inserted instead of duplicating it.
func (r *ParentAccountRepo) FindOrCreateTx(ctx context.Context, tx *sql.Tx, email, passwordHash, fullName string) (uint64, error) {
	email = NormalizeEmail(email)
	var id uint64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM parent_accounts WHERE email=? ORDER BY id LIMIT 1 FOR UPDATE", email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO parent_accounts (email, password_hash, full_name, is_active) VALUES (?,?,?,1)",
		email, passwordHash, fullName)
	if err != nil {
		return 0, err
	}
	last, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(last), nil
}
