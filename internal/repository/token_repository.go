package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/class-session-booking/internal/model"
)

// Subject types for refresh tokens. Staff and parent accounts live in
// separate tables, so the token row records which one it belongs to.
const (
	SubjectStaff  = "STAFF"
	SubjectParent = "PARENT"
)

// TokenRepo persists/validates refresh tokens (single 'token_hash' column).
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row for a subject.
func (r *TokenRepo) StoreRefresh(ctx context.Context, subjectType string, subjectID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (subject_type, subject_id, token_hash, expires_at) VALUES (?,?,?,?)",
		subjectType, subjectID, tokenHash, exp)
	return err
}

// ValidateRefresh returns the subject if a non-revoked, non-expired
// token with the given hash exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (subjectType string, subjectID uint64, err error) {
	var (
		t         model.RefreshToken
		revokedAt sql.NullTime
	)
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, subject_type, subject_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.SubjectType, &t.SubjectID, &t.ExpiresAt, &revokedAt)
	if err != nil {
		return "", 0, err
	}
	if revokedAt.Valid {
		t.RevokedAt = &revokedAt.Time
	}
	if t.RevokedAt != nil {
		return "", 0, sql.ErrNoRows
	}
	if time.Now().UTC().After(t.ExpiresAt) {
		return "", 0, sql.ErrNoRows
	}
	return t.SubjectType, t.SubjectID, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForSubject revokes all active tokens of one account.
func (r *TokenRepo) RevokeAllForSubject(ctx context.Context, subjectType string, subjectID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE subject_type=? AND subject_id=? AND revoked_at IS NULL",
		subjectType, subjectID)
	return err
}
