package model

import "time"

// StaffAccount represents a row in the `staff_accounts` table. Staff
// members log into the back office and are arranged in a flat
// hierarchy: agents and admins optionally reference the super admin
// that manages them via ParentAdminID.
//
// Fields:
//  ID            – primary key identifier.
//  Email         – unique login email.
//  PasswordHash  – bcrypt hashed password.
//  FullName      – display name for assignment diagnostics.
//  Role          – role name (AGENT, ADMIN, SUPER_ADMIN).
//  ParentAdminID – super admin managing this account (null for top level).
//  IsActive      – whether the account may log in.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type StaffAccount struct {
	ID            uint64    // staff_accounts.id
	Email         string    // staff_accounts.email
	PasswordHash  string    // staff_accounts.password_hash
	FullName      string    // staff_accounts.full_name
	Role          string    // staff_accounts.role
	ParentAdminID *uint64   // staff_accounts.parent_admin_id (nullable)
	IsActive      bool      // staff_accounts.is_active
	CreatedAt     time.Time // staff_accounts.created_at
	UpdatedAt     time.Time // staff_accounts.updated_at
}

// ParentAccount is the durable login identity a booking resolves to.
// It is distinct from the per-booking Parent snapshot: the account is
// keyed by normalized email and owns bookings over time, while Parent
// rows freeze the contact details submitted with a single booking.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – normalized (trimmed, lower-cased) email address.
//  PasswordHash – bcrypt hash of the initial or chosen password.
//  FullName     – name taken from the first submitted parent block.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type ParentAccount struct {
	ID           uint64    // parent_accounts.id
	Email        string    // parent_accounts.email
	PasswordHash string    // parent_accounts.password_hash
	FullName     string    // parent_accounts.full_name
	IsActive     bool      // parent_accounts.is_active
	CreatedAt    time.Time // parent_accounts.created_at
	UpdatedAt    time.Time // parent_accounts.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. A token
// belongs to either a staff or a parent account, discriminated by
// SubjectType. Only the SHA-256 hash of the raw token is stored.
//
// Fields:
//  ID          – primary key identifier.
//  SubjectType – "STAFF" or "PARENT".
//  SubjectID   – id of the owning account.
//  TokenHash   – SHA-256 hex digest of the token value.
//  ExpiresAt   – expiration timestamp of the token.
//  RevokedAt   – when the token was revoked (null if still active).
//  CreatedAt   – timestamp of creation.
type RefreshToken struct {
	ID          uint64     // refresh_tokens.id
	SubjectType string     // refresh_tokens.subject_type
	SubjectID   uint64     // refresh_tokens.subject_id
	TokenHash   string     // refresh_tokens.token_hash
	ExpiresAt   time.Time  // refresh_tokens.expires_at
	RevokedAt   *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt   time.Time  // refresh_tokens.created_at
}
