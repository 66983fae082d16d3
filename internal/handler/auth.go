package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/class-session-booking/internal/access"
	"github.com/iliyamo/class-session-booking/internal/config"
	"github.com/iliyamo/class-session-booking/internal/repository"
	"github.com/iliyamo/class-session-booking/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints. Staff and parent
// accounts live in separate tables and get separate login endpoints;
// refresh tokens carry the subject type so one refresh endpoint serves
// both audiences.
type AuthHandler struct {
	Cfg     config.Config
	Staff   *repository.StaffRepo
	Parents *repository.ParentAccountRepo
	Tokens  *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, s *repository.StaffRepo, p *repository.ParentAccountRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Staff: s, Parents: p, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type accountPart struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
type authResp struct {
	Account accountPart `json:"account"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// StaffLogin verifies staff credentials and returns a token pair.
func (h *AuthHandler) StaffLogin(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Staff.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return fail(c, http.StatusUnauthorized, "invalid credentials")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	if !s.IsActive || !utils.VerifyPassword(s.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	return h.issuePair(c, ctx, repository.SubjectStaff, accountPart{
		ID: s.ID, Email: s.Email, FullName: s.FullName, Role: s.Role,
	})
}

// ParentLogin verifies parent-portal credentials. With staff-entered
// duplicates the oldest account row for an email is the login identity.
func (h *AuthHandler) ParentLogin(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Parents.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusUnauthorized, "invalid credentials")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	if !a.IsActive || !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	return h.issuePair(c, ctx, repository.SubjectParent, accountPart{
		ID: a.ID, Email: a.Email, FullName: a.FullName, Role: access.RoleParent.String(),
	})
}

func (h *AuthHandler) issuePair(c echo.Context, ctx context.Context, subjectType string, acc accountPart) error {
	accessTok, err := utils.NewAccessToken(h.Cfg.JWTSecret, subjectType, acc.ID, acc.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue access failed")
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue refresh failed")
	}
	if err := h.Tokens.StoreRefresh(ctx, subjectType, acc.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return fail(c, http.StatusInternalServerError, "save refresh failed")
	}
	return ok(c, http.StatusOK, authResp{
		Account: acc,
		Access:  tokenPart{Token: accessTok.Token, Expires: accessTok.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a
// new pair (rotation). Works for both staff and parent subjects.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return fail(c, http.StatusBadRequest, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	subjectType, subjectID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid refresh")
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	var acc accountPart
	switch subjectType {
	case repository.SubjectStaff:
		s, err := h.Staff.GetByID(ctx, subjectID)
		if err != nil {
			return fail(c, http.StatusUnauthorized, "invalid refresh")
		}
		acc = accountPart{ID: s.ID, Email: s.Email, FullName: s.FullName, Role: s.Role}
	case repository.SubjectParent:
		a, err := h.Parents.GetByID(ctx, subjectID)
		if err != nil {
			return fail(c, http.StatusUnauthorized, "invalid refresh")
		}
		acc = accountPart{ID: a.ID, Email: a.Email, FullName: a.FullName, Role: access.RoleParent.String()}
	default:
		return fail(c, http.StatusUnauthorized, "invalid refresh")
	}
	return h.issuePair(c, ctx, subjectType, acc)
}

// Logout revokes a single session by refresh token, or every session of
// the authenticated subject when called with a bearer token and no
// body.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return fail(c, http.StatusUnauthorized, "invalid refresh token")
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return fail(c, http.StatusInternalServerError, "logout failed")
		}
		return c.NoContent(http.StatusNoContent)
	}

	// No body token: fall back to the authenticated identity set by the
	// JWT middleware and revoke everything it owns.
	uid, _ := c.Get("user_id").(uint64)
	subjectType, _ := c.Get("subject_type").(string)
	if uid == 0 || subjectType == "" {
		return fail(c, http.StatusBadRequest, "provide refresh_token or Authorization header")
	}
	if err := h.Tokens.RevokeAllForSubject(ctx, subjectType, uid); err != nil {
		return fail(c, http.StatusInternalServerError, "logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me echoes the authenticated identity.
func (h *AuthHandler) Me(c echo.Context) error {
	return ok(c, http.StatusOK, echo.Map{
		"user_id":      c.Get("user_id"),
		"subject_type": c.Get("subject_type"),
		"role":         c.Get("role"),
	})
}
