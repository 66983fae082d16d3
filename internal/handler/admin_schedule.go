package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/class-session-booking/internal/repository"
)

// ScheduleHandler holds the admin endpoints for venues and class
// sessions. Creating a venue records the caller as its owner, which is
// what later gates website-booking visibility, so these endpoints are
// restricted to admin roles by the router.
type ScheduleHandler struct {
	Venues   *repository.VenueRepo
	Sessions *repository.SessionRepo
}

func NewScheduleHandler(v *repository.VenueRepo, s *repository.SessionRepo) *ScheduleHandler {
	return &ScheduleHandler{Venues: v, Sessions: s}
}

type venueReq struct {
	Name string `json:"name"`
}

type sessionReq struct {
	VenueID  uint64    `json:"venue_id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
	Capacity uint32    `json:"capacity"`
}

// CreateVenue inserts a venue owned by the caller.
func (h *ScheduleHandler) CreateVenue(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)
	var req venueReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return fail(c, http.StatusBadRequest, "name required")
	}
	v := &repository.VenueRecord{Name: req.Name, CreatedBy: uid}
	if err := h.Venues.Create(c.Request().Context(), v); err != nil {
		return fail(c, http.StatusInternalServerError, "create venue failed")
	}
	return ok(c, http.StatusCreated, v)
}

// UpdateVenue renames a venue. Only its creator may rename it; a venue
// someone else owns looks exactly like a missing one.
func (h *ScheduleHandler) UpdateVenue(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req venueReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return fail(c, http.StatusBadRequest, "name required")
	}
	if err := h.Venues.UpdateName(c.Request().Context(), id, uid, req.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "venue not found")
		}
		return fail(c, http.StatusInternalServerError, "update venue failed")
	}
	return ok(c, http.StatusOK, echo.Map{"id": id, "name": req.Name})
}

// ListVenues returns every venue for schedule management screens.
func (h *ScheduleHandler) ListVenues(c echo.Context) error {
	venues, err := h.Venues.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return ok(c, http.StatusOK, echo.Map{"items": venues})
}

// CreateSession inserts a class session with its starting capacity.
// Capacity is only ever decremented afterwards, by bookings.
func (h *ScheduleHandler) CreateSession(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.VenueID == 0 || req.Name == "" || req.StartsAt.IsZero() {
		return fail(c, http.StatusBadRequest, "venue_id, name and starts_at required")
	}
	if _, err := h.Venues.GetByID(c.Request().Context(), req.VenueID); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return fail(c, http.StatusNotFound, "venue not found")
		}
		return fail(c, http.StatusInternalServerError, "database error")
	}
	id, err := h.Sessions.Create(c.Request().Context(), req.VenueID, req.Name, req.StartsAt, req.Capacity)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "create session failed")
	}
	return ok(c, http.StatusCreated, echo.Map{
		"id":                 id,
		"venue_id":           req.VenueID,
		"name":               req.Name,
		"starts_at":          req.StartsAt,
		"remaining_capacity": req.Capacity,
	})
}

// GetSession returns one class session with its venue name.
func (h *ScheduleHandler) GetSession(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	s, err := h.Sessions.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return fail(c, http.StatusNotFound, "session not found")
		}
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return ok(c, http.StatusOK, s)
}
