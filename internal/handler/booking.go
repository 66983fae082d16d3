package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/class-session-booking/internal/booking"
	"github.com/iliyamo/class-session-booking/internal/model"
	"github.com/iliyamo/class-session-booking/internal/repository"
)

// BookingHandler exposes booking creation for all three origins plus
// the staff read and assignment endpoints. All business rules live in
// the booking service; this layer binds requests, resolves the caller
// from the context and maps typed errors onto HTTP statuses.
type BookingHandler struct {
	Svc *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

// CreateWebsiteBooking serves the unauthenticated public booking form.
func (h *BookingHandler) CreateWebsiteBooking(c echo.Context) error {
	return h.create(c, booking.RequestContext{Origin: model.OriginWebsite})
}

// CreateParentBooking serves authenticated parent-portal bookings; the
// caller's own account is the booking identity.
func (h *BookingHandler) CreateParentBooking(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)
	return h.create(c, booking.RequestContext{Origin: model.OriginParentPortal, CallerID: uid})
}

// CreateStaffBooking serves staff-entered bookings; the caller becomes
// booked_by and a fresh parent account is always created.
func (h *BookingHandler) CreateStaffBooking(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)
	return h.create(c, booking.RequestContext{Origin: model.OriginAdmin, CallerID: uid})
}

func (h *BookingHandler) create(c echo.Context, rc booking.RequestContext) error {
	var in booking.CreateBookingInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	res, err := h.Svc.CreateBooking(c.Request().Context(), &in, rc)
	if err != nil {
		return bookingError(c, err)
	}
	return ok(c, http.StatusCreated, res)
}

// ListBookings returns the bookings visible to the staff caller with
// optional query filters: from, to (RFC3339 or date-only), session_id
// and student_name.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)

	var q booking.ListQuery
	q.StudentName = c.QueryParam("student_name")
	if v := c.QueryParam("from"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid 'from' timestamp")
		}
		q.Filters.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid 'to' timestamp")
		}
		q.Filters.To = &t
	}
	if v := c.QueryParam("session_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid session_id")
		}
		q.Filters.SessionID = &id
	}

	res, err := h.Svc.ListBookings(c.Request().Context(), uid, q)
	if err != nil {
		return bookingError(c, err)
	}
	return ok(c, http.StatusOK, res)
}

// GetBooking returns one booking under the caller's visibility scope.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	d, err := h.Svc.GetBookingByID(c.Request().Context(), uid, id)
	if err != nil {
		return bookingError(c, err)
	}
	return ok(c, http.StatusOK, d)
}

type assignReq struct {
	BookingIDs []uint64 `json:"booking_ids"`
	AgentID    uint64   `json:"agent_id"`
}

// AssignBookings assigns a batch of bookings to an agent atomically.
// The response echoes the ids the service actually wrote; duplicates
// and zero ids in the request do not inflate the count.
func (h *BookingHandler) AssignBookings(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.AgentID == 0 {
		return fail(c, http.StatusBadRequest, "agent_id required")
	}
	ids, err := h.Svc.AssignBookings(c.Request().Context(), req.BookingIDs, req.AgentID)
	if err != nil {
		return bookingError(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{
		"booking_ids":    ids,
		"total_assigned": len(ids),
		"agent_id":       req.AgentID,
	})
}

// bookingError maps the service's typed errors onto HTTP responses.
// Anything unrecognized is a storage failure and stays opaque.
func bookingError(c echo.Context, err error) error {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		return fail(c, http.StatusBadRequest, verr.Error())
	}
	var cerr *booking.CapacityError
	if errors.As(err, &cerr) {
		return c.JSON(http.StatusConflict, echo.Map{
			"status":    false,
			"message":   cerr.Error(),
			"remaining": cerr.Remaining,
		})
	}
	var aerr *booking.AlreadyAssignedError
	if errors.As(err, &aerr) {
		conflicts := make([]echo.Map, 0, len(aerr.Conflicts))
		for _, cf := range aerr.Conflicts {
			conflicts = append(conflicts, echo.Map{
				"booking_id": cf.BookingID,
				"student":    cf.StudentName,
				"parent":     cf.ParentName,
			})
		}
		return c.JSON(http.StatusConflict, echo.Map{
			"status":    false,
			"message":   "some bookings are already assigned",
			"conflicts": conflicts,
		})
	}
	var merr *booking.MissingBookingsError
	if errors.As(err, &merr) {
		return fail(c, http.StatusNotFound, merr.Error())
	}
	switch {
	case errors.Is(err, booking.ErrDuplicateIdentity):
		return fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrAgentNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrNotFoundOrUnauthorized):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrForbidden):
		return fail(c, http.StatusForbidden, "forbidden")
	}
	c.Logger().Errorf("booking: %v", err)
	return fail(c, http.StatusInternalServerError, "storage failure")
}

func parseTimeParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
