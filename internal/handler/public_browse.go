// This file defines handlers for the public browsing API. These routes
// let unauthenticated visitors discover venues and upcoming class
// sessions before filling in the booking form. Sensitive fields (venue
// owners, timestamps) are filtered from responses.

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/class-session-booking/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing. It produces sanitized responses suitable for public
// consumption.
type PublicHandler struct {
	Venues   *repository.VenueRepo
	Sessions *repository.SessionRepo
}

// PublicVenue is a venue exposed via the public API; only safe fields.
type PublicVenue struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// PublicSession is an upcoming class session in public list responses.
type PublicSession struct {
	ID                uint64    `json:"id"`
	Name              string    `json:"name"`
	StartsAt          time.Time `json:"starts_at"`
	RemainingCapacity uint32    `json:"remaining_capacity"`
}

// GetPublicVenues lists all venues for unauthenticated visitors.
func (h *PublicHandler) GetPublicVenues(c echo.Context) error {
	venues, err := h.Venues.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	out := make([]PublicVenue, 0, len(venues))
	for _, v := range venues {
		out = append(out, PublicVenue{ID: v.ID, Name: v.Name})
	}
	return ok(c, http.StatusOK, echo.Map{"items": out})
}

// GetPublicSessionsByVenue lists a venue's upcoming sessions with the
// slots still open, after validating the venue exists.
func (h *PublicHandler) GetPublicSessionsByVenue(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if _, err := h.Venues.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return fail(c, http.StatusNotFound, "venue not found")
		}
		return fail(c, http.StatusInternalServerError, "database error")
	}
	sessions, err := h.Sessions.ListUpcomingByVenue(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	out := make([]PublicSession, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, PublicSession{
			ID:                s.ID,
			Name:              s.Name,
			StartsAt:          s.StartsAt,
			RemainingCapacity: s.RemainingCapacity,
		})
	}
	return ok(c, http.StatusOK, echo.Map{"items": out})
}
