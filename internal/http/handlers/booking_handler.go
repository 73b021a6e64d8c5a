// Booking HTTP handlers.
//
// This file exposes REST endpoints for the booking lifecycle:
//   - POST  /bookings              (create)
//   - GET   /bookings              (list own, both roles)
//   - GET   /bookings/{id}         (fetch)
//   - PATCH /bookings/{id}/status  (status machine transition)
//   - POST  /bookings/{id}/review  (rate the counterparty after completion)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/services"
)

// UpdateBookingStatusRequest is the JSON payload for a status transition.
type UpdateBookingStatusRequest struct {
	// Status is the target state; the forward-only machine decides whether
	// the move is allowed.
	Status domain.Status `json:"status" binding:"required" example:"accepted"`
}

// RateBookingRequest is the JSON payload for a post-completion review.
type RateBookingRequest struct {
	// Rating is the 1–5 score given to the counterparty.
	Rating int `json:"rating" binding:"required" example:"5"`
}

// CreateBooking godoc
// @ID          createBooking
// @Summary     Create a booking
// @Description Creates a pending booking for the acting user (as client), priced from the worker's rates.
// @Tags        Bookings
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       body       body    services.CreateBookingInput  true  "Booking payload"
//
// @Success     201  {object}  domain.Booking
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Worker not found"
// @Router      /bookings [post]
func (h *Handlers) CreateBooking(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	var in services.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if in.WorkerID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "worker_id required")
		return
	}
	b, err := h.bookingSvc.Create(c.Request.Context(), uid, in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, b)
}

// ListBookings godoc
// @ID          listBookings
// @Summary     List own bookings
// @Description Returns every booking the user touches, as client and as worker, newest first.
// @Tags        Bookings
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user id"
//
// @Success     200  {array}   domain.Booking
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /bookings [get]
func (h *Handlers) ListBookings(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	bookings, err := h.bookingSvc.List(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, bookings)
}

// GetBooking godoc
// @ID          getBooking
// @Summary     Fetch one booking
// @Description Returns a booking the user participates in.
// @Tags        Bookings
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       id         path    string  true  "Booking ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Booking
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Booking not found"
// @Router      /bookings/{id} [get]
func (h *Handlers) GetBooking(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "booking id must be a UUID")
		return
	}
	b, err := h.bookingSvc.Get(c.Request.Context(), bookingID, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}

// UpdateBookingStatus godoc
// @ID          updateBookingStatus
// @Summary     Transition a booking
// @Description Moves the booking to the requested status. Disallowed transitions return 409 with code invalid_transition.
// @Tags        Bookings
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       id         path    string  true  "Booking ID (UUID)"  format(uuid)
// @Param       body       body    handlers.UpdateBookingStatusRequest  true  "Target status"
//
// @Success     200  {object}  domain.Booking
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Booking not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Invalid transition"
// @Router      /bookings/{id}/status [patch]
func (h *Handlers) UpdateBookingStatus(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "booking id must be a UUID")
		return
	}
	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	b, err := h.bookingSvc.UpdateStatus(c.Request.Context(), bookingID, uid, req.Status)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}

// RateBooking godoc
// @ID          rateBooking
// @Summary     Rate the counterparty
// @Description Stores the acting user's 1–5 rating of the counterparty on a completed booking. Each side rates once.
// @Tags        Bookings
// @Accept      json
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       id         path    string  true  "Booking ID (UUID)"  format(uuid)
// @Param       body       body    handlers.RateBookingRequest  true  "Rating payload"
//
// @Success     204  {string}  string                  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Booking not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already rated / not completed"
// @Router      /bookings/{id}/review [post]
func (h *Handlers) RateBooking(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "booking id must be a UUID")
		return
	}
	var req RateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.reviewSvc.Rate(c.Request.Context(), bookingID, uid, req.Rating); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
