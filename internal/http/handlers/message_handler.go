// Message HTTP handlers.
//
// This file exposes REST endpoints for booking-scoped chat threads:
//   - GET  /bookings/{id}/messages       (full ordered history)
//   - POST /bookings/{id}/messages       (send, Idempotency-Key replay)
//   - POST /bookings/{id}/messages/read  (read receipt)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/biscato-app/go-marketplace-backend/internal/utils"
)

// SendMessageRequest is the JSON payload for sending a message.
type SendMessageRequest struct {
	// Content is the message body (trimmed server-side, max length enforced).
	Content string `json:"content" binding:"required" example:"Bom dia, a que horas chega?"`
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List a booking's messages
// @Description Returns the full thread in display order (oldest first). Caller must be a participant.
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID  header  string  true   "Acting user id"
// @Param       id         path    string  true   "Booking ID (UUID)"  format(uuid)
// @Param       limit      query   int     false  "Return only the last N messages"
//
// @Success     200  {array}   domain.Message
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Booking not found"
// @Router      /bookings/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "booking id must be a UUID")
		return
	}
	msgs, err := h.chatSvc.History(c.Request.Context(), bookingID, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	// Optional tail window; order stays oldest-first.
	if limit := utils.AtoiDefault(c.Query("limit"), 0); limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	ok(c, http.StatusOK, msgs)
}

// SendMessage godoc
// @ID          sendMessage
// @Summary     Send a message
// @Description Stores one message in the booking's thread. Repeating the same Idempotency-Key within its TTL returns the originally stored message instead of inserting again.
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true   "Acting user id"
// @Param       Idempotency-Key  header  string  false  "Client-chosen retry key"
// @Param       id               path    string  true   "Booking ID (UUID)"  format(uuid)
// @Param       body             body    handlers.SendMessageRequest  true  "Message payload"
//
// @Success     201  {object}  domain.Message
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Booking not found"
// @Router      /bookings/{id}/messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "booking id must be a UUID")
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	m, err := h.chatSvc.Send(c.Request.Context(), bookingID, uid, req.Content, idemKey)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, m)
}

// MarkMessagesRead godoc
// @ID          markMessagesRead
// @Summary     Mark a thread read
// @Description Flips every unread counterparty message in the booking to read.
// @Tags        Messages
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       id         path    string  true  "Booking ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string                  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Booking not found"
// @Router      /bookings/{id}/messages/read [post]
func (h *Handlers) MarkMessagesRead(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "booking id must be a UUID")
		return
	}
	if err := h.chatSvc.MarkRead(c.Request.Context(), bookingID, uid); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
