// Presence HTTP handlers.
//
// This file exposes the REST fallback for presence when no websocket is
// connected:
//   - POST /presence            (heartbeat / visibility signal)
//   - GET  /presence/{user_id}  (freshness-gated status of another user)
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PresenceUpdateRequest is the JSON payload of a presence signal.
type PresenceUpdateRequest struct {
	// Online is the reported state; heartbeats repeat true every 20s.
	Online bool `json:"online"`
}

// PresenceResponse is the freshness-gated view of another user's presence.
type PresenceResponse struct {
	UserID string `json:"user_id"`
	// Online applies the freshness window, not the raw stored flag.
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// UpdatePresence godoc
// @ID          updatePresence
// @Summary     Report presence
// @Description Upserts the acting user's presence row. Clients send true every heartbeat and on focus, false when hidden.
// @Tags        Presence
// @Accept      json
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       body       body    handlers.PresenceUpdateRequest  true  "Presence signal"
//
// @Success     204  {string}  string                  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /presence [post]
func (h *Handlers) UpdatePresence(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	var req PresenceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.presenceSvc.Update(c.Request.Context(), uid, req.Online); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// GetPresence godoc
// @ID          getPresence
// @Summary     Fetch a user's presence
// @Description Returns the freshness-gated online state of a user. A row older than the freshness window reads as offline regardless of its stored flag.
// @Tags        Presence
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       user_id    path    string  true  "Target account id"  format(uuid)
//
// @Success     200  {object}  handlers.PresenceResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /presence/{user_id} [get]
func (h *Handlers) GetPresence(c *gin.Context) {
	if _, okAuth := requireUser(c); !okAuth {
		return
	}
	targetID := c.Param("user_id")
	if _, err := uuid.Parse(targetID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user id must be a UUID")
		return
	}
	p, err := h.presenceSvc.Get(c.Request.Context(), targetID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	resp := PresenceResponse{UserID: targetID}
	if p != nil {
		resp.Online = p.ActuallyOnline(time.Now().UTC())
		ls := p.LastSeen
		resp.LastSeen = &ls
	}
	ok(c, http.StatusOK, resp)
}
