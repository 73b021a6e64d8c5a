// Conversation HTTP handlers.
//
// This file exposes REST endpoints for the aggregated chat list:
//   - GET    /conversations                          (list)
//   - POST   /conversations/{other_id}/archive       (archive)
//   - DELETE /conversations/{other_id}/archive       (unarchive)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListConversations godoc
// @ID          listConversations
// @Summary     List conversations
// @Description Returns the user's aggregated conversation list: one entry per counterparty, newest message first.
// @Tags        Conversations
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user id"  example(141add05-4415-4938-b5a1-17e0d3171aff)
//
// @Success     200  {array}   services.Conversation
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations [get]
func (h *Handlers) ListConversations(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	convs, err := h.convSvc.List(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, convs)
}

// ArchiveConversation godoc
// @ID          archiveConversation
// @Summary     Archive a conversation
// @Description Hides every booking shared with the counterparty from the user's own list. The counterparty is unaffected.
// @Tags        Conversations
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       other_id   path    string  true  "Counterparty account id"  format(uuid)
//
// @Success     204  {string}  string                  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations/{other_id}/archive [post]
func (h *Handlers) ArchiveConversation(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	otherID := c.Param("other_id")
	if _, err := uuid.Parse(otherID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "counterparty id must be a UUID")
		return
	}
	if err := h.convSvc.Archive(c.Request.Context(), uid, otherID); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// UnarchiveConversation godoc
// @ID          unarchiveConversation
// @Summary     Unarchive a conversation
// @Description Restores an archived conversation to the user's list.
// @Tags        Conversations
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       other_id   path    string  true  "Counterparty account id"  format(uuid)
//
// @Success     204  {string}  string                  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations/{other_id}/archive [delete]
func (h *Handlers) UnarchiveConversation(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	otherID := c.Param("other_id")
	if _, err := uuid.Parse(otherID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "counterparty id must be a UUID")
		return
	}
	if err := h.convSvc.Unarchive(c.Request.Context(), uid, otherID); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
