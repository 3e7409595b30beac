package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/conversa/internal/conversations"
	"github.com/your-org/conversa/internal/observability"
	"github.com/your-org/conversa/internal/queue"
	"github.com/your-org/conversa/pkg/dto"
)

type ConversationsHandler struct {
	svc    *conversations.Service
	events EventPublisher
}

func NewConversationsHandler(svc *conversations.Service, events EventPublisher) *ConversationsHandler {
	return &ConversationsHandler{svc: svc, events: events}
}

func (h *ConversationsHandler) List(c *gin.Context) {
	skip, limit := pagination(c)
	items, err := h.svc.List(c.Request.Context(), c.Query("person_id"), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []dto.ConversationListItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *ConversationsHandler) Create(c *gin.Context) {
	var req dto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.svc.Create(c.Request.Context(), req.Input())
	if err != nil {
		respondError(c, err)
		return
	}

	observability.ConversationsRecorded.Inc()
	resp := dto.NewConversationResponse(conv)
	publish(c, h.events, queue.EventConversationRecorded, conv.PersonID, resp)

	c.JSON(http.StatusCreated, resp)
}

func (h *ConversationsHandler) Get(c *gin.Context) {
	conv, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewConversationResponse(conv))
}

func (h *ConversationsHandler) Update(c *gin.Context) {
	var req dto.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewConversationResponse(conv))
}

func (h *ConversationsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateActionItem merge-patches one action item and returns the full
// parent conversation.
func (h *ConversationsHandler) UpdateActionItem(c *gin.Context) {
	var req dto.UpdateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.svc.UpdateActionItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), req.Patch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewConversationResponse(conv))
}
