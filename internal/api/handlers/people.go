package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/your-org/conversa/internal/observability"
	"github.com/your-org/conversa/internal/people"
	"github.com/your-org/conversa/internal/queue"
	"github.com/your-org/conversa/pkg/dto"
)

type PeopleHandler struct {
	svc    *people.Service
	events EventPublisher
}

func NewPeopleHandler(svc *people.Service, events EventPublisher) *PeopleHandler {
	return &PeopleHandler{svc: svc, events: events}
}

func (h *PeopleHandler) List(c *gin.Context) {
	skip, limit := pagination(c)
	persons, err := h.svc.List(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.PersonListItem, 0, len(persons))
	for i := range persons {
		resp = append(resp, dto.NewPersonListItem(&persons[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PeopleHandler) Create(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	person, err := h.svc.Create(c.Request.Context(), req.Input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewPersonResponse(person))
}

func (h *PeopleHandler) Get(c *gin.Context) {
	person, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPersonResponse(person))
}

func (h *PeopleHandler) Update(c *gin.Context) {
	var req dto.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	person, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPersonResponse(person))
}

func (h *PeopleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Thumbnail serves the stored raw thumbnail bytes. Re-encoding is the
// caller's business.
func (h *PeopleHandler) Thumbnail(c *gin.Context) {
	data, err := h.svc.Thumbnail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

// Match identifies a person from a probe face embedding.
func (h *PeopleHandler) Match(c *gin.Context) {
	var req dto.FaceMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Identify(c.Request.Context(), req.FaceEmbedding, req.Threshold)
	if err != nil {
		respondError(c, err)
		return
	}

	outcome := "unmatched"
	if result.Matched {
		outcome = "matched"
	}
	observability.MatchAttempts.WithLabelValues(outcome).Inc()

	resp := dto.FaceMatchResponse{
		Matched:    result.Matched,
		PersonID:   result.PersonID,
		PersonName: result.PersonName,
		Confidence: result.Confidence,
	}
	if !result.Matched {
		resp.PersonID = ""
		resp.PersonName = ""
	}

	if result.Matched {
		publish(c, h.events, queue.EventPersonMatched, result.PersonID, resp)
	}

	c.JSON(http.StatusOK, resp)
}

func pagination(c *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	return skip, limit
}
