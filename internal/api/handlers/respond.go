package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/conversa/internal/apperr"
)

// EventPublisher is the slice of the queue producer handlers need.
// A nil publisher disables event fan-out (tests, seed runs).
type EventPublisher interface {
	Publish(ctx context.Context, eventType, personID string, payload interface{}) error
}

// respondError maps core error kinds to HTTP statuses. Anything untyped
// is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// publish sends an event, best effort — a broken queue never fails the
// request that already committed.
func publish(c *gin.Context, events EventPublisher, eventType, personID string, payload interface{}) {
	if events == nil {
		return
	}
	if err := events.Publish(c.Request.Context(), eventType, personID, payload); err != nil {
		slog.Warn("publish event", "type", eventType, "error", err)
	}
}
