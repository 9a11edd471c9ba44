package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/contact"
)

// IdempotencyHeader carries the submission token.
const IdempotencyHeader = "Idempotency-Key"

// maxBodyBytes caps a contact submission body.
const maxBodyBytes = 100 << 10

// ContactHandler handles the contact form.
type ContactHandler struct {
	contact Submitter
	logger  *slog.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(s Submitter, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contact: s, logger: logger}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req contact.Request
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": []contact.Violation{{
			Field:   "body",
			Code:    "invalid",
			Message: "Invalid request body",
		}}})
		return
	}
	if key := c.GetHeader(IdempotencyHeader); key != "" {
		req.Token = key
	}

	receipt, err := h.contact.Submit(c.Request.Context(), req)
	if err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Violations})
			return
		}
		h.logger.Error("processing contact message", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error while processing message"})
		return
	}

	if receipt.Duplicate {
		h.logger.Info("duplicate contact submission", "message_id", receipt.MessageID)
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Message sent successfully"})
}
