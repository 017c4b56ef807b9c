package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"call-alert-backend/internal/model"
)

// PostDevice registers a device's push subscription for the user named
// in the X-User-Id header.
func (h *Handler) PostDevice(c *gin.Context) {
	userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-Id header is required"})
		return
	}

	var sub model.Subscription
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subscription must have an endpoint and p256dh/auth keys"})
		return
	}

	h.store.Add(userID, sub)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "device registered",
		"userId":  userID,
	})
}
