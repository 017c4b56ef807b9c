package api

import (
	"crypto/subtle"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"call-alert-backend/internal/notification"
	"call-alert-backend/internal/parse"
)

type callWebhookRequest struct {
	OwnerUserID  string `json:"owner_user_id"`
	CalleeNumber string `json:"callee_number"`
}

// PostCallWebhook receives a call-alert event from the CRM and fans it
// out to the owner's registered devices. A missing token is
// unauthenticated, a wrong token is forbidden; these are distinct
// outcomes. Partial delivery failure never fails the request.
func (h *Handler) PostCallWebhook(c *gin.Context) {
	token := c.GetHeader("X-Webhook-Token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing webhook token"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.webhookToken)) != 1 {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook token"})
		return
	}

	var req callWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := strings.TrimSpace(req.OwnerUserID)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_user_id is required"})
		return
	}

	phone, err := parse.Phone(req.CalleeNumber)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "callee_number is not a valid phone number"})
		return
	}

	callURL := "/call?to=" + url.QueryEscape(phone)
	payload := notification.NewCallAlert(phone, callURL)

	result, err := h.dispatcher.SendToUser(c.Request.Context(), userID, payload)
	if err != nil {
		log.Printf("failed to dispatch call alert for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to dispatch notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "call alert dispatched",
		"userId":      userID,
		"phoneNumber": phone,
		"sent":        result.Sent,
		"total":       result.Total,
	})
}
