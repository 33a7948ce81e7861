package httpserver

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// webhookHandler verifies and applies settlement notifications. Verified
// events are always acknowledged with 200, including events whose payment
// intent matches no order, so the provider does not retry forever.
func webhookHandler(verifier EventVerifier, svc ReconcileService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 1<<16))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
			return
		}

		event, recognized, err := verifier.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			logger.Printf("webhook handler: verify error=%v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			return
		}
		if !recognized {
			c.JSON(http.StatusOK, gin.H{"status": "success"})
			return
		}

		if err := svc.Apply(c.Request.Context(), *event); err != nil {
			logger.Printf("webhook handler: apply intent=%s error=%v", event.IntentID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}
