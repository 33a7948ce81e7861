package httpserver

import (
	"errors"
	"net/http"

	"earthcare-backend/internal/domain"
	newslettersvc "earthcare-backend/internal/service/newsletter"
	"github.com/gin-gonic/gin"
)

func subscribeHandler(svc NewsletterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in newslettersvc.SubscribeInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		_, created, err := svc.Subscribe(c.Request.Context(), in)
		if err != nil {
			var fieldErrs domain.FieldErrors
			if errors.As(err, &fieldErrs) {
				c.JSON(http.StatusBadRequest, fieldErrs)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if !created {
			c.JSON(http.StatusOK, gin.H{"message": "You are already subscribed to our newsletter!"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":    "Successfully subscribed to the newsletter! Check your email for a special welcome offer.",
			"subscribed": true,
		})
	}
}

func unsubscribeHandler(svc NewsletterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := svc.Unsubscribe(c.Request.Context(), in.Email); err != nil {
			var fieldErrs domain.FieldErrors
			switch {
			case errors.As(err, &fieldErrs):
				c.JSON(http.StatusBadRequest, fieldErrs)
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "Email not found in our subscriber list."})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "You have been unsubscribed from our newsletter."})
	}
}
