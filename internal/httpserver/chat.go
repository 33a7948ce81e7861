package httpserver

import (
	"errors"
	"net/http"

	"earthcare-backend/internal/domain"
	chatsvc "earthcare-backend/internal/service/chat"
	"github.com/gin-gonic/gin"
)

func chatHandler(svc ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in chatsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		in.UserIP = c.ClientIP()
		in.UserAgent = c.Request.UserAgent()

		res, err := svc.Chat(c.Request.Context(), in)
		if err != nil {
			var fieldErrs domain.FieldErrors
			if errors.As(err, &fieldErrs) {
				c.JSON(http.StatusBadRequest, fieldErrs)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

func conversationHandler(svc ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		thread, err := svc.History(c.Request.Context(), c.Param("sessionID"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Unknown sessions respond with an empty history, not an error.
				c.JSON(http.StatusOK, gin.H{"messages": []domain.Message{}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, thread)
	}
}
