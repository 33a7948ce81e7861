package httpserver

import (
	"errors"
	"log"
	"net/http"

	"earthcare-backend/internal/domain"
	checkoutsvc "earthcare-backend/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

func checkoutHandler(svc CheckoutService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		res, err := svc.Checkout(c.Request.Context(), in)
		if err != nil {
			var fieldErrs domain.FieldErrors
			var notFound *domain.ProductNotFoundError
			switch {
			case errors.As(err, &fieldErrs):
				c.JSON(http.StatusBadRequest, fieldErrs)
			case errors.As(err, &notFound):
				c.JSON(http.StatusBadRequest, gin.H{"error": notFound.Error()})
			case errors.Is(err, domain.ErrGatewayUnavailable):
				logger.Printf("checkout handler: gateway error=%v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment intent"})
			default:
				logger.Printf("checkout handler: error=%v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		c.JSON(http.StatusCreated, res)
	}
}
