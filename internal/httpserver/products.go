package httpserver

import (
	"errors"
	"log"
	"net/http"

	"earthcare-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

func listProductsHandler(products ProductReader, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.ListActive(c.Request.Context())
		if err != nil {
			logger.Printf("products handler: list error=%v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if list == nil {
			list = []domain.Product{}
		}
		c.JSON(http.StatusOK, list)
	}
}

func getProductHandler(products ProductReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		// Inactive products are hidden from the storefront.
		if !p.IsActive {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
