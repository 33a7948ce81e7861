package httpserver

import (
	"net/http"
	"strings"

	"earthcare-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

func inquiryHandler(inquiries InquiryCreator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in domain.WholesaleInquiry
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		errs := domain.FieldErrors{}
		required := map[string]string{
			"business_name": in.BusinessName,
			"contact_name":  in.ContactName,
			"email":         in.Email,
			"message":       in.Message,
		}
		for field, value := range required {
			if strings.TrimSpace(value) == "" {
				errs.Add(field, "This field is required.")
			}
		}
		if len(errs) > 0 {
			c.JSON(http.StatusBadRequest, errs)
			return
		}

		created, err := inquiries.Create(c.Request.Context(), in)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":    "Thank you for your wholesale inquiry! We will contact you soon.",
			"inquiry_id": created.ID,
		})
	}
}
