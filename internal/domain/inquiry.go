package domain

import "time"

// Wholesale inquiry statuses, advanced by back-office staff.
const (
	InquiryStatusNew        = "new"
	InquiryStatusContacted  = "contacted"
	InquiryStatusInProgress = "in_progress"
	InquiryStatusApproved   = "approved"
	InquiryStatusRejected   = "rejected"
)

// WholesaleInquiry is a partnership request submitted from the public site.
type WholesaleInquiry struct {
	ID                     string    `json:"id"`
	BusinessName           string    `json:"business_name"`
	ContactName            string    `json:"contact_name"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone"`
	BusinessType           string    `json:"business_type"`
	Location               string    `json:"location"`
	Website                string    `json:"website"`
	EstimatedMonthlyVolume string    `json:"estimated_monthly_volume"`
	Message                string    `json:"message"`
	Status                 string    `json:"status"`
	CreatedAt              time.Time `json:"created_at"`
}
