package domain

import "time"

// Subscriber is a newsletter signup keyed by email. Unsubscribing flips
// is_active instead of deleting the row so re-subscribes can be reactivated.
type Subscriber struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	IsActive       bool       `json:"is_active"`
	Source         string     `json:"source"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
}
