package mail

import "context"

// Sender delivers transactional email. Callers treat delivery as best effort;
// a failed send is logged, never surfaced to the subscriber.
type Sender interface {
	SendWelcome(ctx context.Context, email, firstName string) error
}
