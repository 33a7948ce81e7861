package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrGatewayUnavailable indicates the payment provider could not be reached
	// or rejected the request. The order row is already committed when this is
	// returned from checkout.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrInvalidSignature indicates a webhook payload failed signature verification.
	ErrInvalidSignature = errors.New("invalid signature")
)

// ProductNotFoundError aborts a checkout referencing an unknown product id.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// FieldErrors maps request field names to validation messages, mirroring the
// {field: [errors]} shape returned to clients.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e))
}

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}
