package inquiry

import (
	"context"

	"earthcare-backend/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, in domain.WholesaleInquiry) (*domain.WholesaleInquiry, error)
}
