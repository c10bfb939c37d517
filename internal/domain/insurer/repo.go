package insurer

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, i *Insurer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Insurer, error)
	GetByEmail(ctx context.Context, email string) (*Insurer, error)
	UpdateProfile(ctx context.Context, i *Insurer) error
	ListByDistrict(ctx context.Context, district string) ([]*Insurer, error)
}
