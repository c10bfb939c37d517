package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByEmail(ctx context.Context, email string) (*Patient, error)
	UpdateProfile(ctx context.Context, p *Patient) error
	SetMoodScore(ctx context.Context, id uuid.UUID, score int) error
}
