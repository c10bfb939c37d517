package insurer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mindcover/mindcover/internal/platform/auth"
)

var (
	ErrNotFound           = errors.New("insurer not found")
	ErrEmailTaken         = errors.New("insurer email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	insurers Repository
	tokens   *auth.TokenIssuer
}

func NewService(insurers Repository, tokens *auth.TokenIssuer) *Service {
	return &Service{insurers: insurers, tokens: tokens}
}

// Signup registers an insurer and returns a bearer token for it.
func (s *Service) Signup(ctx context.Context, i *Insurer, password string) (string, error) {
	if i.CompanyName == "" || i.Email == "" || password == "" {
		return "", fmt.Errorf("company name, email and password are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	i.Password = hash
	if err := s.insurers.Create(ctx, i); err != nil {
		return "", err
	}
	return s.tokens.Issue(i.Email, i.ID.String(), "insurer")
}

// Login checks credentials and returns a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (*Insurer, string, error) {
	i, err := s.insurers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.VerifyPassword(i.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(i.Email, i.ID.String(), "insurer")
	if err != nil {
		return nil, "", err
	}
	return i, token, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Insurer, error) {
	return s.insurers.GetByID(ctx, id)
}

// UpdateProfile applies the editable subset of fields to the insurer record.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, profile *Profile) (*Insurer, error) {
	i, err := s.insurers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.Apply(i)
	if err := s.insurers.UpdateProfile(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}
