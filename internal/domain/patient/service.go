package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mindcover/mindcover/internal/domain/insurer"
	"github.com/mindcover/mindcover/internal/platform/auth"
)

var (
	ErrNotFound           = errors.New("patient not found")
	ErrEmailTaken         = errors.New("patient email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidMoodScore   = errors.New("mood score must be between 1 and 10")
)

type Service struct {
	patients Repository
	insurers insurer.Repository
	tokens   *auth.TokenIssuer
}

func NewService(patients Repository, insurers insurer.Repository, tokens *auth.TokenIssuer) *Service {
	return &Service{patients: patients, insurers: insurers, tokens: tokens}
}

// Signup registers a patient and returns a bearer token for it.
func (s *Service) Signup(ctx context.Context, p *Patient, password string) (string, error) {
	if p.Name == "" || p.Email == "" || password == "" {
		return "", fmt.Errorf("name, email and password are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	p.Password = hash
	if err := s.patients.Create(ctx, p); err != nil {
		return "", err
	}
	return s.tokens.Issue(p.Email, p.ID.String(), "patient")
}

// Login checks credentials and returns a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (*Patient, string, error) {
	p, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.VerifyPassword(p.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(p.Email, p.ID.String(), "patient")
	if err != nil {
		return nil, "", err
	}
	return p, token, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// UpdateProfile applies the editable subset of fields to the patient record.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, profile *Profile) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.Apply(p)
	if err := s.patients.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetMoodScore stores a patient-supplied mood score.
func (s *Service) SetMoodScore(ctx context.Context, id uuid.UUID, score int) error {
	if score < 1 || score > 10 {
		return ErrInvalidMoodScore
	}
	return s.patients.SetMoodScore(ctx, id, score)
}

// ProvidersInDistrict lists the insurers operating in the patient's district.
func (s *Service) ProvidersInDistrict(ctx context.Context, patientID uuid.UUID) ([]*insurer.Insurer, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return s.insurers.ListByDistrict(ctx, p.District)
}
