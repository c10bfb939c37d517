package coverage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	// Create inserts a pending application. A concurrent pending application
	// for the same patient surfaces as ErrDuplicatePendingApplication.
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	HasPending(ctx context.Context, patientID uuid.UUID) (bool, error)
	ListByInsurer(ctx context.Context, insurerID uuid.UUID, limit, offset int) ([]*DashboardRow, int, error)
}

// PatientStateRepository reads and writes the lifecycle facet of patient rows.
type PatientStateRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*PatientState, error)
	SetApplicationStatus(ctx context.Context, patientID uuid.UUID, applnStatus, apptStatus string) error
	SetAppointment(ctx context.Context, patientID uuid.UUID, when time.Time) error
	SetDiagnosis(ctx context.Context, patientID uuid.UUID, disease, riskLevel string) error
	SetRiskLevel(ctx context.Context, patientID uuid.UUID, riskLevel string) error
}

// InsurerDirectory answers existence checks against the insurer aggregate.
type InsurerDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
