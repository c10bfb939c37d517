package coverage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier delivers lifecycle emails. Delivery happens after commit and is
// best-effort: a failed send is logged, never surfaced to the caller.
type Notifier interface {
	NotifyStatus(ctx context.Context, email, name, status string) error
	NotifyAppointment(ctx context.Context, email, name string, when time.Time) error
}

// TxRunner runs fn inside a database transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	apps     ApplicationRepository
	patients PatientStateRepository
	insurers InsurerDirectory
	notifier Notifier
	runTx    TxRunner
	logger   zerolog.Logger
}

func NewService(
	apps ApplicationRepository,
	patients PatientStateRepository,
	insurers InsurerDirectory,
	notifier Notifier,
	runTx TxRunner,
	logger zerolog.Logger,
) *Service {
	return &Service{
		apps:     apps,
		patients: patients,
		insurers: insurers,
		notifier: notifier,
		runTx:    runTx,
		logger:   logger,
	}
}

// Apply files a coverage application for a patient with an insurer. A patient
// may hold at most one pending application, and may not re-apply once an
// application has been accepted.
func (s *Service) Apply(ctx context.Context, patientID, insurerID uuid.UUID) (*Application, error) {
	app := &Application{PatientID: patientID, InsurerID: insurerID, Status: StatusPending}

	err := s.runTx(ctx, func(ctx context.Context) error {
		p, err := s.patients.Get(ctx, patientID)
		if err != nil {
			return err
		}
		if p.ApplicationStatus != nil && *p.ApplicationStatus == StatusAccepted {
			return ErrAlreadyCovered
		}

		ok, err := s.insurers.Exists(ctx, insurerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		pending, err := s.apps.HasPending(ctx, patientID)
		if err != nil {
			return err
		}
		if pending {
			return ErrDuplicatePendingApplication
		}

		if err := s.apps.Create(ctx, app); err != nil {
			return err
		}
		return s.patients.SetApplicationStatus(ctx, patientID, StatusPending, ApptPending)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Decide records an insurer's accept or decline on a pending application.
// Either decision resets the patient's appointment slot; a later acceptance
// after a decline starts the booking flow fresh.
func (s *Service) Decide(ctx context.Context, insurerID, appID uuid.UUID, decision string) (*Application, error) {
	if decision != StatusAccepted && decision != StatusDeclined {
		return nil, ErrInvalidDecision
	}

	var (
		app     *Application
		patient *PatientState
	)
	err := s.runTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.apps.GetByID(ctx, appID)
		if err != nil {
			return err
		}
		if app.InsurerID != insurerID {
			return ErrForbidden
		}
		if app.Status != StatusPending {
			return ErrInvalidDecision
		}

		patient, err = s.patients.Get(ctx, app.PatientID)
		if err != nil {
			return err
		}

		if err := s.apps.SetStatus(ctx, appID, decision); err != nil {
			return err
		}
		app.Status = decision
		return s.patients.SetApplicationStatus(ctx, app.PatientID, decision, ApptPending)
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyStatus(ctx, patient.Email, patient.Name, decision); err != nil {
		s.logger.Error().Err(err).
			Str("patient_id", app.PatientID.String()).
			Str("status", decision).
			Msg("status notification failed")
	}
	return app, nil
}

// Book schedules an appointment for an accepted application. An application
// gets at most one appointment.
func (s *Service) Book(ctx context.Context, insurerID, appID uuid.UUID, when time.Time) error {
	var patient *PatientState
	err := s.runTx(ctx, func(ctx context.Context) error {
		app, err := s.apps.GetByID(ctx, appID)
		if err != nil {
			return err
		}
		if app.InsurerID != insurerID {
			return ErrForbidden
		}
		if app.Status != StatusAccepted {
			return ErrApplicationNotAccepted
		}

		patient, err = s.patients.Get(ctx, app.PatientID)
		if err != nil {
			return err
		}
		if patient.AppointmentStatus == ApptScheduled {
			return ErrAlreadyScheduled
		}
		return s.patients.SetAppointment(ctx, app.PatientID, when)
	})
	if err != nil {
		return err
	}

	if err := s.notifier.NotifyAppointment(ctx, patient.Email, patient.Name, when); err != nil {
		s.logger.Error().Err(err).
			Str("patient_id", patient.ID.String()).
			Msg("appointment notification failed")
	}
	return nil
}

// ApplyClassification records a document classification result on the
// patient record and marks the patient diagnosed.
func (s *Service) ApplyClassification(ctx context.Context, patientID uuid.UUID, disease, riskLevel string) error {
	if disease == "" || disease == "N/A" {
		return ErrNotApplicable
	}
	return s.runTx(ctx, func(ctx context.Context) error {
		if _, err := s.patients.Get(ctx, patientID); err != nil {
			return err
		}
		return s.patients.SetDiagnosis(ctx, patientID, disease, riskLevel)
	})
}

// ApplyRiskLevel updates only the patient's risk level, leaving diagnosis
// state untouched.
func (s *Service) ApplyRiskLevel(ctx context.Context, patientID uuid.UUID, label string) error {
	return s.runTx(ctx, func(ctx context.Context) error {
		if _, err := s.patients.Get(ctx, patientID); err != nil {
			return err
		}
		return s.patients.SetRiskLevel(ctx, patientID, label)
	})
}

// ListForInsurer returns the insurer's dashboard rows.
func (s *Service) ListForInsurer(ctx context.Context, insurerID uuid.UUID, limit, offset int) ([]*DashboardRow, int, error) {
	return s.apps.ListByInsurer(ctx, insurerID, limit, offset)
}
