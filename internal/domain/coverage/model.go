package coverage

import (
	"time"

	"github.com/google/uuid"
)

// Application status values.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Appointment status values carried on the patient row.
const (
	ApptPending   = "pending"
	ApptScheduled = "scheduled"
)

// Diagnosis status values carried on the patient row.
const (
	DiagnosisNone = "undiagnosed"
	DiagnosisSet  = "diagnosed"
)

// Application links one patient to one insurer. Rows are created on Apply,
// mutated only by the insurer's decision, and never deleted.
type Application struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	InsurerID uuid.UUID `db:"insurer_id" json:"insurer_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PatientState is the lifecycle facet of a patient row. This package is the
// sole writer of these fields.
type PatientState struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Email             string     `db:"email" json:"email"`
	Status            string     `db:"status" json:"status"`
	ApplicationStatus *string    `db:"appln_status" json:"application_status,omitempty"`
	AppointmentStatus string     `db:"appt_status" json:"appointment_status"`
	AppointmentTime   *time.Time `db:"appointment_time" json:"appointment_time,omitempty"`
}

// DashboardRow is one entry in an insurer's application dashboard: the
// application joined with a summary of its patient.
type DashboardRow struct {
	ApplicationID     uuid.UUID  `json:"application_id"`
	ApplicationStatus string     `json:"application_status"`
	PatientID         uuid.UUID  `json:"patient_id"`
	Name              string     `json:"name"`
	Age               int        `json:"age"`
	Gender            string     `json:"gender"`
	RiskLevel         *string    `json:"risk_level,omitempty"`
	MoodScore         *int       `json:"mood_score,omitempty"`
	AppointmentStatus string     `json:"appointment_status"`
	AppointmentTime   *time.Time `json:"appointment_time,omitempty"`
	CanBook           bool       `json:"can_book"`
}
