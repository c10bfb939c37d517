package patient

import (
	"time"

	"github.com/google/uuid"
)

// Diagnosis status values. A patient is "diagnosed" exactly when a disease
// name has been written by the intake pipeline.
const (
	StatusUndiagnosed = "undiagnosed"
	StatusDiagnosed   = "diagnosed"
)

// Patient maps to the patients table.
type Patient struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Age               int        `db:"age" json:"age"`
	Gender            string     `db:"gender" json:"gender"`
	ContactNo         string     `db:"contact_no" json:"contact_no"`
	Email             string     `db:"email" json:"email"`
	Password          string     `db:"password" json:"-"`
	Address           string     `db:"address" json:"address"`
	District          string     `db:"district" json:"district"`
	Country           string     `db:"country" json:"country"`
	Status            string     `db:"status" json:"status"`
	DiseaseName       *string    `db:"disease_name" json:"disease_name,omitempty"`
	RiskLevel         *string    `db:"risk_level" json:"risk_level,omitempty"`
	MoodScore         *int       `db:"mood_score" json:"mood_score,omitempty"`
	ApplicationStatus *string    `db:"appln_status" json:"application_status,omitempty"`
	AppointmentStatus string     `db:"appt_status" json:"appointment_status"`
	AppointmentTime   *time.Time `db:"appointment_time" json:"appointment_time,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile is the caller-editable subset of a patient record. Lifecycle fields
// (application, appointment, diagnosis, risk) are owned by the coverage
// package and never pass through here.
type Profile struct {
	Name      *string `json:"name,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	ContactNo *string `json:"contact_no,omitempty"`
	Address   *string `json:"address,omitempty"`
	District  *string `json:"district,omitempty"`
	Country   *string `json:"country,omitempty"`
}

// Apply copies the set fields onto p.
func (pr *Profile) Apply(p *Patient) {
	if pr.Name != nil {
		p.Name = *pr.Name
	}
	if pr.Age != nil {
		p.Age = *pr.Age
	}
	if pr.Gender != nil {
		p.Gender = *pr.Gender
	}
	if pr.ContactNo != nil {
		p.ContactNo = *pr.ContactNo
	}
	if pr.Address != nil {
		p.Address = *pr.Address
	}
	if pr.District != nil {
		p.District = *pr.District
	}
	if pr.Country != nil {
		p.Country = *pr.Country
	}
}
