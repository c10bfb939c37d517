package insurer

import (
	"time"

	"github.com/google/uuid"
)

// Insurer maps to the insurers table.
type Insurer struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CompanyName string    `db:"company_name" json:"company_name"`
	Email       string    `db:"email" json:"email"`
	Password    string    `db:"password" json:"-"`
	ContactNo   string    `db:"contact_no" json:"contact_no"`
	Address     string    `db:"address" json:"address"`
	District    string    `db:"district" json:"district"`
	Country     string    `db:"country" json:"country"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Profile is the caller-editable subset of an insurer record.
type Profile struct {
	CompanyName *string `json:"company_name,omitempty"`
	ContactNo   *string `json:"contact_no,omitempty"`
	Address     *string `json:"address,omitempty"`
	District    *string `json:"district,omitempty"`
	Country     *string `json:"country,omitempty"`
}

// Apply copies the set fields onto i.
func (pr *Profile) Apply(i *Insurer) {
	if pr.CompanyName != nil {
		i.CompanyName = *pr.CompanyName
	}
	if pr.ContactNo != nil {
		i.ContactNo = *pr.ContactNo
	}
	if pr.Address != nil {
		i.Address = *pr.Address
	}
	if pr.District != nil {
		i.District = *pr.District
	}
	if pr.Country != nil {
		i.Country = *pr.Country
	}
}
