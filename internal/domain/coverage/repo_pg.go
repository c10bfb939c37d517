package coverage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindcover/mindcover/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Application Repository ===========

type applicationRepoPG struct{ pool queryable }

func NewApplicationRepoPG(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepoPG{pool: pool}
}

func (r *applicationRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const appCols = `id, patient_id, insurer_id, status, created_at, updated_at`

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	err := row.Scan(&a.ID, &a.PatientID, &a.InsurerID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *applicationRepoPG) Create(ctx context.Context, a *Application) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO applications (id, patient_id, insurer_id, status)
		VALUES ($1,$2,$3,$4)`,
		a.ID, a.PatientID, a.InsurerID, a.Status)
	// The partial unique index on (patient_id) WHERE status='pending' turns a
	// concurrent duplicate apply into a unique violation.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicatePendingApplication
	}
	return err
}

func (r *applicationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	return scanApplication(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appCols+` FROM applications WHERE id = $1`, id))
}

func (r *applicationRepoPG) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE applications SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *applicationRepoPG) HasPending(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE patient_id = $1 AND status = $2)`,
		patientID, StatusPending).Scan(&exists)
	return exists, err
}

func (r *applicationRepoPG) ListByInsurer(ctx context.Context, insurerID uuid.UUID, limit, offset int) ([]*DashboardRow, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM applications WHERE insurer_id = $1`, insurerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.id, a.status, p.id, p.name, p.age, p.gender, p.risk_level, p.mood_score,
			p.appt_status, p.appointment_time
		FROM applications a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.insurer_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3`, insurerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*DashboardRow
	for rows.Next() {
		var d DashboardRow
		if err := rows.Scan(&d.ApplicationID, &d.ApplicationStatus, &d.PatientID, &d.Name,
			&d.Age, &d.Gender, &d.RiskLevel, &d.MoodScore,
			&d.AppointmentStatus, &d.AppointmentTime); err != nil {
			return nil, 0, err
		}
		d.CanBook = d.ApplicationStatus == StatusAccepted && d.AppointmentStatus != ApptScheduled
		items = append(items, &d)
	}
	return items, total, rows.Err()
}

// =========== Patient State Repository ===========

type patientStateRepoPG struct{ pool queryable }

func NewPatientStateRepoPG(pool *pgxpool.Pool) PatientStateRepository {
	return &patientStateRepoPG{pool: pool}
}

func (r *patientStateRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *patientStateRepoPG) Get(ctx context.Context, id uuid.UUID) (*PatientState, error) {
	var p PatientState
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, name, email, status, appln_status, appt_status, appointment_time
		FROM patients WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Email, &p.Status, &p.ApplicationStatus,
			&p.AppointmentStatus, &p.AppointmentTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *patientStateRepoPG) SetApplicationStatus(ctx context.Context, patientID uuid.UUID, applnStatus, apptStatus string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET appln_status=$2, appt_status=$3, updated_at=NOW() WHERE id = $1`,
		patientID, applnStatus, apptStatus)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientStateRepoPG) SetAppointment(ctx context.Context, patientID uuid.UUID, when time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET appt_status=$2, appointment_time=$3, updated_at=NOW() WHERE id = $1`,
		patientID, ApptScheduled, when)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientStateRepoPG) SetDiagnosis(ctx context.Context, patientID uuid.UUID, disease, riskLevel string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET disease_name=$2, risk_level=$3, status=$4, updated_at=NOW() WHERE id = $1`,
		patientID, disease, riskLevel, DiagnosisSet)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientStateRepoPG) SetRiskLevel(ctx context.Context, patientID uuid.UUID, riskLevel string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET risk_level=$2, updated_at=NOW() WHERE id = $1`, patientID, riskLevel)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =========== Insurer Directory ===========

type insurerDirectoryPG struct{ pool queryable }

func NewInsurerDirectoryPG(pool *pgxpool.Pool) InsurerDirectory {
	return &insurerDirectoryPG{pool: pool}
}

func (r *insurerDirectoryPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *insurerDirectoryPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM insurers WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
