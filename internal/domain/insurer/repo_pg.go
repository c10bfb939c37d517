package insurer

import (
	"context"
	"errors"

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const insurerCols = `id, company_name, email, password, contact_no, address, district, country,
	created_at, updated_at`

func scanInsurer(row pgx.Row) (*Insurer, error) {
	var i Insurer
	err := row.Scan(&i.ID, &i.CompanyName, &i.Email, &i.Password, &i.ContactNo,
		&i.Address, &i.District, &i.Country, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &i, err
}

func (r *repoPG) Create(ctx context.Context, i *Insurer) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO insurers (id, company_name, email, password, contact_no, address, district, country)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		i.ID, i.CompanyName, i.Email, i.Password, i.ContactNo, i.Address, i.District, i.Country)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Insurer, error) {
	return scanInsurer(r.conn(ctx).QueryRow(ctx, `SELECT `+insurerCols+` FROM insurers WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Insurer, error) {
	return scanInsurer(r.conn(ctx).QueryRow(ctx, `SELECT `+insurerCols+` FROM insurers WHERE email = $1`, email))
}

func (r *repoPG) UpdateProfile(ctx context.Context, i *Insurer) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE insurers SET company_name=$2, contact_no=$3, address=$4, district=$5, country=$6,
			updated_at=NOW()
		WHERE id = $1`,
		i.ID, i.CompanyName, i.ContactNo, i.Address, i.District, i.Country)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByDistrict(ctx context.Context, district string) ([]*Insurer, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+insurerCols+` FROM insurers WHERE district = $1 ORDER BY company_name`, district)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Insurer
	for rows.Next() {
		i, err := scanInsurer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
