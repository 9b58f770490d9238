// Package postgres implements the store.Repository against PostgreSQL
// using pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/prospecta/leadpipe/internal/lead"
	"github.com/prospecta/leadpipe/internal/store"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the pgx-backed lead store.
type Repository struct {
	db DBTX
}

// New creates a Repository over the given connection source.
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

const recordColumns = `id, created_at, updated_at, first_name, last_name, email,
	job_title, company_name, country_code, phone_number, years_at_company,
	linkedin_profile, message`

// FindByIdentity returns all persisted leads whose (first_name, last_name)
// matches any of the given pairs. The query is an OR of per-pair ANDs.
func (r *Repository) FindByIdentity(ctx context.Context, pairs []store.IdentityPair) ([]store.Record, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(pairs))
	args := make([]any, 0, len(pairs)*2)
	for i, p := range pairs {
		conditions = append(conditions,
			fmt.Sprintf("(first_name = $%d AND last_name = $%d)", i*2+1, i*2+2))
		args = append(args, strings.TrimSpace(p.FirstName), strings.TrimSpace(p.LastName))
	}

	query := fmt.Sprintf("SELECT %s FROM leads WHERE %s",
		recordColumns, strings.Join(conditions, " OR "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find leads by identity: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Create inserts a lead and returns the stored record.
func (r *Repository) Create(ctx context.Context, l lead.Lead) (store.Record, error) {
	const query = `INSERT INTO leads (
		first_name, last_name, email, job_title, company_name, country_code,
		phone_number, years_at_company, linkedin_profile
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING ` + recordColumns

	row := r.db.QueryRow(ctx, query,
		l.FirstName, l.LastName, l.Email,
		toPgText(l.JobTitle), toPgText(l.CompanyName), toPgText(l.CountryCode),
		toPgText(l.PhoneNumber), toPgText(l.YearsAtCompany), toPgText(l.LinkedinProfile),
	)

	rec, err := scanRecord(row)
	if err != nil {
		return store.Record{}, fmt.Errorf("create lead: %w", err)
	}
	return rec, nil
}

// FindByIDs returns the records for the given IDs.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]store.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM leads WHERE id = ANY($1)", recordColumns)
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("find leads by ids: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// SetMessage stores a generated message on an existing lead.
func (r *Repository) SetMessage(ctx context.Context, id uuid.UUID, message string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE leads SET message = $1, updated_at = now() WHERE id = $2",
		message, id)
	if err != nil {
		return fmt.Errorf("set lead message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lead %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (store.Record, error) {
	var rec store.Record
	var jobTitle, companyName, country pgtype.Text
	var phone, years, linkedin, message pgtype.Text

	err := row.Scan(
		&rec.ID, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.FirstName, &rec.LastName, &rec.Email,
		&jobTitle, &companyName, &country,
		&phone, &years, &linkedin, &message,
	)
	if err != nil {
		return store.Record{}, err
	}

	rec.JobTitle = fromPgText(jobTitle)
	rec.CompanyName = fromPgText(companyName)
	rec.CountryCode = fromPgText(country)
	rec.PhoneNumber = fromPgText(phone)
	rec.YearsAtCompany = fromPgText(years)
	rec.LinkedinProfile = fromPgText(linkedin)
	rec.Message = fromPgText(message)
	return rec, nil
}

func scanRecords(rows pgx.Rows) ([]store.Record, error) {
	var records []store.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return records, nil
}

func toPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func fromPgText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}
