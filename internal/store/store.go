// Package store defines the persisted-lead repository boundary.
//
// The ingestion pipeline never talks to a database directly; it receives
// a Repository as an explicit dependency so tests can substitute a fake.
// The postgres subpackage provides the production implementation.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prospecta/leadpipe/internal/lead"
)

// IdentityPair is a (firstName, lastName) pair used for duplicate lookup.
type IdentityPair struct {
	FirstName string
	LastName  string
}

// Record is a persisted lead.
type Record struct {
	ID              uuid.UUID `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	JobTitle        *string   `json:"jobTitle"`
	CompanyName     *string   `json:"companyName"`
	CountryCode     *string   `json:"countryCode"`
	PhoneNumber     *string   `json:"phoneNumber"`
	YearsAtCompany  *string   `json:"yearsAtCompany"`
	LinkedinProfile *string   `json:"linkedinProfile"`
	Message         *string   `json:"message"`
}

// Repository is the abstract store consumed by the pipeline.
type Repository interface {
	// FindByIdentity returns all records matching ANY of the given pairs
	// (OR across pairs, AND within a pair). Empty input returns an empty
	// result without touching the store.
	FindByIdentity(ctx context.Context, pairs []IdentityPair) ([]Record, error)

	// Create persists one lead and returns the stored record.
	Create(ctx context.Context, l lead.Lead) (Record, error)

	// FindByIDs returns the records for the given IDs, in store order.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Record, error)

	// SetMessage stores a generated message on an existing record.
	SetMessage(ctx context.Context, id uuid.UUID, message string) error
}
