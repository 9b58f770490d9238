// Package dedupe filters lead candidates against the persisted set.
//
// Identity is a canonical case-insensitive key built from first and last
// name. The engine only deduplicates candidates against already-persisted
// records; two candidates in the same batch sharing a key both survive.
// That mirrors the import flow's historical semantics and is intentional
// until the product decides otherwise.
package dedupe

import (
	"context"
	"strings"

	"github.com/prospecta/leadpipe/internal/lead"
	"github.com/prospecta/leadpipe/internal/store"
)

// Key returns the canonical duplicate-identity key for a name pair:
// lower(firstName) + "_" + lower(lastName).
func Key(firstName, lastName string) string {
	return strings.ToLower(firstName) + "_" + strings.ToLower(lastName)
}

// ToExistingKeys builds the canonical key set from persisted records.
func ToExistingKeys(records []store.Record) map[string]struct{} {
	keys := make(map[string]struct{}, len(records))
	for _, rec := range records {
		keys[Key(rec.FirstName, rec.LastName)] = struct{}{}
	}
	return keys
}

// FilterUnique retains candidates whose canonical key is absent from
// existingKeys, preserving input order. It does not deduplicate the
// candidates against each other.
func FilterUnique(candidates []lead.Lead, existingKeys map[string]struct{}) []lead.Lead {
	unique := make([]lead.Lead, 0, len(candidates))
	for _, c := range candidates {
		if _, exists := existingKeys[Key(c.FirstName, c.LastName)]; exists {
			continue
		}
		unique = append(unique, c)
	}
	return unique
}

// Engine cross-references candidate batches against the persisted store.
type Engine struct {
	repo store.Repository
}

// NewEngine creates a deduplication engine over the given repository.
func NewEngine(repo store.Repository) *Engine {
	return &Engine{repo: repo}
}

// FindNewLeads returns the candidates whose identity is not already
// persisted. The store is queried once with all candidate name pairs
// (OR across pairs); an empty candidate set short-circuits without a
// store call.
func (e *Engine) FindNewLeads(ctx context.Context, candidates []lead.Lead) ([]lead.Lead, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	pairs := make([]store.IdentityPair, len(candidates))
	for i, c := range candidates {
		pairs[i] = store.IdentityPair{
			FirstName: strings.TrimSpace(c.FirstName),
			LastName:  strings.TrimSpace(c.LastName),
		}
	}

	existing, err := e.repo.FindByIdentity(ctx, pairs)
	if err != nil {
		return nil, err
	}

	return FilterUnique(candidates, ToExistingKeys(existing)), nil
}
