// Package importer composes the bulk lead ingestion flow: normalize the
// raw batch, drop duplicates of persisted leads, persist the survivors
// concurrently, and account for every submitted record in the summary.
package importer

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/prospecta/leadpipe/internal/dedupe"
	"github.com/prospecta/leadpipe/internal/lead"
	"github.com/prospecta/leadpipe/internal/store"
)

// ErrNoValidLeads is returned when normalization rejects the whole batch.
// Its text is caller-visible.
var ErrNoValidLeads = errors.New("No valid leads found. firstName, lastName, and email are required.")

// Failure pairs a candidate with the message of its persistence error.
type Failure struct {
	Error string    `json:"error"`
	Lead  lead.Lead `json:"lead"`
}

// CreateResult aggregates a CreateMany batch.
type CreateResult struct {
	PersistedCount int
	Failures       []Failure
}

// ImportSummary is the final accounting of a bulk submission. Every
// submitted record lands in exactly one bucket: invalid, duplicate,
// persistence failure, or persisted.
type ImportSummary struct {
	ImportedCount     int       `json:"importedCount"`
	DuplicatesSkipped int       `json:"duplicatesSkipped"`
	InvalidLeads      int       `json:"invalidLeads"`
	Errors            []Failure `json:"errors"`
}

// Importer runs bulk submissions against an injected repository.
type Importer struct {
	repo   store.Repository
	engine *dedupe.Engine
	log    *slog.Logger
}

// New creates an Importer.
func New(repo store.Repository, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{
		repo:   repo,
		engine: dedupe.NewEngine(repo),
		log:    log,
	}
}

// CreateMany persists each candidate independently and concurrently. One
// candidate's failure never prevents the others from persisting; the
// orchestrator waits for every write before aggregating. Failures are
// reported in the candidates' original order even though writes complete
// in arbitrary order.
func (im *Importer) CreateMany(ctx context.Context, candidates []lead.Lead) CreateResult {
	if len(candidates) == 0 {
		return CreateResult{Failures: []Failure{}}
	}

	// One slot per candidate keeps reporting in submission order without
	// a post-join sort.
	errSlots := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if _, err := im.repo.Create(gctx, c); err != nil {
				im.log.Error("failed to persist lead",
					"firstName", c.FirstName,
					"lastName", c.LastName,
					"error", err,
				)
				errSlots[i] = err
			}
			return nil
		})
	}
	// Goroutines never return errors, so Wait is purely a barrier.
	_ = g.Wait()

	result := CreateResult{Failures: []Failure{}}
	for i, err := range errSlots {
		if err == nil {
			result.PersistedCount++
			continue
		}
		msg := err.Error()
		if msg == "" {
			msg = "Unknown error"
		}
		result.Failures = append(result.Failures, Failure{Error: msg, Lead: candidates[i]})
	}
	return result
}

// ImportLeads runs the end-to-end bulk flow and returns the summary.
// ErrNoValidLeads signals a caller error; any other error is an
// unexpected internal failure the transport layer must not expose.
func (im *Importer) ImportLeads(ctx context.Context, raws []lead.RawCandidate) (*ImportSummary, error) {
	validLeads := lead.MapValidLeads(raws)
	if len(validLeads) == 0 {
		return nil, ErrNoValidLeads
	}

	newLeads, err := im.engine.FindNewLeads(ctx, validLeads)
	if err != nil {
		return nil, err
	}

	result := im.CreateMany(ctx, newLeads)

	return &ImportSummary{
		ImportedCount:     result.PersistedCount,
		DuplicatesSkipped: len(validLeads) - len(newLeads),
		InvalidLeads:      len(raws) - len(validLeads),
		Errors:            result.Failures,
	}, nil
}
