package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// PurgeService deletes expired rows of every kind. Each kind is its own unit
// of work: a failure in one delete leaves the others' completed work in
// place, which is safe because expired rows are inert either way.
type PurgeService struct {
	tests       ExpiredDeleter
	subs        ExpiredDeleter
	corrections ExpiredDeleter
	log         zerolog.Logger
}

// NewPurgeService creates a new PurgeService.
func NewPurgeService(tests, subs, corrections ExpiredDeleter, log zerolog.Logger) *PurgeService {
	return &PurgeService{
		tests:       tests,
		subs:        subs,
		corrections: corrections,
		log:         log.With().Str("component", "purge_service").Logger(),
	}
}

// PurgeResult counts the rows deleted per kind.
type PurgeResult struct {
	Tests       int64 `json:"tests"`
	Submissions int64 `json:"submissions"`
	Corrections int64 `json:"corrections"`
}

// PurgeExpired removes expired corrections, submissions and tests, children
// before parents. A row is only deleted once nothing references it anymore,
// so an expired test never takes a still-reviewable submission down with it.
// On partial failure the counts of the kinds that did complete are still
// returned alongside the joined error.
func (s *PurgeService) PurgeExpired(ctx context.Context) (PurgeResult, error) {
	var res PurgeResult
	var errs []error

	var err error
	if res.Corrections, err = s.corrections.DeleteExpired(ctx); err != nil {
		errs = append(errs, fmt.Errorf("purge corrections: %w", err))
	}
	if res.Submissions, err = s.subs.DeleteExpired(ctx); err != nil {
		errs = append(errs, fmt.Errorf("purge submissions: %w", err))
	}
	if res.Tests, err = s.tests.DeleteExpired(ctx); err != nil {
		errs = append(errs, fmt.Errorf("purge tests: %w", err))
	}

	s.log.Info().
		Int64("tests", res.Tests).
		Int64("submissions", res.Submissions).
		Int64("corrections", res.Corrections).
		Int("failures", len(errs)).
		Msg("Purge completed")

	return res, errors.Join(errs...)
}
