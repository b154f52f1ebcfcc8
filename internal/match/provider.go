// Package match computes the candidate-to-vacancy compatibility score issued
// once per application.
package match

import (
	"context"

	"recruitpipe/internal/domain"
)

// Profile is the applicant-submitted snapshot scored against a vacancy.
type Profile struct {
	Name            string   `json:"name"`
	Summary         string   `json:"summary"`
	Skills          []string `json:"skills"`
	YearsExperience int      `json:"yearsExperience"`
	CurrentTitle    string   `json:"currentTitle"`
}

// Provider produces a 0-100 score. Implementations may call out to external
// services; callers treat any error as a degraded (not failed) submission.
type Provider interface {
	Score(ctx context.Context, p Profile, v domain.Vacancy) (int, error)
}
