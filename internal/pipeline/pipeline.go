// Package pipeline owns the candidate stage machine: a linear ordered
// pipeline with a single escape hatch into discarded.
package pipeline

import (
	"recruitpipe/internal/apperr"
	"recruitpipe/internal/domain"
)

var stageOrder = []domain.Stage{
	domain.StageApplication,
	domain.StageHRInterview,
	domain.StageTechnicalTest,
	domain.StageTechnicalInterview,
	domain.StageFinalInterview,
	domain.StageOffer,
	domain.StageHired,
}

// StageIndex returns the position in the forward pipeline, or -1 for
// discarded (off the linear track) and unknown values.
func StageIndex(s domain.Stage) int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func Terminal(s domain.Stage) bool {
	return s == domain.StageHired || s == domain.StageDiscarded
}

// Transition validates a stage change. Movement is forward-only along the
// pipeline (skipping stages is allowed); discarded is reachable from any
// non-terminal stage; terminal stages accept no further moves.
func Transition(from, to domain.Stage) error {
	if to == from {
		return nil
	}
	if Terminal(from) {
		return apperr.Validationf("stage %s is terminal", from)
	}
	if to == domain.StageDiscarded {
		return nil
	}
	fi, ti := StageIndex(from), StageIndex(to)
	if ti < 0 {
		return apperr.Validationf("unknown stage %q", to)
	}
	if ti < fi {
		return apperr.Validationf("cannot move candidate backwards from %s to %s", from, to)
	}
	return nil
}

// ClampTechnicalScore bounds a recruiter-entered score to the 0.0-5.0 scale.
func ClampTechnicalScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 5 {
		return 5
	}
	return score
}

type ScoreBand string

const (
	BandStrong   ScoreBand = "strong"
	BandAdequate ScoreBand = "adequate"
	BandWeak     ScoreBand = "weak"
)

// ClassifyTechnicalScore drives color coding only, never gating.
func ClassifyTechnicalScore(score float64) ScoreBand {
	switch {
	case score >= 4.0:
		return BandStrong
	case score >= 3.0:
		return BandAdequate
	default:
		return BandWeak
	}
}

// PublicState collapses the internal stage onto the simplified view the
// applicant tracking page shows.
func PublicState(s domain.Stage) domain.ApplicationState {
	switch s {
	case domain.StageApplication:
		return domain.AppNueva
	case domain.StageHRInterview, domain.StageTechnicalTest:
		return domain.AppEnRevision
	case domain.StageTechnicalInterview:
		return domain.AppEntrevista
	case domain.StageFinalInterview, domain.StageOffer:
		return domain.AppFinalista
	case domain.StageHired:
		return domain.AppContratado
	case domain.StageDiscarded:
		return domain.AppDescartado
	}
	return domain.AppNueva
}
