package match

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"go.uber.org/zap"

	"recruitpipe/internal/domain"
)

// DegradedScore is recorded when the provider fails: the submission still
// completes, it just carries no signal.
const DegradedScore = 0

type Engine struct {
	provider Provider
	log      *zap.Logger
}

func NewEngine(provider Provider, log *zap.Logger) *Engine {
	return &Engine{provider: provider, log: log}
}

// ScoreApplication runs the provider exactly once and never fails the
// submission: provider errors are logged and degrade to DegradedScore.
func (e *Engine) ScoreApplication(ctx context.Context, p Profile, v domain.Vacancy) int {
	score, err := e.provider.Score(ctx, p, v)
	if err != nil {
		e.log.Warn("scoring provider degraded",
			zap.Int64("vacancy_id", v.ID),
			zap.Error(err))
		return DegradedScore
	}
	return Clamp(score)
}

// NewTrackingToken returns 128 bits of crypto randomness as hex. It is the
// only credential guarding an application's public status page.
func NewTrackingToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
