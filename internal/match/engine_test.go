package match

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"recruitpipe/internal/config"
	"recruitpipe/internal/domain"
)

type stubProvider struct {
	score int
	err   error
}

func (s stubProvider) Score(context.Context, Profile, domain.Vacancy) (int, error) {
	return s.score, s.err
}

func TestScoreApplicationDegradesOnProviderError(t *testing.T) {
	e := NewEngine(stubProvider{err: errors.New("provider down")}, zap.NewNop())
	got := e.ScoreApplication(context.Background(), Profile{Name: "x"}, domain.Vacancy{ID: 1})
	if got != DegradedScore {
		t.Errorf("score = %d, want degraded %d", got, DegradedScore)
	}
}

func TestScoreApplicationClampsProviderOutput(t *testing.T) {
	tests := []struct{ in, want int }{
		{-20, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{140, 100},
	}
	for _, tt := range tests {
		e := NewEngine(stubProvider{score: tt.in}, zap.NewNop())
		if got := e.ScoreApplication(context.Background(), Profile{}, domain.Vacancy{}); got != tt.want {
			t.Errorf("ScoreApplication with provider output %d = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func ruleCfg() config.Config {
	var cfg config.Config
	cfg.Matching.BaseScore = 40
	cfg.Matching.SkillRules = []config.Rule{
		{Tag: "Go", Weight: 20, Any: []string{"golang"}},
		{Tag: "SQL", Weight: 10, Any: []string{"sql"}},
	}
	cfg.Matching.TitleRules = []config.Rule{
		{Tag: "Seniority", Weight: 10, Any: []string{"senior"}},
	}
	cfg.Matching.Penalties = []config.Penalty{
		{Reason: "career change", Weight: -15, Any: []string{"career change"}},
	}
	return cfg
}

func TestRuleProviderScoresAgainstVacancyText(t *testing.T) {
	p := RuleProvider{Cfg: ruleCfg()}
	v := domain.Vacancy{
		Title:       "Senior Backend Engineer",
		Description: "<p>We need <b>Golang</b> and SQL experience.</p>",
	}

	score, err := p.Score(context.Background(), Profile{
		Summary:      "Ten years of golang and sql",
		CurrentTitle: "Senior Engineer",
	}, v)
	if err != nil {
		t.Fatal(err)
	}
	// base 40 + golang 20 + sql 10 + senior 10
	if score != 80 {
		t.Errorf("score = %d, want 80", score)
	}
}

func TestRuleProviderIgnoresSkillsVacancyNeverAsksFor(t *testing.T) {
	p := RuleProvider{Cfg: ruleCfg()}
	v := domain.Vacancy{Title: "Accountant", Description: "<p>Bookkeeping role.</p>"}

	score, err := p.Score(context.Background(), Profile{Summary: "golang sql expert"}, v)
	if err != nil {
		t.Fatal(err)
	}
	if score != 40 {
		t.Errorf("score = %d, want base 40", score)
	}
}

func TestRuleProviderPenalty(t *testing.T) {
	p := RuleProvider{Cfg: ruleCfg()}
	score, err := p.Score(context.Background(),
		Profile{Summary: "career change into tech"},
		domain.Vacancy{Title: "Engineer"})
	if err != nil {
		t.Fatal(err)
	}
	if score != 25 {
		t.Errorf("score = %d, want 25", score)
	}
}

func TestNewTrackingToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := NewTrackingToken()
		if err != nil {
			t.Fatal(err)
		}
		if len(tok) != 32 {
			t.Fatalf("token length = %d, want 32 hex chars", len(tok))
		}
		if seen[tok] {
			t.Fatal("duplicate tracking token")
		}
		seen[tok] = true
	}
}
