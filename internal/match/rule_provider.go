package match

import (
	"context"
	"strings"

	"recruitpipe/internal/config"
	"recruitpipe/internal/domain"
	"recruitpipe/internal/htmltext"
)

// RuleProvider scores with the operator-configured keyword rules. It is the
// default provider when no external scoring service is wired in.
type RuleProvider struct {
	Cfg config.Config
}

func (s RuleProvider) Score(_ context.Context, p Profile, v domain.Vacancy) (int, error) {
	profileText := strings.ToLower(p.Summary + " " + strings.Join(p.Skills, " "))
	titleText := strings.ToLower(p.CurrentTitle + " " + v.Title)
	vacancyText := strings.ToLower(htmltext.Text(v.Description))

	score := s.Cfg.Matching.BaseScore

	applyRules := func(rules []config.Rule, text string) {
		for _, r := range rules {
			for _, needle := range r.Any {
				n := strings.ToLower(needle)
				// only reward skills the vacancy actually asks for
				if strings.Contains(text, n) && (vacancyText == "" || strings.Contains(vacancyText, n) || strings.Contains(titleText, n)) {
					score += r.Weight
					break
				}
			}
		}
	}

	applyRules(s.Cfg.Matching.SkillRules, profileText)
	applyRules(s.Cfg.Matching.TitleRules, titleText)

	for _, pen := range s.Cfg.Matching.Penalties {
		for _, needle := range pen.Any {
			if strings.Contains(profileText, strings.ToLower(needle)) {
				score += pen.Weight
				break
			}
		}
	}

	return Clamp(score), nil
}

// Clamp bounds a raw score to the 0-100 contract.
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
