package pipeline

import (
	"time"

	"recruitpipe/internal/apperr"
	"recruitpipe/internal/domain"
)

// NewCandidate validates manual registration / application intake fields and
// fills the defaults.
func NewCandidate(tenant string, vacancyID int64, name string, source domain.Source) (domain.Candidate, error) {
	if name == "" {
		return domain.Candidate{}, apperr.Validation("invalid candidate", map[string]string{"name": "name is required"})
	}
	if vacancyID == 0 {
		return domain.Candidate{}, apperr.Validation("invalid candidate", map[string]string{"vacancyId": "vacancy is required"})
	}
	if source == "" {
		source = domain.SourceOther
	}
	return domain.Candidate{
		TenantID:        tenant,
		VacancyID:       vacancyID,
		Name:            name,
		Source:          source,
		Stage:           domain.StageApplication,
		InterviewStatus: domain.InterviewPending,
	}, nil
}

// Patch holds the mutable candidate fields.
type Patch struct {
	Stage           *string    `json:"stage,omitempty"`
	Source          *string    `json:"recruitmentSource,omitempty"`
	CVURL           *string    `json:"cvUrl,omitempty"`
	InterviewStatus *string    `json:"interviewStatus,omitempty"`
	InterviewDate   *time.Time `json:"interviewDate,omitempty"`
	TechnicalScore  *float64   `json:"technicalScore,omitempty"`
	AITechScore     *int       `json:"aiTechnicalScore,omitempty"`
	Result          *string    `json:"result,omitempty"`
	NotFitReason    *string    `json:"notFitReason,omitempty"`
	Retention90d    *string    `json:"retention90d,omitempty"`
}

// ApplyPatch mutates c in place. Stage transitions go through Transition;
// a not_fit result requires a reason; retention90d is only writable once the
// candidate is hired; technical scores are clamped, not rejected.
func ApplyPatch(c *domain.Candidate, p Patch) error {
	if p.Stage != nil {
		to, err := domain.ParseStage(*p.Stage)
		if err != nil {
			return apperr.Validationf("%v", err)
		}
		if err := Transition(c.Stage, to); err != nil {
			return err
		}
		c.Stage = to
	}
	if p.Source != nil {
		src, err := domain.ParseSource(*p.Source)
		if err != nil {
			return apperr.Validationf("%v", err)
		}
		c.Source = src
	}
	if p.CVURL != nil {
		c.CVURL = *p.CVURL
	}
	if p.InterviewStatus != nil {
		st, err := domain.ParseInterviewStatus(*p.InterviewStatus)
		if err != nil {
			return apperr.Validationf("%v", err)
		}
		c.InterviewStatus = st
	}
	if p.InterviewDate != nil {
		c.InterviewDate = p.InterviewDate
	}
	if p.TechnicalScore != nil {
		clamped := ClampTechnicalScore(*p.TechnicalScore)
		c.TechnicalScore = &clamped
	}
	if p.AITechScore != nil {
		if *p.AITechScore < 0 || *p.AITechScore > 100 {
			return apperr.Validationf("aiTechnicalScore must be 0..100")
		}
		c.AITechnicalScore = p.AITechScore
	}
	if p.Result != nil {
		res, err := domain.ParseResult(*p.Result)
		if err != nil {
			return apperr.Validationf("%v", err)
		}
		if res == domain.ResultNotFit {
			reason := c.NotFitReason
			if p.NotFitReason != nil {
				reason = *p.NotFitReason
			}
			if reason == "" {
				return apperr.Validation("invalid result", map[string]string{"notFitReason": "a not_fit result requires a reason"})
			}
		}
		c.Result = &res
	}
	if p.NotFitReason != nil {
		c.NotFitReason = *p.NotFitReason
	}
	if p.Retention90d != nil {
		if c.Stage != domain.StageHired {
			return apperr.Validationf("retention90d can only be set after the candidate is hired")
		}
		ret, err := domain.ParseRetention(*p.Retention90d)
		if err != nil {
			return apperr.Validationf("%v", err)
		}
		c.Retention90d = &ret
	}
	return nil
}
