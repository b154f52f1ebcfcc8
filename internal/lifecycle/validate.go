package lifecycle

import (
	"time"

	"recruitpipe/internal/apperr"
	"recruitpipe/internal/domain"
)

// ValidateNew checks the requisition intake fields. The requisition code is
// not validated here: the store assigns it.
func ValidateNew(v domain.Vacancy) error {
	fields := map[string]string{}
	if v.Title == "" {
		fields["title"] = "title is required"
	}
	if v.SiteID == 0 {
		fields["siteId"] = "site is required"
	}
	if v.OpenedAt.IsZero() {
		fields["openedAt"] = "opening date is required"
	}
	if v.EstimatedCloseAt.IsZero() {
		fields["estimatedCloseAt"] = "estimated close date is required"
	} else if !v.OpenedAt.IsZero() && v.EstimatedCloseAt.Before(v.OpenedAt) {
		fields["estimatedCloseAt"] = "estimated close date must not precede the opening date"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid vacancy", fields)
	}
	return nil
}

// Patch holds the post-creation mutable fields. Identity (requisition code,
// tenant) and openedAt are not patchable.
type Patch struct {
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	State            *string    `json:"state,omitempty"`
	Priority         *string    `json:"priority,omitempty"`
	Recruiter        *string    `json:"responsibleRecruiter,omitempty"`
	EstimatedCloseAt *time.Time `json:"estimatedCloseAt,omitempty"`
	ActualCloseAt    *time.Time `json:"actualCloseAt,omitempty"`
	SLATargetDays    *int       `json:"slaTargetDays,omitempty"`
	ApprovedBudget   *float64   `json:"approvedBudget,omitempty"`
	MaxBudget        *float64   `json:"maxBudget,omitempty"`
	BaseSalary       *float64   `json:"baseSalary,omitempty"`
	OfferedSalary    *float64   `json:"offeredSalary,omitempty"`
	AgreedSalary     *float64   `json:"agreedSalary,omitempty"`
	VacancyCost      *float64   `json:"vacancyCost,omitempty"`
	DailyVacancyCost *float64   `json:"dailyVacancyCost,omitempty"`
	FinalHiringCost  *float64   `json:"finalHiringCost,omitempty"`
}

// ApplyPatch mutates v in place, holding the invariant that actualCloseAt is
// set if and only if the vacancy is filled. Moving to filled without an
// explicit close date defaults it to now.
func ApplyPatch(v *domain.Vacancy, p Patch, now time.Time) error {
	if p.Title != nil {
		if *p.Title == "" {
			return apperr.Validationf("title cannot be emptied")
		}
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.State != nil {
		st, err := domain.ParseVacancyState(*p.State)
		if err != nil {
			return apperr.Validationf("%v", err)
		}
		v.State = st
	}
	if p.Priority != nil {
		pr, err := domain.ParsePriority(*p.Priority)
		if err != nil {
			return apperr.Validationf("%v", err)
		}
		v.Priority = pr
	}
	if p.Recruiter != nil {
		v.Recruiter = *p.Recruiter
	}
	if p.EstimatedCloseAt != nil {
		if p.EstimatedCloseAt.Before(v.OpenedAt) {
			return apperr.Validationf("estimated close date must not precede the opening date")
		}
		v.EstimatedCloseAt = *p.EstimatedCloseAt
	}
	if p.ActualCloseAt != nil {
		v.ActualCloseAt = p.ActualCloseAt
	}
	if p.SLATargetDays != nil {
		if *p.SLATargetDays < 1 {
			return apperr.Validationf("slaTargetDays must be >= 1")
		}
		v.SLATargetDays = *p.SLATargetDays
	}
	if p.ApprovedBudget != nil {
		v.ApprovedBudget = *p.ApprovedBudget
	}
	if p.MaxBudget != nil {
		v.MaxBudget = *p.MaxBudget
	}
	if p.BaseSalary != nil {
		v.BaseSalary = *p.BaseSalary
	}
	if p.OfferedSalary != nil {
		v.OfferedSalary = *p.OfferedSalary
	}
	if p.AgreedSalary != nil {
		v.AgreedSalary = p.AgreedSalary
	}
	if p.VacancyCost != nil {
		v.VacancyCost = *p.VacancyCost
	}
	if p.DailyVacancyCost != nil {
		v.DailyVacancyCost = *p.DailyVacancyCost
	}
	if p.FinalHiringCost != nil {
		v.FinalHiringCost = p.FinalHiringCost
	}

	syncCloseDate(v, now)
	return nil
}
