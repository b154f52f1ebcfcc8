package domain

import (
	"fmt"
	"time"
)

type VacancyState string

const (
	VacancyOpen       VacancyState = "open"
	VacancyInProgress VacancyState = "in_progress"
	VacancyFilled     VacancyState = "filled"
	VacancyCancelled  VacancyState = "cancelled"
	VacancySuspended  VacancyState = "suspended"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Vacancy is an open job requisition. RequisitionCode is assigned once at
// creation (sequential per tenant) and never changes afterwards.
type Vacancy struct {
	ID              int64        `json:"id"`
	TenantID        string       `json:"tenantId"`
	RequisitionCode string       `json:"requisitionCode"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"` // stored as HTML
	SiteID          int64        `json:"siteId"`
	ProcessRef      string       `json:"processRef,omitempty"`
	ProjectRef      string       `json:"projectRef,omitempty"`
	CostCenterRef   string       `json:"costCenterRef,omitempty"`
	State           VacancyState `json:"state"`
	Priority        Priority     `json:"priority"`
	Recruiter       string       `json:"responsibleRecruiter"`

	OpenedAt         time.Time  `json:"openedAt"`
	EstimatedCloseAt time.Time  `json:"estimatedCloseAt"`
	ActualCloseAt    *time.Time `json:"actualCloseAt,omitempty"`
	SLATargetDays    int        `json:"slaTargetDays"`

	ApprovedBudget   float64  `json:"approvedBudget"`
	MaxBudget        float64  `json:"maxBudget"`
	BaseSalary       float64  `json:"baseSalary"`
	OfferedSalary    float64  `json:"offeredSalary"`
	AgreedSalary     *float64 `json:"agreedSalary,omitempty"`
	VacancyCost      float64  `json:"vacancyCost"`
	DailyVacancyCost float64  `json:"dailyVacancyCost"`
	FinalHiringCost  *float64 `json:"finalHiringCost,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ParseVacancyState(s string) (VacancyState, error) {
	switch VacancyState(s) {
	case VacancyOpen, VacancyInProgress, VacancyFilled, VacancyCancelled, VacancySuspended:
		return VacancyState(s), nil
	}
	return "", fmt.Errorf("unknown vacancy state %q", s)
}

func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Active reports whether the vacancy still counts toward open headcount.
func (v Vacancy) Active() bool {
	return v.State == VacancyOpen || v.State == VacancyInProgress
}
