package domain

import (
	"fmt"
	"time"
)

// Stage is the candidate pipeline position. Stages are ordered; Discarded is
// reachable from any non-terminal stage, Hired and Discarded are terminal.
type Stage string

const (
	StageApplication        Stage = "application"
	StageHRInterview        Stage = "hr_interview"
	StageTechnicalTest      Stage = "technical_test"
	StageTechnicalInterview Stage = "technical_interview"
	StageFinalInterview     Stage = "final_interview"
	StageOffer              Stage = "offer"
	StageHired              Stage = "hired"
	StageDiscarded          Stage = "discarded"
)

type InterviewStatus string

const (
	InterviewPending    InterviewStatus = "pending"
	InterviewInProgress InterviewStatus = "in_progress"
	InterviewDone       InterviewStatus = "done"
	InterviewNoShow     InterviewStatus = "no_show"
)

type Result string

const (
	ResultFit    Result = "fit"
	ResultNotFit Result = "not_fit"
	ResultOnHold Result = "on_hold"
)

// Retention is the 90-day post-hire outcome, set only after StageHired.
type Retention string

const (
	RetentionContinuing      Retention = "continuing"
	RetentionVoluntaryExit   Retention = "voluntary_exit"
	RetentionPerformanceExit Retention = "performance_exit"
)

type Source string

const (
	SourceLinkedIn    Source = "linkedin"
	SourceJobBoard    Source = "job_board"
	SourceReferral    Source = "referral"
	SourceCompanySite Source = "company_site"
	SourceOther       Source = "other"
)

type Candidate struct {
	ID        int64  `json:"id"`
	TenantID  string `json:"tenantId"`
	VacancyID int64  `json:"vacancyId"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	Stage           Stage           `json:"stage"`
	Source          Source          `json:"recruitmentSource"`
	InterviewStatus InterviewStatus `json:"interviewStatus"`
	InterviewDate   *time.Time      `json:"interviewDate,omitempty"`

	TechnicalScore   *float64   `json:"technicalScore,omitempty"`   // 0.0 - 5.0
	AITechnicalScore *int       `json:"aiTechnicalScore,omitempty"` // 0 - 100, vendor supplied
	Result           *Result    `json:"result,omitempty"`
	NotFitReason     string     `json:"notFitReason,omitempty"`
	Retention90d     *Retention `json:"retention90d,omitempty"`
	CVURL            string     `json:"cvUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageApplication, StageHRInterview, StageTechnicalTest, StageTechnicalInterview,
		StageFinalInterview, StageOffer, StageHired, StageDiscarded:
		return Stage(s), nil
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

func ParseInterviewStatus(s string) (InterviewStatus, error) {
	switch InterviewStatus(s) {
	case InterviewPending, InterviewInProgress, InterviewDone, InterviewNoShow:
		return InterviewStatus(s), nil
	}
	return "", fmt.Errorf("unknown interview status %q", s)
}

func ParseResult(s string) (Result, error) {
	switch Result(s) {
	case ResultFit, ResultNotFit, ResultOnHold:
		return Result(s), nil
	}
	return "", fmt.Errorf("unknown result %q", s)
}

func ParseRetention(s string) (Retention, error) {
	switch Retention(s) {
	case RetentionContinuing, RetentionVoluntaryExit, RetentionPerformanceExit:
		return Retention(s), nil
	}
	return "", fmt.Errorf("unknown retention status %q", s)
}

func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceLinkedIn, SourceJobBoard, SourceReferral, SourceCompanySite, SourceOther:
		return Source(s), nil
	}
	return "", fmt.Errorf("unknown recruitment source %q", s)
}
