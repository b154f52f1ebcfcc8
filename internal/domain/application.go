package domain

import (
	"fmt"
	"time"
)

// ApplicationState is the simplified pipeline view shown to applicants on the
// public tracking page. The values are the Spanish labels the careers site
// displays.
type ApplicationState string

const (
	AppNueva      ApplicationState = "nueva"
	AppEnRevision ApplicationState = "en_revision"
	AppEntrevista ApplicationState = "entrevista"
	AppFinalista  ApplicationState = "finalista"
	AppDescartado ApplicationState = "descartado"
	AppContratado ApplicationState = "contratado"
)

// Application joins a public submission to the Candidate it created.
// MatchScore is computed once at submission time and never changes.
// TrackingToken grants unauthenticated read access to this record only.
type Application struct {
	ID            int64            `json:"id"`
	TenantID      string           `json:"tenantId"`
	VacancyID     int64            `json:"vacancyId"`
	CandidateID   int64            `json:"candidateId"`
	MatchScore    int              `json:"matchScore"`
	TrackingToken string           `json:"-"`
	State         ApplicationState `json:"state"`
	CreatedAt     time.Time        `json:"createdAt"`
}

func ParseApplicationState(s string) (ApplicationState, error) {
	switch ApplicationState(s) {
	case AppNueva, AppEnRevision, AppEntrevista, AppFinalista, AppDescartado, AppContratado:
		return ApplicationState(s), nil
	}
	return "", fmt.Errorf("unknown application state %q", s)
}
