package domain

import "time"

const (
	NotifNewApplication = "new_application"
	NotifVacancyOverdue = "vacancy_overdue"
	NotifCandidateMoved = "candidate_moved"
	NotifVacancyFilled  = "vacancy_filled"
)

// Notification is visible to every recruiter of the owning tenant.
// Read state is monotonic: once read, never unread.
type Notification struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenantId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
