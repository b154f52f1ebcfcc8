// Package lifecycle owns vacancy state transitions and the SLA and cost
// arithmetic derived from them.
package lifecycle

import (
	"math"
	"time"

	"recruitpipe/internal/domain"
)

const DefaultSLATargetDays = 15

// DaysOpen is the elapsed open time in whole days, rounded up. For filled
// vacancies the clock stops at actualCloseAt. A vacancy opened in the future
// yields a negative value; callers display it as-is (the kanban lag badge).
func DaysOpen(v domain.Vacancy, now time.Time) int {
	end := now
	if v.ActualCloseAt != nil {
		end = *v.ActualCloseAt
	}
	return ceilDays(end.Sub(v.OpenedAt))
}

type SlaState string

const (
	SlaCompleted SlaState = "completed"
	SlaOverdue   SlaState = "overdue"
	SlaUrgent    SlaState = "urgent"
	SlaOnTrack   SlaState = "on_track"
)

type SlaStatus struct {
	State SlaState `json:"state"`
	// Days is days remaining for urgent/on_track, days late for overdue,
	// and zero for completed.
	Days int `json:"days"`
}

// Sla classifies a vacancy against its estimated close date. The urgent
// window is inclusive: exactly urgentWindow days remaining is still urgent.
func Sla(v domain.Vacancy, now time.Time, urgentWindowDays int) SlaStatus {
	if v.State == domain.VacancyFilled {
		return SlaStatus{State: SlaCompleted}
	}
	remaining := ceilDays(v.EstimatedCloseAt.Sub(now))
	switch {
	case remaining < 0:
		return SlaStatus{State: SlaOverdue, Days: -remaining}
	case remaining <= urgentWindowDays:
		return SlaStatus{State: SlaUrgent, Days: remaining}
	default:
		return SlaStatus{State: SlaOnTrack, Days: remaining}
	}
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

// The kanban board shows only the three macro states, in this order.
var kanbanOrder = []domain.VacancyState{
	domain.VacancyOpen,
	domain.VacancyInProgress,
	domain.VacancyFilled,
}

type Direction string

const (
	Next Direction = "next"
	Prev Direction = "prev"
)

// MoveStage returns the state one kanban column over, or the current state
// unchanged when already at the edge or when the vacancy is not on the board
// (cancelled/suspended).
func MoveStage(cur domain.VacancyState, dir Direction) domain.VacancyState {
	idx := -1
	for i, s := range kanbanOrder {
		if s == cur {
			idx = i
			break
		}
	}
	if idx < 0 {
		return cur
	}
	switch dir {
	case Next:
		if idx+1 < len(kanbanOrder) {
			return kanbanOrder[idx+1]
		}
	case Prev:
		if idx > 0 {
			return kanbanOrder[idx-1]
		}
	}
	return cur
}

// StageMove is the optimistic kanban mutation: the caller applies Proposed
// locally before the store confirms, and calls Revert on store failure.
type StageMove struct {
	Prior    domain.VacancyState
	Proposed domain.VacancyState

	priorCloseAt *time.Time
}

func NewStageMove(v domain.Vacancy, dir Direction) StageMove {
	return StageMove{
		Prior:        v.State,
		Proposed:     MoveStage(v.State, dir),
		priorCloseAt: v.ActualCloseAt,
	}
}

func (m StageMove) NoOp() bool { return m.Prior == m.Proposed }

// Apply writes the proposed state onto the vacancy, defaulting actualCloseAt
// when the move lands on filled and clearing it when it leaves.
func (m StageMove) Apply(v *domain.Vacancy, now time.Time) {
	v.State = m.Proposed
	syncCloseDate(v, now)
}

// Revert restores the prior state and close date after a failed store write,
// so a failed move off filled does not strand the record without its close
// date.
func (m StageMove) Revert(v *domain.Vacancy) {
	v.State = m.Prior
	v.ActualCloseAt = m.priorCloseAt
}

func syncCloseDate(v *domain.Vacancy, now time.Time) {
	if v.State == domain.VacancyFilled {
		if v.ActualCloseAt == nil {
			t := now.UTC()
			v.ActualCloseAt = &t
		}
	} else {
		v.ActualCloseAt = nil
	}
}
