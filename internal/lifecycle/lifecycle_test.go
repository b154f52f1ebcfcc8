package lifecycle

import (
	"testing"
	"time"

	"recruitpipe/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDaysOpen(t *testing.T) {
	closed := day("2024-01-10")

	tests := []struct {
		name string
		v    domain.Vacancy
		now  time.Time
		want int
	}{
		{
			name: "whole days elapse",
			v:    domain.Vacancy{OpenedAt: day("2024-01-01")},
			now:  day("2024-01-06"),
			want: 5,
		},
		{
			name: "partial day rounds up",
			v:    domain.Vacancy{OpenedAt: day("2024-01-01")},
			now:  day("2024-01-01").Add(3 * time.Hour),
			want: 1,
		},
		{
			name: "clock stops at actual close",
			v:    domain.Vacancy{OpenedAt: day("2024-01-01"), ActualCloseAt: &closed},
			now:  day("2024-03-01"),
			want: 9,
		},
		{
			name: "future opening is negative",
			v:    domain.Vacancy{OpenedAt: day("2024-02-01")},
			now:  day("2024-01-30"),
			want: -2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysOpen(tt.v, tt.now); got != tt.want {
				t.Errorf("DaysOpen = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSla(t *testing.T) {
	now := day("2024-01-25")

	tests := []struct {
		name      string
		state     domain.VacancyState
		estClose  time.Time
		wantState SlaState
		wantDays  int
	}{
		{"filled is completed", domain.VacancyFilled, day("2024-01-20"), SlaCompleted, 0},
		{"five days past the estimate", domain.VacancyOpen, day("2024-01-20"), SlaOverdue, 5},
		{"one day late", domain.VacancyOpen, day("2024-01-24"), SlaOverdue, 1},
		{"exactly the urgent window is urgent", domain.VacancyOpen, day("2024-01-28"), SlaUrgent, 3},
		{"one day inside the window", domain.VacancyOpen, day("2024-01-26"), SlaUrgent, 1},
		{"just outside the window", domain.VacancyOpen, day("2024-01-29"), SlaOnTrack, 4},
		{"suspended still ticks", domain.VacancySuspended, day("2024-01-20"), SlaOverdue, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := domain.Vacancy{State: tt.state, OpenedAt: day("2024-01-01"), EstimatedCloseAt: tt.estClose}
			got := Sla(v, now, 3)
			if got.State != tt.wantState || got.Days != tt.wantDays {
				t.Errorf("Sla = %+v, want {%s %d}", got, tt.wantState, tt.wantDays)
			}
		})
	}
}

func TestMoveStage(t *testing.T) {
	tests := []struct {
		cur  domain.VacancyState
		dir  Direction
		want domain.VacancyState
	}{
		{domain.VacancyOpen, Next, domain.VacancyInProgress},
		{domain.VacancyInProgress, Next, domain.VacancyFilled},
		{domain.VacancyFilled, Next, domain.VacancyFilled},
		{domain.VacancyOpen, Prev, domain.VacancyOpen},
		{domain.VacancyFilled, Prev, domain.VacancyInProgress},
		{domain.VacancyCancelled, Next, domain.VacancyCancelled},
		{domain.VacancySuspended, Prev, domain.VacancySuspended},
	}
	for _, tt := range tests {
		if got := MoveStage(tt.cur, tt.dir); got != tt.want {
			t.Errorf("MoveStage(%s, %s) = %s, want %s", tt.cur, tt.dir, got, tt.want)
		}
	}
}

func TestStageMoveApplyAndRevert(t *testing.T) {
	now := day("2024-03-15")
	v := domain.Vacancy{State: domain.VacancyInProgress, OpenedAt: day("2024-01-01")}

	move := NewStageMove(v, Next)
	if move.NoOp() {
		t.Fatal("expected a real move")
	}

	move.Apply(&v, now)
	if v.State != domain.VacancyFilled {
		t.Fatalf("state after apply = %s", v.State)
	}
	if v.ActualCloseAt == nil || !v.ActualCloseAt.Equal(now.UTC()) {
		t.Fatalf("actualCloseAt not defaulted: %v", v.ActualCloseAt)
	}

	move.Revert(&v)
	if v.State != domain.VacancyInProgress {
		t.Fatalf("state after revert = %s", v.State)
	}
	if v.ActualCloseAt != nil {
		t.Fatal("actualCloseAt must clear when the move is reverted")
	}
}

func TestStageMoveRevertRestoresCloseDate(t *testing.T) {
	closed := day("2024-02-01")
	v := domain.Vacancy{
		State:         domain.VacancyFilled,
		OpenedAt:      day("2024-01-01"),
		ActualCloseAt: &closed,
	}

	move := NewStageMove(v, Prev)
	move.Apply(&v, day("2024-03-15"))
	if v.State != domain.VacancyInProgress || v.ActualCloseAt != nil {
		t.Fatalf("after apply: state=%s closeAt=%v", v.State, v.ActualCloseAt)
	}

	move.Revert(&v)
	if v.State != domain.VacancyFilled {
		t.Fatalf("state after revert = %s", v.State)
	}
	if v.ActualCloseAt == nil || !v.ActualCloseAt.Equal(closed) {
		t.Fatalf("actualCloseAt after revert = %v, want %v", v.ActualCloseAt, closed)
	}
}

func TestStageMoveNoOpAtEdge(t *testing.T) {
	v := domain.Vacancy{State: domain.VacancyOpen}
	if move := NewStageMove(v, Prev); !move.NoOp() {
		t.Error("prev from open should be a no-op")
	}
	v.State = domain.VacancyCancelled
	if move := NewStageMove(v, Next); !move.NoOp() {
		t.Error("moves on off-board states should be no-ops")
	}
}

func TestApplyPatchCloseDateInvariant(t *testing.T) {
	now := day("2024-02-10")
	filled := string(domain.VacancyFilled)
	open := string(domain.VacancyOpen)

	v := domain.Vacancy{
		State:            domain.VacancyOpen,
		Title:            "Backend Engineer",
		OpenedAt:         day("2024-01-01"),
		EstimatedCloseAt: day("2024-02-01"),
	}

	if err := ApplyPatch(&v, Patch{State: &filled}, now); err != nil {
		t.Fatal(err)
	}
	if v.ActualCloseAt == nil {
		t.Fatal("filling must default actualCloseAt")
	}

	if err := ApplyPatch(&v, Patch{State: &open}, now); err != nil {
		t.Fatal(err)
	}
	if v.ActualCloseAt != nil {
		t.Fatal("reopening must clear actualCloseAt")
	}
}

func TestApplyPatchRejections(t *testing.T) {
	base := domain.Vacancy{
		State:            domain.VacancyOpen,
		Title:            "Backend Engineer",
		OpenedAt:         day("2024-01-10"),
		EstimatedCloseAt: day("2024-02-01"),
	}

	empty := ""
	early := day("2024-01-05")
	badSLA := 0
	badState := "archived"

	tests := []struct {
		name  string
		patch Patch
	}{
		{"emptied title", Patch{Title: &empty}},
		{"estimate before opening", Patch{EstimatedCloseAt: &early}},
		{"zero sla target", Patch{SLATargetDays: &badSLA}},
		{"unknown state", Patch{State: &badState}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := base
			if err := ApplyPatch(&v, tt.patch, day("2024-01-20")); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateNew(t *testing.T) {
	ok := domain.Vacancy{
		Title:            "Backend Engineer",
		SiteID:           1,
		OpenedAt:         day("2024-01-01"),
		EstimatedCloseAt: day("2024-01-20"),
	}
	if err := ValidateNew(ok); err != nil {
		t.Fatalf("valid vacancy rejected: %v", err)
	}

	bad := ok
	bad.EstimatedCloseAt = day("2023-12-01")
	if err := ValidateNew(bad); err == nil {
		t.Error("estimate before opening must be rejected")
	}
	bad = ok
	bad.Title = ""
	bad.SiteID = 0
	if err := ValidateNew(bad); err == nil {
		t.Error("missing title and site must be rejected")
	}
}
