package analytics

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

func TestComputeOverdueFinancialImpact(t *testing.T) {
	// Opened Jan 1, estimated close Jan 20, evaluated Jan 25: five days late.
	v := domain.Vacancy{
		State:            domain.VacancyOpen,
		SiteID:           1,
		OpenedAt:         day("2024-01-01"),
		EstimatedCloseAt: day("2024-01-20"),
		DailyVacancyCost: 120,
	}
	st := Compute([]domain.Vacancy{v}, map[int64]string{1: "Madrid"}, day("2024-01-25"), 3)

	if st.ExpiredCount != 1 {
		t.Errorf("expiredCount = %d, want 1", st.ExpiredCount)
	}
	if st.TotalFinancialImpact != 600 {
		t.Errorf("totalFinancialImpact = %v, want 600 (120/day for 5 days)", st.TotalFinancialImpact)
	}
	if st.OpenCount != 1 {
		t.Errorf("openCount = %d", st.OpenCount)
	}
}

func TestComputeMissingDailyCostContributesZero(t *testing.T) {
	v := domain.Vacancy{
		State:            domain.VacancyOpen,
		OpenedAt:         day("2024-01-01"),
		EstimatedCloseAt: day("2024-01-10"),
	}
	st := Compute([]domain.Vacancy{v}, nil, day("2024-02-01"), 3)
	if st.ExpiredCount != 1 || st.TotalFinancialImpact != 0 {
		t.Errorf("stats = %+v, want expired 1 with zero impact", st)
	}
}

func TestComputeLeadTimeAndEfficiency(t *testing.T) {
	onTime := day("2024-01-15")
	late := day("2024-02-10")

	filledOnTime := domain.Vacancy{
		State:            domain.VacancyFilled,
		OpenedAt:         day("2024-01-01"),
		EstimatedCloseAt: day("2024-01-20"),
		ActualCloseAt:    &onTime, // 14 days
	}
	filledLate := domain.Vacancy{
		State:            domain.VacancyFilled,
		OpenedAt:         day("2024-01-01"),
		EstimatedCloseAt: day("2024-01-20"),
		ActualCloseAt:    &late, // 40 days
	}
	st := Compute([]domain.Vacancy{filledOnTime, filledLate}, nil, day("2024-03-01"), 3)

	if st.FilledCount != 2 {
		t.Fatalf("filledCount = %d", st.FilledCount)
	}
	if st.AvgLeadTimeDays != 27 {
		t.Errorf("avgLeadTimeDays = %v, want 27", st.AvgLeadTimeDays)
	}
	if st.EfficiencyPct != 50 {
		t.Errorf("efficiencyPct = %v, want 50", st.EfficiencyPct)
	}
	// filled vacancies never accrue overdue cost
	if st.ExpiredCount != 0 || st.TotalFinancialImpact != 0 {
		t.Errorf("filled vacancies counted as expired: %+v", st)
	}
}

func TestComputeGeoDistributionActiveOnly(t *testing.T) {
	mk := func(state domain.VacancyState, site int64) domain.Vacancy {
		return domain.Vacancy{
			State:            state,
			SiteID:           site,
			OpenedAt:         day("2024-01-01"),
			EstimatedCloseAt: day("2024-12-01"),
		}
	}
	vacs := []domain.Vacancy{
		mk(domain.VacancyOpen, 1),
		mk(domain.VacancyInProgress, 1),
		mk(domain.VacancyOpen, 2),
		mk(domain.VacancyCancelled, 2),
		mk(domain.VacancyFilled, 2),
		mk(domain.VacancyOpen, 3), // unknown site, skipped
	}
	sites := map[int64]string{1: "Madrid", 2: "Lisbon"}

	st := Compute(vacs, sites, day("2024-06-01"), 3)
	want := []SiteCount{{Site: "Madrid", Count: 2}, {Site: "Lisbon", Count: 1}}
	if len(st.GeoDistribution) != len(want) {
		t.Fatalf("geo = %+v", st.GeoDistribution)
	}
	for i := range want {
		if st.GeoDistribution[i] != want[i] {
			t.Errorf("geo[%d] = %+v, want %+v", i, st.GeoDistribution[i], want[i])
		}
	}
}
