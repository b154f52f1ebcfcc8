// Package analytics derives the dashboard KPIs from the current vacancy set.
// Nothing is persisted; every call recomputes from scratch, so the numbers
// are always fresh at O(n) per request.
package analytics

import (
	"sort"
	"time"

	"recruitpipe/internal/domain"
	"recruitpipe/internal/lifecycle"
)

type SiteCount struct {
	Site  string `json:"site"`
	Count int    `json:"count"`
}

type Stats struct {
	OpenCount            int         `json:"openCount"`
	FilledCount          int         `json:"filledCount"`
	ExpiredCount         int         `json:"expiredCount"`
	AvgLeadTimeDays      float64     `json:"avgLeadTimeDays"`
	EfficiencyPct        float64     `json:"efficiencyPct"`
	TotalFinancialImpact float64     `json:"totalFinancialImpact"`
	GeoDistribution      []SiteCount `json:"geoDistribution"`
}

// Compute scans the vacancy set once. siteNames maps site id to display name
// for the geo distribution; vacancies on unknown sites are bucketed under
// their numeric id being absent (skipped).
func Compute(vacancies []domain.Vacancy, siteNames map[int64]string, now time.Time, urgentWindowDays int) Stats {
	var st Stats
	var leadSum int
	var slaMet int
	geo := map[string]int{}

	for _, v := range vacancies {
		switch v.State {
		case domain.VacancyOpen:
			st.OpenCount++
		case domain.VacancyFilled:
			st.FilledCount++
			leadSum += lifecycle.DaysOpen(v, now)
			if v.ActualCloseAt != nil && !v.ActualCloseAt.After(v.EstimatedCloseAt) {
				slaMet++
			}
		}

		sla := lifecycle.Sla(v, now, urgentWindowDays)
		if sla.State == lifecycle.SlaOverdue {
			st.ExpiredCount++
			// missing dailyVacancyCost contributes 0, never errors
			st.TotalFinancialImpact += v.DailyVacancyCost * float64(sla.Days)
		}

		if v.Active() {
			if name, ok := siteNames[v.SiteID]; ok {
				geo[name]++
			}
		}
	}

	if st.FilledCount > 0 {
		st.AvgLeadTimeDays = float64(leadSum) / float64(st.FilledCount)
		st.EfficiencyPct = 100 * float64(slaMet) / float64(st.FilledCount)
	}

	for site, count := range geo {
		st.GeoDistribution = append(st.GeoDistribution, SiteCount{Site: site, Count: count})
	}
	sort.Slice(st.GeoDistribution, func(i, j int) bool {
		if st.GeoDistribution[i].Count != st.GeoDistribution[j].Count {
			return st.GeoDistribution[i].Count > st.GeoDistribution[j].Count
		}
		return st.GeoDistribution[i].Site < st.GeoDistribution[j].Site
	})

	return st
}
