package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"recruitpipe/internal/apperr"
	"recruitpipe/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := Migrate(d.Pool); err != nil {
		t.Fatal(err)
	}
	if err := EnsureTenant(context.Background(), d.Pool, "default", "Default"); err != nil {
		t.Fatal(err)
	}
	return d.Pool
}

func testSite(t *testing.T, db *sql.DB) domain.Site {
	t.Helper()
	ctx := context.Background()
	co, err := InsertCompany(ctx, db, domain.Company{TenantID: "default", Name: "Acme"})
	if err != nil {
		t.Fatal(err)
	}
	site, err := InsertSite(ctx, db, domain.Site{TenantID: "default", CompanyID: co.ID, Name: "HQ", City: "Madrid", Country: "ES"})
	if err != nil {
		t.Fatal(err)
	}
	return site
}

func testVacancy(siteID int64) domain.Vacancy {
	opened := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.Vacancy{
		TenantID:         "default",
		Title:            "Backend Engineer",
		Description:      "<p>Go and SQL</p>",
		SiteID:           siteID,
		State:            domain.VacancyOpen,
		Priority:         domain.PriorityHigh,
		Recruiter:        "sam",
		OpenedAt:         opened,
		EstimatedCloseAt: opened.AddDate(0, 0, 15),
		SLATargetDays:    15,
		DailyVacancyCost: 120,
	}
}

func TestRequisitionCodesAreSequentialAndNeverReused(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	site := testSite(t, db)

	v1, err := CreateVacancy(ctx, db, testVacancy(site.ID))
	if err != nil {
		t.Fatal(err)
	}
	v2, err := CreateVacancy(ctx, db, testVacancy(site.ID))
	if err != nil {
		t.Fatal(err)
	}
	if v1.RequisitionCode != "VAC-0001" || v2.RequisitionCode != "VAC-0002" {
		t.Fatalf("codes = %s, %s", v1.RequisitionCode, v2.RequisitionCode)
	}

	peek, err := PeekRequisitionCode(ctx, db, "default")
	if err != nil {
		t.Fatal(err)
	}
	if peek != "VAC-0003" {
		t.Fatalf("peek = %s, want VAC-0003", peek)
	}

	// Peek must not claim: the next create takes the peeked code.
	v3, err := CreateVacancy(ctx, db, testVacancy(site.ID))
	if err != nil {
		t.Fatal(err)
	}
	if v3.RequisitionCode != "VAC-0003" {
		t.Fatalf("code after peek = %s", v3.RequisitionCode)
	}
}

func TestVacancyRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	site := testSite(t, db)

	in := testVacancy(site.ID)
	agreed := 52000.0
	in.AgreedSalary = &agreed

	created, err := CreateVacancy(ctx, db, in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := GetVacancy(ctx, db, "default", created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != in.Title || got.State != in.State || got.Priority != in.Priority {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.OpenedAt.Equal(in.OpenedAt) || !got.EstimatedCloseAt.Equal(in.EstimatedCloseAt) {
		t.Errorf("dates mismatch: %v / %v", got.OpenedAt, got.EstimatedCloseAt)
	}
	if got.AgreedSalary == nil || *got.AgreedSalary != agreed {
		t.Errorf("agreedSalary = %v", got.AgreedSalary)
	}
	if got.ActualCloseAt != nil {
		t.Error("actualCloseAt should start nil")
	}
}

func TestGetVacancyNotFound(t *testing.T) {
	db := testDB(t)
	_, err := GetVacancy(context.Background(), db, "default", 999)
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("err = %v, want not_found", err)
	}
}

func TestCreateApplicationTransactionAndTokenLookup(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	site := testSite(t, db)

	v, err := CreateVacancy(ctx, db, testVacancy(site.ID))
	if err != nil {
		t.Fatal(err)
	}

	cand := domain.Candidate{
		TenantID:        "default",
		VacancyID:       v.ID,
		Name:            "Nadia Osei",
		Stage:           domain.StageApplication,
		Source:          domain.SourceCompanySite,
		InterviewStatus: domain.InterviewPending,
	}
	app := domain.Application{
		TenantID:      "default",
		VacancyID:     v.ID,
		MatchScore:    72,
		TrackingToken: "deadbeefdeadbeefdeadbeefdeadbeef",
		State:         domain.AppNueva,
	}
	if err := CreateApplication(ctx, db, &cand, &app); err != nil {
		t.Fatal(err)
	}
	if cand.ID == 0 || app.ID == 0 || app.CandidateID != cand.ID {
		t.Fatalf("ids not linked: cand=%d app=%d ref=%d", cand.ID, app.ID, app.CandidateID)
	}

	got, err := GetApplicationByToken(ctx, db, app.TrackingToken)
	if err != nil {
		t.Fatal(err)
	}
	if got.MatchScore != 72 || got.State != domain.AppNueva {
		t.Errorf("lookup = %+v", got)
	}

	if _, err := GetApplicationByToken(ctx, db, "unknown-token"); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("unknown token err = %v, want not_found", err)
	}

	// mirrored state change keeps the immutable score intact
	if err := SyncApplicationState(ctx, db, cand.ID, domain.AppEntrevista); err != nil {
		t.Fatal(err)
	}
	got, err = GetApplicationByToken(ctx, db, app.TrackingToken)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != domain.AppEntrevista || got.MatchScore != 72 {
		t.Errorf("after sync = %+v", got)
	}
}

func TestMarkAllReadIsIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := InsertNotification(ctx, db, domain.Notification{
			TenantID: "default", Type: domain.NotifNewApplication, Title: "New application",
		}); err != nil {
			t.Fatal(err)
		}
	}

	count, err := UnreadCount(ctx, db, "default")
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("unread = %d, want 3", count)
	}

	n, err := MarkAllRead(ctx, db, "default")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("marked = %d, want 3", n)
	}

	n, err = MarkAllRead(ctx, db, "default")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("second mark = %d, want 0", n)
	}

	count, err = UnreadCount(ctx, db, "default")
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("unread after mark = %d", count)
	}
}

func TestDeleteCompanyWithSitesConflicts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	site := testSite(t, db)

	if err := DeleteCompany(ctx, db, "default", site.CompanyID); apperr.CodeOf(err) != apperr.CodeConflict {
		t.Fatalf("delete with sites err = %v, want conflict", err)
	}

	if err := DeleteSite(ctx, db, "default", site.ID); err != nil {
		t.Fatal(err)
	}
	if err := DeleteCompany(ctx, db, "default", site.CompanyID); err != nil {
		t.Fatalf("delete after removing sites: %v", err)
	}
}

func TestDeleteSiteWithVacanciesConflicts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	site := testSite(t, db)

	if _, err := CreateVacancy(ctx, db, testVacancy(site.ID)); err != nil {
		t.Fatal(err)
	}
	err := DeleteSite(ctx, db, "default", site.ID)
	var e *apperr.Error
	if !errors.As(err, &e) || e.Code != apperr.CodeConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestCandidateListFilters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	site := testSite(t, db)

	v1, _ := CreateVacancy(ctx, db, testVacancy(site.ID))
	v2, _ := CreateVacancy(ctx, db, testVacancy(site.ID))

	mk := func(vacID int64, name string, stage domain.Stage) {
		_, err := InsertCandidate(ctx, db, domain.Candidate{
			TenantID: "default", VacancyID: vacID, Name: name,
			Stage: stage, Source: domain.SourceReferral, InterviewStatus: domain.InterviewPending,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	mk(v1.ID, "A", domain.StageApplication)
	mk(v1.ID, "B", domain.StageOffer)
	mk(v2.ID, "C", domain.StageApplication)

	got, err := ListCandidates(ctx, db, "default", ListCandidatesOpts{VacancyID: v1.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("vacancy filter returned %d", len(got))
	}

	got, err = ListCandidates(ctx, db, "default", ListCandidatesOpts{Stage: string(domain.StageOffer)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "B" {
		t.Fatalf("stage filter = %+v", got)
	}
}

func TestSessionsExpireAndPrune(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	rec, err := UpsertRecruiter(ctx, db, domain.Recruiter{TenantID: "default", Username: "sam", Role: "recruiter"})
	if err != nil {
		t.Fatal(err)
	}

	live := domain.Session{Token: "live", TenantID: "default", RecruiterID: rec.ID, Username: "sam",
		ExpiresAt: time.Now().UTC().Add(time.Hour)}
	stale := domain.Session{Token: "stale", TenantID: "default", RecruiterID: rec.ID, Username: "sam",
		ExpiresAt: time.Now().UTC().Add(-time.Hour)}
	for _, s := range []domain.Session{live, stale} {
		if err := InsertSession(ctx, db, s); err != nil {
			t.Fatal(err)
		}
	}

	n, err := DeleteExpiredSessions(db)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("pruned = %d, want 1", n)
	}
	if _, err := GetSession(ctx, db, "live"); err != nil {
		t.Fatalf("live session gone: %v", err)
	}
	if _, err := GetSession(ctx, db, "stale"); err == nil {
		t.Fatal("stale session survived the sweep")
	}
}
