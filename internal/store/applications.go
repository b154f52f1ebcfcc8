package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"recruitpipe/internal/apperr"
	"recruitpipe/internal/domain"
)

// CreateApplication persists the candidate and its application record as one
// transaction. The match score is computed by the caller beforehand; a failed
// scoring provider must not stop the submission, so by the time we get here
// the score is final (possibly the degraded default).
func CreateApplication(ctx context.Context, db *sql.DB, c *domain.Candidate, a *domain.Application) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := tx.ExecContext(ctx, `
INSERT INTO candidates(tenant_id, vacancy_id, name, email, phone, stage, source,
  interview_status, interview_date, technical_score, ai_technical_score,
  result, not_fit_reason, retention_90d, cv_url, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		c.TenantID, c.VacancyID, c.Name, c.Email, c.Phone, string(c.Stage), string(c.Source),
		string(c.InterviewStatus), fmtNullTime(c.InterviewDate), nullF64(c.TechnicalScore), nullInt(c.AITechnicalScore),
		nullResult(c.Result), c.NotFitReason, nullRetention(c.Retention90d), c.CVURL,
		fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt))
	if err != nil {
		return err
	}
	c.ID, _ = res.LastInsertId()

	a.CandidateID = c.ID
	a.CreatedAt = now
	res, err = tx.ExecContext(ctx, `
INSERT INTO applications(tenant_id, vacancy_id, candidate_id, match_score, tracking_token, state, created_at)
VALUES(?,?,?,?,?,?,?);`,
		a.TenantID, a.VacancyID, a.CandidateID, a.MatchScore, a.TrackingToken, string(a.State), fmtTime(a.CreatedAt))
	if err != nil {
		return err
	}
	a.ID, _ = res.LastInsertId()

	return tx.Commit()
}

// GetApplicationByToken is the unauthenticated tracking lookup. It never
// filters by tenant: the token itself is the credential.
func GetApplicationByToken(ctx context.Context, db *sql.DB, token string) (domain.Application, error) {
	var a domain.Application
	var state, createdAt string
	err := db.QueryRowContext(ctx, `
SELECT id, tenant_id, vacancy_id, candidate_id, match_score, tracking_token, state, created_at
FROM applications WHERE tracking_token = ?;`, token).Scan(
		&a.ID, &a.TenantID, &a.VacancyID, &a.CandidateID, &a.MatchScore, &a.TrackingToken, &state, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Application{}, apperr.NotFoundf("application not found")
	}
	if err != nil {
		return domain.Application{}, err
	}
	a.State = domain.ApplicationState(state)
	a.CreatedAt = parseTime(createdAt)
	return a, nil
}

// SyncApplicationState mirrors a candidate's stage change onto the public
// application record, if one exists. MatchScore is immutable and untouched.
func SyncApplicationState(ctx context.Context, db *sql.DB, candidateID int64, state domain.ApplicationState) error {
	_, err := db.ExecContext(ctx,
		`UPDATE applications SET state = ? WHERE candidate_id = ?;`, string(state), candidateID)
	return err
}
