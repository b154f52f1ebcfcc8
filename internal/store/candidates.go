package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"recruitpipe/internal/apperr"
	"recruitpipe/internal/domain"
)

const candidateCols = `id, tenant_id, vacancy_id, name, email, phone, stage, source,
interview_status, interview_date, technical_score, ai_technical_score,
result, not_fit_reason, retention_90d, cv_url, created_at, updated_at`

func InsertCandidate(ctx context.Context, db *sql.DB, c domain.Candidate) (domain.Candidate, error) {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := db.ExecContext(ctx, `
INSERT INTO candidates(tenant_id, vacancy_id, name, email, phone, stage, source,
  interview_status, interview_date, technical_score, ai_technical_score,
  result, not_fit_reason, retention_90d, cv_url, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		c.TenantID, c.VacancyID, c.Name, c.Email, c.Phone, string(c.Stage), string(c.Source),
		string(c.InterviewStatus), fmtNullTime(c.InterviewDate), nullF64(c.TechnicalScore), nullInt(c.AITechnicalScore),
		nullResult(c.Result), c.NotFitReason, nullRetention(c.Retention90d), c.CVURL,
		fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt))
	if err != nil {
		return domain.Candidate{}, err
	}
	c.ID, _ = res.LastInsertId()
	return c, nil
}

func GetCandidate(ctx context.Context, db *sql.DB, tenant string, id int64) (domain.Candidate, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+candidateCols+` FROM candidates WHERE tenant_id = ? AND id = ?;`, tenant, id)
	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Candidate{}, apperr.NotFoundf("candidate %d not found", id)
	}
	return c, err
}

type ListCandidatesOpts struct {
	VacancyID int64  // 0 = all
	Stage     string // filter, empty = all
	Limit     int
}

func ListCandidates(ctx context.Context, db *sql.DB, tenant string, opts ListCandidatesOpts) ([]domain.Candidate, error) {
	if opts.Limit <= 0 {
		opts.Limit = 2000
	}

	where := `WHERE tenant_id = ?`
	args := []any{tenant}
	if opts.VacancyID != 0 {
		where += ` AND vacancy_id = ?`
		args = append(args, opts.VacancyID)
	}
	if opts.Stage != "" {
		where += ` AND stage = ?`
		args = append(args, opts.Stage)
	}
	args = append(args, opts.Limit)

	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM candidates %s ORDER BY created_at DESC LIMIT ?;`, candidateCols, where), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func UpdateCandidate(ctx context.Context, db *sql.DB, c domain.Candidate) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := db.ExecContext(ctx, `
UPDATE candidates SET
  name = ?, email = ?, phone = ?, stage = ?, source = ?,
  interview_status = ?, interview_date = ?, technical_score = ?, ai_technical_score = ?,
  result = ?, not_fit_reason = ?, retention_90d = ?, cv_url = ?, updated_at = ?
WHERE tenant_id = ? AND id = ?;`,
		c.Name, c.Email, c.Phone, string(c.Stage), string(c.Source),
		string(c.InterviewStatus), fmtNullTime(c.InterviewDate), nullF64(c.TechnicalScore), nullInt(c.AITechnicalScore),
		nullResult(c.Result), c.NotFitReason, nullRetention(c.Retention90d), c.CVURL, fmtTime(c.UpdatedAt),
		c.TenantID, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("candidate %d not found", c.ID)
	}
	return nil
}

func scanCandidate(r rowScanner) (domain.Candidate, error) {
	var c domain.Candidate
	var stage, source, ivStatus string
	var ivDate, result, retention sql.NullString
	var techScore sql.NullFloat64
	var aiScore sql.NullInt64
	var createdAt, updatedAt string

	if err := r.Scan(
		&c.ID, &c.TenantID, &c.VacancyID, &c.Name, &c.Email, &c.Phone, &stage, &source,
		&ivStatus, &ivDate, &techScore, &aiScore,
		&result, &c.NotFitReason, &retention, &c.CVURL, &createdAt, &updatedAt,
	); err != nil {
		return domain.Candidate{}, err
	}

	c.Stage = domain.Stage(stage)
	c.Source = domain.Source(source)
	c.InterviewStatus = domain.InterviewStatus(ivStatus)
	c.InterviewDate = parseNullTime(ivDate)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	if techScore.Valid {
		c.TechnicalScore = &techScore.Float64
	}
	if aiScore.Valid {
		n := int(aiScore.Int64)
		c.AITechnicalScore = &n
	}
	if result.Valid && result.String != "" {
		res := domain.Result(result.String)
		c.Result = &res
	}
	if retention.Valid && retention.String != "" {
		ret := domain.Retention(retention.String)
		c.Retention90d = &ret
	}
	return c, nil
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func nullResult(r *domain.Result) any {
	if r == nil {
		return nil
	}
	return string(*r)
}

func nullRetention(r *domain.Retention) any {
	if r == nil {
		return nil
	}
	return string(*r)
}
