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

type ListVacanciesOpts struct {
	State string // filter, empty = all
	Sort  string // opened | priority | code
	Limit int
}

const vacancyCols = `id, tenant_id, requisition_code, title, description, site_id,
process_ref, project_ref, cost_center_ref, state, priority, recruiter,
opened_at, estimated_close_at, actual_close_at, sla_target_days,
approved_budget, max_budget, base_salary, offered_salary, agreed_salary,
vacancy_cost, daily_vacancy_cost, final_hiring_cost, created_at, updated_at`

// CreateVacancy claims the tenant's next requisition sequence and inserts the
// vacancy in one transaction, so codes are sequential and never reused.
func CreateVacancy(ctx context.Context, db *sql.DB, v domain.Vacancy) (domain.Vacancy, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Vacancy{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO req_counters(tenant_id, next_seq) VALUES(?, 1);`, v.TenantID); err != nil {
		return domain.Vacancy{}, err
	}
	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT next_seq FROM req_counters WHERE tenant_id = ?;`, v.TenantID).Scan(&seq); err != nil {
		return domain.Vacancy{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE req_counters SET next_seq = next_seq + 1 WHERE tenant_id = ?;`, v.TenantID); err != nil {
		return domain.Vacancy{}, err
	}

	v.RequisitionCode = FormatRequisitionCode(seq)
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	res, err := tx.ExecContext(ctx, `
INSERT INTO vacancies(tenant_id, requisition_code, title, description, site_id,
  process_ref, project_ref, cost_center_ref, state, priority, recruiter,
  opened_at, estimated_close_at, actual_close_at, sla_target_days,
  approved_budget, max_budget, base_salary, offered_salary, agreed_salary,
  vacancy_cost, daily_vacancy_cost, final_hiring_cost, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		v.TenantID, v.RequisitionCode, v.Title, v.Description, v.SiteID,
		v.ProcessRef, v.ProjectRef, v.CostCenterRef, string(v.State), string(v.Priority), v.Recruiter,
		fmtTime(v.OpenedAt), fmtTime(v.EstimatedCloseAt), fmtNullTime(v.ActualCloseAt), v.SLATargetDays,
		v.ApprovedBudget, v.MaxBudget, v.BaseSalary, v.OfferedSalary, nullF64(v.AgreedSalary),
		v.VacancyCost, v.DailyVacancyCost, nullF64(v.FinalHiringCost), fmtTime(v.CreatedAt), fmtTime(v.UpdatedAt))
	if err != nil {
		return domain.Vacancy{}, err
	}
	v.ID, _ = res.LastInsertId()

	if err := tx.Commit(); err != nil {
		return domain.Vacancy{}, err
	}
	return v, nil
}

// PeekRequisitionCode returns the code the next CreateVacancy would assign
// without claiming it.
func PeekRequisitionCode(ctx context.Context, db *sql.DB, tenant string) (string, error) {
	var seq int64 = 1
	err := db.QueryRowContext(ctx,
		`SELECT next_seq FROM req_counters WHERE tenant_id = ?;`, tenant).Scan(&seq)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	return FormatRequisitionCode(seq), nil
}

func FormatRequisitionCode(seq int64) string {
	return fmt.Sprintf("VAC-%04d", seq)
}

func GetVacancy(ctx context.Context, db *sql.DB, tenant string, id int64) (domain.Vacancy, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+vacancyCols+` FROM vacancies WHERE tenant_id = ? AND id = ?;`, tenant, id)
	v, err := scanVacancy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Vacancy{}, apperr.NotFoundf("vacancy %d not found", id)
	}
	return v, err
}

// GetVacancyByID looks a vacancy up without a tenant filter. Only the public
// application path uses it; everything recruiter-facing goes through
// GetVacancy.
func GetVacancyByID(ctx context.Context, db *sql.DB, id int64) (domain.Vacancy, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+vacancyCols+` FROM vacancies WHERE id = ?;`, id)
	v, err := scanVacancy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Vacancy{}, apperr.NotFoundf("vacancy %d not found", id)
	}
	return v, err
}

// ListOpenVacancies returns every actively hiring vacancy across tenants for
// the public careers listing.
func ListOpenVacancies(ctx context.Context, db *sql.DB) ([]domain.Vacancy, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+vacancyCols+` FROM vacancies WHERE state IN ('open','in_progress') ORDER BY opened_at DESC LIMIT 500;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Vacancy
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func ListVacancies(ctx context.Context, db *sql.DB, tenant string, opts ListVacanciesOpts) ([]domain.Vacancy, error) {
	if opts.Limit <= 0 {
		opts.Limit = 1000
	}

	// whitelist sort columns (prevents SQL injection)
	sortExpr := map[string]string{
		"opened":   "opened_at DESC",
		"priority": "priority DESC, opened_at DESC",
		"code":     "requisition_code ASC",
	}[opts.Sort]
	if sortExpr == "" {
		sortExpr = "opened_at DESC"
	}

	where := `WHERE tenant_id = ?`
	args := []any{tenant}
	if opts.State != "" {
		where += ` AND state = ?`
		args = append(args, opts.State)
	}
	args = append(args, opts.Limit)

	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM vacancies %s ORDER BY %s LIMIT ?;`, vacancyCols, where, sortExpr), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Vacancy
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpdateVacancy writes back every mutable column. The requisition code and
// tenant are deliberately absent from the SET list.
func UpdateVacancy(ctx context.Context, db *sql.DB, v domain.Vacancy) error {
	v.UpdatedAt = time.Now().UTC()
	res, err := db.ExecContext(ctx, `
UPDATE vacancies SET
  title = ?, description = ?, site_id = ?,
  process_ref = ?, project_ref = ?, cost_center_ref = ?,
  state = ?, priority = ?, recruiter = ?,
  opened_at = ?, estimated_close_at = ?, actual_close_at = ?, sla_target_days = ?,
  approved_budget = ?, max_budget = ?, base_salary = ?, offered_salary = ?, agreed_salary = ?,
  vacancy_cost = ?, daily_vacancy_cost = ?, final_hiring_cost = ?, updated_at = ?
WHERE tenant_id = ? AND id = ?;`,
		v.Title, v.Description, v.SiteID,
		v.ProcessRef, v.ProjectRef, v.CostCenterRef,
		string(v.State), string(v.Priority), v.Recruiter,
		fmtTime(v.OpenedAt), fmtTime(v.EstimatedCloseAt), fmtNullTime(v.ActualCloseAt), v.SLATargetDays,
		v.ApprovedBudget, v.MaxBudget, v.BaseSalary, v.OfferedSalary, nullF64(v.AgreedSalary),
		v.VacancyCost, v.DailyVacancyCost, nullF64(v.FinalHiringCost), fmtTime(v.UpdatedAt),
		v.TenantID, v.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("vacancy %d not found", v.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVacancy(r rowScanner) (domain.Vacancy, error) {
	var v domain.Vacancy
	var state, priority string
	var openedAt, estCloseAt, createdAt, updatedAt string
	var actualCloseAt sql.NullString
	var agreed, finalCost sql.NullFloat64

	if err := r.Scan(
		&v.ID, &v.TenantID, &v.RequisitionCode, &v.Title, &v.Description, &v.SiteID,
		&v.ProcessRef, &v.ProjectRef, &v.CostCenterRef, &state, &priority, &v.Recruiter,
		&openedAt, &estCloseAt, &actualCloseAt, &v.SLATargetDays,
		&v.ApprovedBudget, &v.MaxBudget, &v.BaseSalary, &v.OfferedSalary, &agreed,
		&v.VacancyCost, &v.DailyVacancyCost, &finalCost, &createdAt, &updatedAt,
	); err != nil {
		return domain.Vacancy{}, err
	}

	v.State = domain.VacancyState(state)
	v.Priority = domain.Priority(priority)
	v.OpenedAt = parseTime(openedAt)
	v.EstimatedCloseAt = parseTime(estCloseAt)
	v.ActualCloseAt = parseNullTime(actualCloseAt)
	v.CreatedAt = parseTime(createdAt)
	v.UpdatedAt = parseTime(updatedAt)
	if agreed.Valid {
		v.AgreedSalary = &agreed.Float64
	}
	if finalCost.Valid {
		v.FinalHiringCost = &finalCost.Float64
	}
	return v, nil
}
