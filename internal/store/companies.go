package store

import (
	"context"
	"database/sql"
	"errors"

	"recruitpipe/internal/apperr"
	"recruitpipe/internal/domain"
)

func InsertCompany(ctx context.Context, db *sql.DB, c domain.Company) (domain.Company, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO companies(tenant_id, name) VALUES(?,?);`, c.TenantID, c.Name)
	if err != nil {
		return domain.Company{}, err
	}
	c.ID, _ = res.LastInsertId()
	return c, nil
}

func ListCompanies(ctx context.Context, db *sql.DB, tenant string) ([]domain.Company, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, tenant_id, name FROM companies WHERE tenant_id = ? ORDER BY name;`, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCompany rejects deletion while dependent sites exist. No cascade:
// the caller has to move or delete the sites first.
func DeleteCompany(ctx context.Context, db *sql.DB, tenant string, id int64) error {
	var sites int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sites WHERE tenant_id = ? AND company_id = ?;`, tenant, id).Scan(&sites); err != nil {
		return err
	}
	if sites > 0 {
		return apperr.Conflictf("company %d has %d dependent sites", id, sites)
	}
	res, err := db.ExecContext(ctx,
		`DELETE FROM companies WHERE tenant_id = ? AND id = ?;`, tenant, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("company %d not found", id)
	}
	return nil
}

func InsertSite(ctx context.Context, db *sql.DB, s domain.Site) (domain.Site, error) {
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM companies WHERE tenant_id = ? AND id = ?;`, s.TenantID, s.CompanyID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Site{}, apperr.Validationf("company %d does not exist", s.CompanyID)
	}
	if err != nil {
		return domain.Site{}, err
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO sites(tenant_id, company_id, name, city, country) VALUES(?,?,?,?,?);`,
		s.TenantID, s.CompanyID, s.Name, s.City, s.Country)
	if err != nil {
		return domain.Site{}, err
	}
	s.ID, _ = res.LastInsertId()
	return s, nil
}

func ListSites(ctx context.Context, db *sql.DB, tenant string) ([]domain.Site, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, tenant_id, company_id, name, city, country FROM sites WHERE tenant_id = ? ORDER BY name;`, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Site
	for rows.Next() {
		var s domain.Site
		if err := rows.Scan(&s.ID, &s.TenantID, &s.CompanyID, &s.Name, &s.City, &s.Country); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func DeleteSite(ctx context.Context, db *sql.DB, tenant string, id int64) error {
	var vacs int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vacancies WHERE tenant_id = ? AND site_id = ?;`, tenant, id).Scan(&vacs); err != nil {
		return err
	}
	if vacs > 0 {
		return apperr.Conflictf("site %d has %d vacancies", id, vacs)
	}
	res, err := db.ExecContext(ctx,
		`DELETE FROM sites WHERE tenant_id = ? AND id = ?;`, tenant, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("site %d not found", id)
	}
	return nil
}

// SiteNames maps site id to display name for the geo distribution.
func SiteNames(ctx context.Context, db *sql.DB, tenant string) (map[int64]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name FROM sites WHERE tenant_id = ?;`, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]string{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}
