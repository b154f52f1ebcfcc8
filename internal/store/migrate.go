package store

import "database/sql"

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tenants (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS recruiters (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tenant_id TEXT NOT NULL REFERENCES tenants(id),
  username TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT '',
  salt TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'recruiter',
  UNIQUE(tenant_id, username)
);`,
		`CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL REFERENCES tenants(id),
  recruiter_id INTEGER NOT NULL REFERENCES recruiters(id),
  username TEXT NOT NULL,
  expires_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS companies (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tenant_id TEXT NOT NULL REFERENCES tenants(id),
  name TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS sites (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tenant_id TEXT NOT NULL REFERENCES tenants(id),
  company_id INTEGER NOT NULL REFERENCES companies(id),
  name TEXT NOT NULL,
  city TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT ''
);`,
		`CREATE TABLE IF NOT EXISTS req_counters (
  tenant_id TEXT PRIMARY KEY REFERENCES tenants(id),
  next_seq INTEGER NOT NULL DEFAULT 1
);`,
		`CREATE TABLE IF NOT EXISTS vacancies (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tenant_id TEXT NOT NULL REFERENCES tenants(id),
  requisition_code TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  site_id INTEGER NOT NULL REFERENCES sites(id),
  process_ref TEXT NOT NULL DEFAULT '',
  project_ref TEXT NOT NULL DEFAULT '',
  cost_center_ref TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT 'open',
  priority TEXT NOT NULL DEFAULT 'medium',
  recruiter TEXT NOT NULL DEFAULT '',
  opened_at TEXT NOT NULL,
  estimated_close_at TEXT NOT NULL,
  actual_close_at TEXT,
  sla_target_days INTEGER NOT NULL DEFAULT 15,
  approved_budget REAL NOT NULL DEFAULT 0,
  max_budget REAL NOT NULL DEFAULT 0,
  base_salary REAL NOT NULL DEFAULT 0,
  offered_salary REAL NOT NULL DEFAULT 0,
  agreed_salary REAL,
  vacancy_cost REAL NOT NULL DEFAULT 0,
  daily_vacancy_cost REAL NOT NULL DEFAULT 0,
  final_hiring_cost REAL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  UNIQUE(tenant_id, requisition_code)
);`,
		`CREATE TABLE IF NOT EXISTS candidates (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tenant_id TEXT NOT NULL REFERENCES tenants(id),
  vacancy_id INTEGER NOT NULL REFERENCES vacancies(id),
  name TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  stage TEXT NOT NULL DEFAULT 'application',
  source TEXT NOT NULL DEFAULT 'other',
  interview_status TEXT NOT NULL DEFAULT 'pending',
  interview_date TEXT,
  technical_score REAL,
  ai_technical_score INTEGER,
  result TEXT,
  not_fit_reason TEXT NOT NULL DEFAULT '',
  retention_90d TEXT,
  cv_url TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS applications (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tenant_id TEXT NOT NULL REFERENCES tenants(id),
  vacancy_id INTEGER NOT NULL REFERENCES vacancies(id),
  candidate_id INTEGER NOT NULL REFERENCES candidates(id),
  match_score INTEGER NOT NULL DEFAULT 0,
  tracking_token TEXT NOT NULL UNIQUE,
  state TEXT NOT NULL DEFAULT 'nueva',
  created_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS notifications (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tenant_id TEXT NOT NULL REFERENCES tenants(id),
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  body TEXT NOT NULL DEFAULT '',
  read INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}

	// ---- Schema v1: indexes ----

	idx := []string{
		`CREATE INDEX IF NOT EXISTS idx_vacancies_tenant_state ON vacancies(tenant_id, state);`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_vacancy ON candidates(vacancy_id);`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_tenant_read ON notifications(tenant_id, read);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sites_company ON sites(company_id);`,
	}
	for _, s := range idx {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}

	// Mark schema v1
	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
