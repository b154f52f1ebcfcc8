package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"recruitpipe/internal/apperr"
	"recruitpipe/internal/domain"
)

func EnsureTenant(ctx context.Context, db *sql.DB, id, name string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tenants(id, name) VALUES(?,?);`, id, name)
	return err
}

func UpsertRecruiter(ctx context.Context, db *sql.DB, r domain.Recruiter) (domain.Recruiter, error) {
	res, err := db.ExecContext(ctx, `
INSERT INTO recruiters(tenant_id, username, password_hash, salt, role)
VALUES(?,?,?,?,?)
ON CONFLICT(tenant_id, username) DO UPDATE SET
  password_hash = excluded.password_hash,
  salt = excluded.salt,
  role = excluded.role;`,
		r.TenantID, r.Username, r.PasswordHash, r.Salt, r.Role)
	if err != nil {
		return domain.Recruiter{}, err
	}
	if id, _ := res.LastInsertId(); id != 0 {
		r.ID = id
	}
	return r, nil
}

func GetRecruiterByUsername(ctx context.Context, db *sql.DB, tenant, username string) (domain.Recruiter, error) {
	var r domain.Recruiter
	err := db.QueryRowContext(ctx, `
SELECT id, tenant_id, username, password_hash, salt, role
FROM recruiters WHERE tenant_id = ? AND username = ?;`, tenant, username).Scan(
		&r.ID, &r.TenantID, &r.Username, &r.PasswordHash, &r.Salt, &r.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Recruiter{}, apperr.Authf("unknown user")
	}
	return r, err
}

func InsertSession(ctx context.Context, db *sql.DB, s domain.Session) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO sessions(token, tenant_id, recruiter_id, username, expires_at)
VALUES(?,?,?,?,?);`,
		s.Token, s.TenantID, s.RecruiterID, s.Username, fmtTime(s.ExpiresAt))
	return err
}

func GetSession(ctx context.Context, db *sql.DB, token string) (domain.Session, error) {
	var s domain.Session
	var expiresAt string
	err := db.QueryRowContext(ctx, `
SELECT token, tenant_id, recruiter_id, username, expires_at
FROM sessions WHERE token = ?;`, token).Scan(
		&s.Token, &s.TenantID, &s.RecruiterID, &s.Username, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, apperr.Authf("invalid session")
	}
	if err != nil {
		return domain.Session{}, err
	}
	s.ExpiresAt = parseTime(expiresAt)
	return s, nil
}

func DeleteSession(ctx context.Context, db *sql.DB, token string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?;`, token)
	return err
}

func DeleteExpiredSessions(db *sql.DB) (int64, error) {
	res, err := db.Exec(`DELETE FROM sessions WHERE expires_at < ?;`, fmtTime(time.Now()))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
