package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"recruitpipe/internal/domain"
)

func InsertNotification(ctx context.Context, db *sql.DB, n domain.Notification) (domain.Notification, error) {
	n.CreatedAt = time.Now().UTC()
	res, err := db.ExecContext(ctx, `
INSERT INTO notifications(tenant_id, type, title, body, read, created_at)
VALUES(?,?,?,?,0,?);`,
		n.TenantID, n.Type, n.Title, n.Body, fmtTime(n.CreatedAt))
	if err != nil {
		return domain.Notification{}, err
	}
	n.ID, _ = res.LastInsertId()
	return n, nil
}

func ListNotifications(ctx context.Context, db *sql.DB, tenant string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, tenant_id, type, title, body, read, created_at
FROM notifications
WHERE tenant_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;`, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var read int
		var createdAt string
		if err := rows.Scan(&n.ID, &n.TenantID, &n.Type, &n.Title, &n.Body, &read, &createdAt); err != nil {
			return nil, err
		}
		n.Read = read != 0
		n.CreatedAt = parseTime(createdAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkAllRead is idempotent: already-read rows are untouched and a second call
// affects zero rows.
func MarkAllRead(ctx context.Context, db *sql.DB, tenant string) (int64, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE tenant_id = ? AND read = 0;`, tenant)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func UnreadCount(ctx context.Context, db *sql.DB, tenant string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE tenant_id = ? AND read = 0;`, tenant).Scan(&count)
	return count, err
}

// UnreadCounts returns the unread tally for every tenant with notifications,
// used by the periodic digest broadcast.
func UnreadCounts(ctx context.Context, db *sql.DB) (map[string]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT tenant_id, COUNT(*) FROM notifications WHERE read = 0 GROUP BY tenant_id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var tenant string
		var n int
		if err := rows.Scan(&tenant, &n); err != nil {
			return nil, err
		}
		out[tenant] = n
	}
	return out, rows.Err()
}

// CleanupReadNotifications drops read notifications older than the retention
// window.
func CleanupReadNotifications(db *sql.DB, retentionDays int) (deleted int64, err error) {
	res, err := db.Exec(fmt.Sprintf(`
DELETE FROM notifications
WHERE read = 1 AND created_at < datetime('now', '-%d days');`, retentionDays))
	if err != nil {
		return 0, fmt.Errorf("cleanup notifications: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
