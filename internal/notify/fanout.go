// Package notify appends tenant-wide recruiter notifications and pushes them
// over the SSE hub. Delivery is best-effort end to end: a failed append or a
// slow subscriber never fails the mutation that triggered it.
package notify

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"recruitpipe/internal/domain"
	"recruitpipe/internal/events"
	"recruitpipe/internal/store"
)

type Fanout struct {
	db  *sql.DB
	hub *events.Hub
	log *zap.Logger
}

func New(db *sql.DB, hub *events.Hub, log *zap.Logger) *Fanout {
	return &Fanout{db: db, hub: hub, log: log}
}

// Notify appends a notification for every recruiter of the tenant and
// publishes it to connected SSE clients. Errors are logged, never returned:
// the triggering mutation has already committed and must not roll back.
func (f *Fanout) Notify(ctx context.Context, tenant, typ, title, body string) {
	n, err := store.InsertNotification(ctx, f.db, domain.Notification{
		TenantID: tenant,
		Type:     typ,
		Title:    title,
		Body:     body,
	})
	if err != nil {
		f.log.Error("notification append failed",
			zap.String("tenant", tenant),
			zap.String("type", typ),
			zap.Error(err))
		return
	}
	f.hub.Publish(events.MakeEvent("", tenant, events.TypeNotificationCreated, n))
}

func (f *Fanout) List(ctx context.Context, tenant string, limit int) ([]domain.Notification, error) {
	return store.ListNotifications(ctx, f.db, tenant, limit)
}

func (f *Fanout) MarkAllRead(ctx context.Context, tenant string) (int64, error) {
	return store.MarkAllRead(ctx, f.db, tenant)
}

func (f *Fanout) UnreadCount(ctx context.Context, tenant string) (int, error) {
	return store.UnreadCount(ctx, f.db, tenant)
}

// BroadcastDigest pushes per-tenant unread counts to all SSE subscribers.
// Scheduled every 30s, it bounds the staleness of the badge count even for
// clients that missed individual events.
func (f *Fanout) BroadcastDigest(ctx context.Context) error {
	counts, err := store.UnreadCounts(ctx, f.db)
	if err != nil {
		return err
	}
	for tenant, count := range counts {
		f.hub.Publish(events.MakeEvent("", tenant, events.TypeNotificationDigest,
			map[string]int{"unread": count}))
	}
	return nil
}
