package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"recruitpipe/internal/auth"
	"recruitpipe/internal/notify"
)

type NotificationsHandler struct {
	Fanout *notify.Fanout
	Log    *zap.Logger
}

func (h NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	ns, err := h.Fanout.List(r.Context(), sess.TenantID, 200)
	if err != nil {
		h.Log.Error("list notifications", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, ns)
}

func (h NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	n, err := h.Fanout.MarkAllRead(r.Context(), sess.TenantID)
	if err != nil {
		h.Log.Error("mark read", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"marked": n})
}

func (h NotificationsHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	count, err := h.Fanout.UnreadCount(r.Context(), sess.TenantID)
	if err != nil {
		h.Log.Error("unread count", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]int{"count": count})
}
