package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"recruitpipe/internal/auth"
	"recruitpipe/internal/events"
)

type EventsHandler struct {
	Hub *events.Hub
}

// ServeSSE streams the event feed for the session's tenant. Events carrying a
// different tenant are dropped on the way out; tenant-less events (pings,
// digests addressed to everyone) pass through.
func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErrorStatus(w, http.StatusInternalServerError, "stream_unsupported", "streaming unsupported")
		return
	}

	sess, _ := auth.SessionFrom(r.Context())

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	// Ping as a proper event envelope
	reqID := RequestIDFrom(r.Context())
	ping := events.MakeEvent(reqID, sess.TenantID, "ping", nil)
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", ping)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			if !eventForTenant(msg, sess.TenantID) {
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func eventForTenant(raw, tenant string) bool {
	var e events.Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return false
	}
	return e.Tenant == "" || e.Tenant == tenant
}
