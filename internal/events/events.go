package events

import (
	"encoding/json"
	"time"
)

const (
	TypeNotificationCreated = "notification_created"
	TypeNotificationDigest  = "notification_digest"
	TypeVacancyUpdated      = "vacancy_updated"
	TypeCandidateUpdated    = "candidate_updated"
	TypeApplicationReceived = "application_received"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	Tenant    string          `json:"tenant,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, tenant, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		Tenant:    tenant,
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
