package domain

import "time"

type Recruiter struct {
	ID           int64  `json:"id"`
	TenantID     string `json:"tenantId"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Salt         string `json:"-"`
	Role         string `json:"role"`
}

// Session is the explicit login state carried through request context.
// Created at login, destroyed at logout or expiry.
type Session struct {
	Token       string    `json:"token"`
	TenantID    string    `json:"tenantId"`
	RecruiterID int64     `json:"recruiterId"`
	Username    string    `json:"username"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
