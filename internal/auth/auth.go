// Package auth issues and resolves bearer sessions. Session state lives in
// the store and travels through request context; there is no process-global
// current user.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"recruitpipe/internal/apperr"
	"recruitpipe/internal/domain"
	"recruitpipe/internal/secrets"
	"recruitpipe/internal/store"
)

type ctxKey string

const sessionKey ctxKey = "session"

func WithSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom returns the authenticated session, if any.
func SessionFrom(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(domain.Session)
	return s, ok
}

type Service struct {
	DB  *sql.DB
	TTL time.Duration
	// BootstrapUser may log in with the keyring-held credential even before
	// any recruiter rows exist.
	BootstrapUser string
	Log           *zap.Logger
}

func (s *Service) Login(ctx context.Context, tenant, username, password string) (domain.Session, error) {
	if tenant == "" || username == "" || password == "" {
		return domain.Session{}, apperr.Validationf("tenant, username and password are required")
	}

	var recruiterID int64
	rec, err := store.GetRecruiterByUsername(ctx, s.DB, tenant, username)
	switch {
	case err == nil && rec.PasswordHash != "":
		salt, derr := hex.DecodeString(rec.Salt)
		if derr != nil || !verify(password, salt, rec.PasswordHash) {
			return domain.Session{}, apperr.Authf("invalid credentials")
		}
		recruiterID = rec.ID
	case username == s.BootstrapUser:
		// bootstrap credential lives in the OS keychain, not the store
		stored, kerr := secrets.GetAdminPassword()
		if kerr != nil || subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
			return domain.Session{}, apperr.Authf("invalid credentials")
		}
		if err == nil {
			recruiterID = rec.ID
		} else {
			// first login on an empty store: the session row references a
			// recruiter, so materialize one for the bootstrap user
			created, cerr := store.UpsertRecruiter(ctx, s.DB, domain.Recruiter{
				TenantID: tenant,
				Username: username,
				Role:     "admin",
			})
			if cerr != nil {
				return domain.Session{}, cerr
			}
			recruiterID = created.ID
		}
	default:
		return domain.Session{}, apperr.Authf("invalid credentials")
	}

	token, err := newToken()
	if err != nil {
		return domain.Session{}, err
	}
	sess := domain.Session{
		Token:       token,
		TenantID:    tenant,
		RecruiterID: recruiterID,
		Username:    username,
		ExpiresAt:   time.Now().UTC().Add(s.TTL),
	}
	if err := store.InsertSession(ctx, s.DB, sess); err != nil {
		return domain.Session{}, err
	}
	s.Log.Info("login", zap.String("tenant", tenant), zap.String("user", username))
	return sess, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return store.DeleteSession(ctx, s.DB, token)
}

// Resolve validates a bearer token and returns its session.
func (s *Service) Resolve(ctx context.Context, token string) (domain.Session, error) {
	sess, err := store.GetSession(ctx, s.DB, token)
	if err != nil {
		return domain.Session{}, err
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = store.DeleteSession(ctx, s.DB, token)
		return domain.Session{}, apperr.Authf("session expired")
	}
	return sess, nil
}

// HashPassword returns (hexSalt, hexHash) for storing a recruiter credential.
func HashPassword(password string) (string, string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", err
	}
	h := sha256.Sum256(append([]byte(password), salt...))
	return hex.EncodeToString(salt), hex.EncodeToString(h[:]), nil
}

func verify(password string, salt []byte, wantHex string) bool {
	h := sha256.Sum256(append([]byte(password), salt...))
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(h[:])), []byte(wantHex)) == 1
}

func newToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
