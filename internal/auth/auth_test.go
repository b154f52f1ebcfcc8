package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
	"go.uber.org/zap"

	"recruitpipe/internal/apperr"
	"recruitpipe/internal/domain"
	"recruitpipe/internal/secrets"
	"recruitpipe/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := store.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := store.Migrate(d.Pool); err != nil {
		t.Fatal(err)
	}
	if err := store.EnsureTenant(context.Background(), d.Pool, "default", "Default"); err != nil {
		t.Fatal(err)
	}
	return d.Pool
}

func testService(db *sql.DB) *Service {
	return &Service{DB: db, TTL: time.Hour, BootstrapUser: "admin", Log: zap.NewNop()}
}

func TestBootstrapLoginOnEmptyStore(t *testing.T) {
	keyring.MockInit()
	if err := secrets.SetAdminPassword("hunter2"); err != nil {
		t.Fatal(err)
	}

	db := testDB(t)
	svc := testService(db)
	ctx := context.Background()

	// no recruiter rows exist yet: the first-run path
	sess, err := svc.Login(ctx, "default", "admin", "hunter2")
	if err != nil {
		t.Fatalf("bootstrap login on empty store: %v", err)
	}
	if sess.RecruiterID == 0 {
		t.Fatal("session carries no recruiter id")
	}

	resolved, err := svc.Resolve(ctx, sess.Token)
	if err != nil {
		t.Fatalf("resolve bootstrap session: %v", err)
	}
	if resolved.TenantID != "default" || resolved.Username != "admin" {
		t.Errorf("resolved session = %+v", resolved)
	}

	rec, err := store.GetRecruiterByUsername(ctx, db, "default", "admin")
	if err != nil {
		t.Fatalf("bootstrap recruiter row missing: %v", err)
	}
	if rec.Role != "admin" {
		t.Errorf("bootstrap recruiter role = %q", rec.Role)
	}

	// second login reuses the materialized row
	again, err := svc.Login(ctx, "default", "admin", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if again.RecruiterID != sess.RecruiterID {
		t.Errorf("recruiter ids differ across logins: %d vs %d", again.RecruiterID, sess.RecruiterID)
	}
}

func TestBootstrapLoginRejectsWrongPassword(t *testing.T) {
	keyring.MockInit()
	if err := secrets.SetAdminPassword("hunter2"); err != nil {
		t.Fatal(err)
	}

	svc := testService(testDB(t))
	_, err := svc.Login(context.Background(), "default", "admin", "wrong")
	if apperr.CodeOf(err) != apperr.CodeAuth {
		t.Errorf("err = %v, want auth", err)
	}
}

func TestRecruiterPasswordLogin(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	salt, hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.UpsertRecruiter(ctx, db, domain.Recruiter{
		TenantID: "default", Username: "sam", PasswordHash: hash, Salt: salt, Role: "recruiter",
	}); err != nil {
		t.Fatal(err)
	}

	svc := testService(db)
	sess, err := svc.Login(ctx, "default", "sam", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Username != "sam" || sess.RecruiterID == 0 {
		t.Errorf("session = %+v", sess)
	}

	if _, err := svc.Login(ctx, "default", "sam", "nope"); apperr.CodeOf(err) != apperr.CodeAuth {
		t.Errorf("wrong password err = %v, want auth", err)
	}
	if _, err := svc.Login(ctx, "default", "nobody", "s3cret"); apperr.CodeOf(err) != apperr.CodeAuth {
		t.Errorf("unknown user err = %v, want auth", err)
	}
}

func TestLogoutAndExpiry(t *testing.T) {
	keyring.MockInit()
	if err := secrets.SetAdminPassword("hunter2"); err != nil {
		t.Fatal(err)
	}

	db := testDB(t)
	svc := testService(db)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "default", "admin", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx, sess.Token); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Resolve(ctx, sess.Token); apperr.CodeOf(err) != apperr.CodeAuth {
		t.Errorf("resolve after logout err = %v, want auth", err)
	}

	// expired sessions resolve as auth failures and are removed
	expired := domain.Session{
		Token: "expired-token", TenantID: "default", RecruiterID: sess.RecruiterID,
		Username: "admin", ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	if err := store.InsertSession(ctx, db, expired); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Resolve(ctx, expired.Token); apperr.CodeOf(err) != apperr.CodeAuth {
		t.Errorf("resolve expired err = %v, want auth", err)
	}
}
