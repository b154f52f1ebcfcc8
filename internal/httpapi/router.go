package httpapi

import (
	"database/sql"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"recruitpipe/internal/auth"
	"recruitpipe/internal/config"
	"recruitpipe/internal/events"
	"recruitpipe/internal/match"
	"recruitpipe/internal/notify"
)

type Deps struct {
	DB     *sql.DB
	Hub    *events.Hub
	Fanout *notify.Fanout
	Engine *match.Engine
	Auth   *auth.Service

	// Atomic store for the live config
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Log *zap.Logger
}

// NewRouter wires every route. The applicant-facing surface sits outside the
// session middleware; everything recruiter-facing goes through RequireAuth.
func NewRouter(d Deps) http.Handler {
	cfg := d.CfgVal.Load().(config.Config)

	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(RequestID))
	r.Use(mux.MiddlewareFunc(AccessLog(d.Log)))
	r.Use(mux.MiddlewareFunc(Recover(d.Log)))
	r.Use(mux.MiddlewareFunc(Cors))

	// Public surface
	r.HandleFunc("/health", HealthHandler{}.Health).Methods(http.MethodGet)

	ah := AuthHandler{Svc: d.Auth, Log: d.Log}
	r.HandleFunc("/auth/login", ah.Login).Methods(http.MethodPost)

	aph := ApplicationsHandler{DB: d.DB, Hub: d.Hub, Fanout: d.Fanout, Engine: d.Engine, Log: d.Log}
	limiter := NewIPLimiter(float64(cfg.PublicApply.PerMinute), cfg.PublicApply.Burst)
	r.Handle("/applications/apply",
		RateLimit(limiter)(http.HandlerFunc(aph.Apply))).Methods(http.MethodPost)
	r.HandleFunc("/applications/public/jobs", aph.PublicJobs).Methods(http.MethodGet)
	r.HandleFunc("/applications/track/{token}", aph.Track).Methods(http.MethodGet)

	// Loopback-only maintenance
	dbh := DBHandler{DB: d.DB}
	r.HandleFunc("/db/checkpoint", dbh.Checkpoint).Methods(http.MethodPost)
	sh := SecretsHandler{}
	r.HandleFunc("/api/secrets/admin", sh.SetAdminPassword).Methods(http.MethodPost)

	// Recruiter surface
	api := r.NewRoute().Subrouter()
	api.Use(mux.MiddlewareFunc(RequireAuth(d.Auth)))

	api.HandleFunc("/auth/logout", ah.Logout).Methods(http.MethodPost)

	vh := VacanciesHandler{DB: d.DB, Hub: d.Hub, Fanout: d.Fanout, CfgVal: d.CfgVal, Log: d.Log}
	api.HandleFunc("/vacancies", vh.List).Methods(http.MethodGet)
	api.HandleFunc("/vacancies", vh.Create).Methods(http.MethodPost)
	api.HandleFunc("/vacancies/next-code", vh.NextCode).Methods(http.MethodGet)
	api.HandleFunc("/vacancies/stats", vh.Stats).Methods(http.MethodGet)
	api.HandleFunc("/vacancies/{id}", vh.Get).Methods(http.MethodGet)
	api.HandleFunc("/vacancies/{id}", vh.Update).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/vacancies/{id}/move", vh.Move).Methods(http.MethodPost)

	chd := CandidatesHandler{DB: d.DB, Hub: d.Hub, Fanout: d.Fanout, Log: d.Log}
	api.HandleFunc("/candidates", chd.List).Methods(http.MethodGet)
	api.HandleFunc("/candidates", chd.Create).Methods(http.MethodPost)
	api.HandleFunc("/candidates/{id}", chd.Get).Methods(http.MethodGet)
	api.HandleFunc("/candidates/{id}", chd.Update).Methods(http.MethodPut, http.MethodPatch)

	nh := NotificationsHandler{Fanout: d.Fanout, Log: d.Log}
	api.HandleFunc("/notifications", nh.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/mark-read", nh.MarkRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/unread-count", nh.UnreadCount).Methods(http.MethodGet)

	coh := CompaniesHandler{DB: d.DB, Log: d.Log}
	api.HandleFunc("/companies", coh.List).Methods(http.MethodGet)
	api.HandleFunc("/companies", coh.Create).Methods(http.MethodPost)
	api.HandleFunc("/companies/{id}", coh.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/sites", coh.ListSites).Methods(http.MethodGet)
	api.HandleFunc("/sites", coh.CreateSite).Methods(http.MethodPost)
	api.HandleFunc("/sites/{id}", coh.DeleteSite).Methods(http.MethodDelete)

	eh := EventsHandler{Hub: d.Hub}
	api.HandleFunc("/events", eh.ServeSSE).Methods(http.MethodGet)

	cfh := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath, LoadCfg: d.LoadCfg}
	api.HandleFunc("/config", cfh.Get).Methods(http.MethodGet)
	api.HandleFunc("/config", cfh.Put).Methods(http.MethodPut)
	api.HandleFunc("/config/path", cfh.Path).Methods(http.MethodGet)
	api.HandleFunc("/config/validate", cfh.Validate).Methods(http.MethodGet)

	return r
}
