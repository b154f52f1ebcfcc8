package httpapi

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"recruitpipe/internal/apperr"
	"recruitpipe/internal/domain"
	"recruitpipe/internal/events"
	"recruitpipe/internal/htmltext"
	"recruitpipe/internal/match"
	"recruitpipe/internal/notify"
	"recruitpipe/internal/pipeline"
	"recruitpipe/internal/store"
)

// ApplicationsHandler serves the unauthenticated applicant surface: the jobs
// listing, the apply form and the tracking-token status lookup.
type ApplicationsHandler struct {
	DB     *sql.DB
	Hub    *events.Hub
	Fanout *notify.Fanout
	Engine *match.Engine
	Log    *zap.Logger
}

type applyReq struct {
	VacancyID       int64    `json:"vacancyId"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Summary         string   `json:"summary"`
	Skills          []string `json:"skills"`
	YearsExperience int      `json:"yearsExperience"`
	CurrentTitle    string   `json:"currentTitle"`
	CVURL           string   `json:"cvUrl"`
	Source          string   `json:"source"`
}

type applyResp struct {
	MatchScore  int    `json:"matchScore"`
	TrackingURL string `json:"trackingUrl"`
}

// Apply is one logical unit: persist candidate+application, attach the
// once-only match score, then raise a notification. A failed scorer degrades
// the score; a failed notification never rolls the submission back.
func (h ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	v, err := store.GetVacancyByID(r.Context(), h.DB, req.VacancyID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !v.Active() {
		writeError(w, apperr.Validationf("vacancy %s is not accepting applications", v.RequisitionCode))
		return
	}

	src := domain.SourceOther
	if req.Source != "" {
		if parsed, err := domain.ParseSource(req.Source); err == nil {
			src = parsed
		}
	}
	cand, err := pipeline.NewCandidate(v.TenantID, v.ID, strings.TrimSpace(req.Name), src)
	if err != nil {
		writeError(w, err)
		return
	}
	cand.Email = req.Email
	cand.Phone = req.Phone
	cand.CVURL = req.CVURL

	score := h.Engine.ScoreApplication(r.Context(), match.Profile{
		Name:            req.Name,
		Summary:         req.Summary,
		Skills:          req.Skills,
		YearsExperience: req.YearsExperience,
		CurrentTitle:    req.CurrentTitle,
	}, v)

	token, err := match.NewTrackingToken()
	if err != nil {
		h.Log.Error("tracking token", zap.Error(err))
		writeError(w, err)
		return
	}

	app := domain.Application{
		TenantID:      v.TenantID,
		VacancyID:     v.ID,
		MatchScore:    score,
		TrackingToken: token,
		State:         domain.AppNueva,
	}
	if err := store.CreateApplication(r.Context(), h.DB, &cand, &app); err != nil {
		h.Log.Error("create application", zap.Error(err))
		writeError(w, err)
		return
	}

	// best-effort from here on: the submission is committed
	h.Fanout.Notify(r.Context(), v.TenantID, domain.NotifNewApplication,
		"New application", cand.Name+" applied to "+v.RequisitionCode+" "+v.Title)
	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, v.TenantID, events.TypeApplicationReceived,
		map[string]any{"vacancyId": v.ID, "candidateId": cand.ID}))

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, applyResp{
		MatchScore:  app.MatchScore,
		TrackingURL: "/applications/track/" + app.TrackingToken,
	})
}

type publicJob struct {
	VacancyID       int64  `json:"vacancyId"`
	RequisitionCode string `json:"requisitionCode"`
	Title           string `json:"title"`
	Excerpt         string `json:"excerpt"`
	Priority        string `json:"priority"`
}

// PublicJobs lists actively hiring vacancies with a plain-text excerpt of the
// stored HTML description.
func (h ApplicationsHandler) PublicJobs(w http.ResponseWriter, r *http.Request) {
	vacs, err := store.ListOpenVacancies(r.Context(), h.DB)
	if err != nil {
		h.Log.Error("public jobs", zap.Error(err))
		writeError(w, err)
		return
	}
	out := make([]publicJob, 0, len(vacs))
	for _, v := range vacs {
		out = append(out, publicJob{
			VacancyID:       v.ID,
			RequisitionCode: v.RequisitionCode,
			Title:           v.Title,
			Excerpt:         htmltext.Excerpt(v.Description, 280),
			Priority:        string(v.Priority),
		})
	}
	writeJSON(w, out)
}

type trackResp struct {
	State      domain.ApplicationState `json:"state"`
	MatchScore int                     `json:"matchScore"`
	AppliedAt  string                  `json:"appliedAt"`
}

// Track serves the status of one application. The token is the credential;
// no session is involved.
func (h ApplicationsHandler) Track(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(mux.Vars(r)["token"])
	if token == "" {
		writeError(w, apperr.Validationf("missing tracking token"))
		return
	}
	app, err := store.GetApplicationByToken(r.Context(), h.DB, token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, trackResp{
		State:      app.State,
		MatchScore: app.MatchScore,
		AppliedAt:  app.CreatedAt.Format("2006-01-02"),
	})
}
