package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"recruitpipe/internal/apperr"
	"recruitpipe/internal/auth"
	"recruitpipe/internal/domain"
	"recruitpipe/internal/events"
	"recruitpipe/internal/notify"
	"recruitpipe/internal/pipeline"
	"recruitpipe/internal/store"
)

type CandidatesHandler struct {
	DB     *sql.DB
	Hub    *events.Hub
	Fanout *notify.Fanout
	Log    *zap.Logger
}

type candidateView struct {
	domain.Candidate
	ScoreBand   *pipeline.ScoreBand     `json:"scoreBand,omitempty"`
	PublicState domain.ApplicationState `json:"publicState"`
}

func candView(c domain.Candidate) candidateView {
	v := candidateView{Candidate: c, PublicState: pipeline.PublicState(c.Stage)}
	if c.TechnicalScore != nil {
		band := pipeline.ClassifyTechnicalScore(*c.TechnicalScore)
		v.ScoreBand = &band
	}
	return v
}

func (h CandidatesHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	q := r.URL.Query()

	var vacancyID int64
	if s := q.Get("vacancyId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeError(w, apperr.Validationf("invalid vacancyId %q", s))
			return
		}
		vacancyID = id
	}

	cands, err := store.ListCandidates(r.Context(), h.DB, sess.TenantID, store.ListCandidatesOpts{
		VacancyID: vacancyID,
		Stage:     q.Get("stage"),
	})
	if err != nil {
		h.Log.Error("list candidates", zap.Error(err))
		writeError(w, err)
		return
	}

	out := make([]candidateView, 0, len(cands))
	for _, c := range cands {
		out = append(out, candView(c))
	}
	writeJSON(w, out)
}

type createCandidateReq struct {
	Name      string `json:"name"`
	VacancyID int64  `json:"vacancyId"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Source    string `json:"recruitmentSource"`
	CVURL     string `json:"cvUrl"`
}

// Create is manual registration by a recruiter; public submissions come in
// through the applications endpoint instead.
func (h CandidatesHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	var req createCandidateReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	src := domain.Source(req.Source)
	if req.Source != "" {
		var err error
		if src, err = domain.ParseSource(req.Source); err != nil {
			writeError(w, apperr.Validationf("%v", err))
			return
		}
	}

	c, err := pipeline.NewCandidate(sess.TenantID, req.VacancyID, req.Name, src)
	if err != nil {
		writeError(w, err)
		return
	}
	c.Email = req.Email
	c.Phone = req.Phone
	c.CVURL = req.CVURL

	// the vacancy must exist within the tenant
	if _, err := store.GetVacancy(r.Context(), h.DB, sess.TenantID, c.VacancyID); err != nil {
		writeError(w, err)
		return
	}

	created, err := store.InsertCandidate(r.Context(), h.DB, c)
	if err != nil {
		h.Log.Error("create candidate", zap.Error(err))
		writeError(w, err)
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, sess.TenantID, events.TypeCandidateUpdated,
		map[string]any{"id": created.ID}))
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, candView(created))
}

func (h CandidatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := store.GetCandidate(r.Context(), h.DB, sess.TenantID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, candView(c))
}

func (h CandidatesHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var patch pipeline.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	c, err := store.GetCandidate(r.Context(), h.DB, sess.TenantID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	priorStage := c.Stage

	if err := pipeline.ApplyPatch(&c, patch); err != nil {
		writeError(w, err)
		return
	}
	if err := store.UpdateCandidate(r.Context(), h.DB, c); err != nil {
		h.Log.Error("update candidate", zap.Error(err))
		writeError(w, err)
		return
	}

	if c.Stage != priorStage {
		// keep the applicant-facing record in step; best-effort like the fanout
		if err := store.SyncApplicationState(r.Context(), h.DB, c.ID, pipeline.PublicState(c.Stage)); err != nil {
			h.Log.Error("sync application state", zap.Int64("candidate_id", c.ID), zap.Error(err))
		}
		h.Fanout.Notify(r.Context(), sess.TenantID, domain.NotifCandidateMoved,
			"Candidate moved", c.Name+" is now in "+string(c.Stage))
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, sess.TenantID, events.TypeCandidateUpdated,
		map[string]any{"id": c.ID, "stage": c.Stage}))
	writeJSON(w, candView(c))
}
