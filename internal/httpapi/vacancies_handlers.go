package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"recruitpipe/internal/analytics"
	"recruitpipe/internal/apperr"
	"recruitpipe/internal/auth"
	"recruitpipe/internal/config"
	"recruitpipe/internal/domain"
	"recruitpipe/internal/events"
	"recruitpipe/internal/lifecycle"
	"recruitpipe/internal/notify"
	"recruitpipe/internal/store"
)

type VacanciesHandler struct {
	DB     *sql.DB
	Hub    *events.Hub
	Fanout *notify.Fanout
	CfgVal *atomic.Value // stores config.Config
	Log    *zap.Logger
}

// vacancyView augments the stored record with the derived numbers every list
// and detail screen needs.
type vacancyView struct {
	domain.Vacancy
	DaysOpen int                 `json:"daysOpen"`
	Sla      lifecycle.SlaStatus `json:"sla"`
}

func (h VacanciesHandler) view(v domain.Vacancy, now time.Time) vacancyView {
	cfg := h.CfgVal.Load().(config.Config)
	return vacancyView{
		Vacancy:  v,
		DaysOpen: lifecycle.DaysOpen(v, now),
		Sla:      lifecycle.Sla(v, now, cfg.SLA.UrgentWindowDays),
	}
}

func (h VacanciesHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	q := r.URL.Query()

	vacs, err := store.ListVacancies(r.Context(), h.DB, sess.TenantID, store.ListVacanciesOpts{
		State: q.Get("state"),
		Sort:  q.Get("sort"),
	})
	if err != nil {
		h.Log.Error("list vacancies", zap.Error(err))
		writeError(w, err)
		return
	}

	now := time.Now()
	out := make([]vacancyView, 0, len(vacs))
	for _, v := range vacs {
		out = append(out, h.view(v, now))
	}
	writeJSON(w, out)
}

type createVacancyReq struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	SiteID           int64     `json:"siteId"`
	ProcessRef       string    `json:"processRef"`
	ProjectRef       string    `json:"projectRef"`
	CostCenterRef    string    `json:"costCenterRef"`
	Priority         string    `json:"priority"`
	Recruiter        string    `json:"responsibleRecruiter"`
	OpenedAt         time.Time `json:"openedAt"`
	EstimatedCloseAt time.Time `json:"estimatedCloseAt"`
	SLATargetDays    int       `json:"slaTargetDays"`
	ApprovedBudget   float64   `json:"approvedBudget"`
	MaxBudget        float64   `json:"maxBudget"`
	BaseSalary       float64   `json:"baseSalary"`
	OfferedSalary    float64   `json:"offeredSalary"`
	VacancyCost      float64   `json:"vacancyCost"`
	DailyVacancyCost float64   `json:"dailyVacancyCost"`
}

func (h VacanciesHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	var req createVacancyReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	prio := domain.PriorityMedium
	if req.Priority != "" {
		var err error
		if prio, err = domain.ParsePriority(req.Priority); err != nil {
			writeError(w, apperr.Validationf("%v", err))
			return
		}
	}
	slaDays := req.SLATargetDays
	if slaDays == 0 {
		slaDays = cfg.SLA.TargetDays
	}

	v := domain.Vacancy{
		TenantID:         sess.TenantID,
		Title:            req.Title,
		Description:      req.Description,
		SiteID:           req.SiteID,
		ProcessRef:       req.ProcessRef,
		ProjectRef:       req.ProjectRef,
		CostCenterRef:    req.CostCenterRef,
		State:            domain.VacancyOpen,
		Priority:         prio,
		Recruiter:        req.Recruiter,
		OpenedAt:         req.OpenedAt,
		EstimatedCloseAt: req.EstimatedCloseAt,
		SLATargetDays:    slaDays,
		ApprovedBudget:   req.ApprovedBudget,
		MaxBudget:        req.MaxBudget,
		BaseSalary:       req.BaseSalary,
		OfferedSalary:    req.OfferedSalary,
		VacancyCost:      req.VacancyCost,
		DailyVacancyCost: req.DailyVacancyCost,
	}
	if err := lifecycle.ValidateNew(v); err != nil {
		writeError(w, err)
		return
	}

	created, err := store.CreateVacancy(r.Context(), h.DB, v)
	if err != nil {
		h.Log.Error("create vacancy", zap.Error(err))
		writeError(w, err)
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, sess.TenantID, events.TypeVacancyUpdated,
		map[string]any{"id": created.ID, "requisitionCode": created.RequisitionCode}))
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, h.view(created, time.Now()))
}

func (h VacanciesHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := store.GetVacancy(r.Context(), h.DB, sess.TenantID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, h.view(v, time.Now()))
}

func (h VacanciesHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var patch lifecycle.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	v, err := store.GetVacancy(r.Context(), h.DB, sess.TenantID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	wasFilled := v.State == domain.VacancyFilled

	if err := lifecycle.ApplyPatch(&v, patch, time.Now()); err != nil {
		writeError(w, err)
		return
	}
	if err := store.UpdateVacancy(r.Context(), h.DB, v); err != nil {
		h.Log.Error("update vacancy", zap.Error(err))
		writeError(w, err)
		return
	}

	if !wasFilled && v.State == domain.VacancyFilled {
		h.Fanout.Notify(r.Context(), sess.TenantID, domain.NotifVacancyFilled,
			"Vacancy filled", v.RequisitionCode+" "+v.Title)
	}
	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, sess.TenantID, events.TypeVacancyUpdated,
		map[string]any{"id": v.ID}))
	writeJSON(w, h.view(v, time.Now()))
}

type moveReq struct {
	Direction string `json:"direction"` // next | prev
}

// Move is the kanban drag. The move is optimistic: the new state is applied
// to the local copy first and reverted if the store write fails, and the
// failure is surfaced so the client can snap the card back.
func (h VacanciesHandler) Move(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req moveReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var dir lifecycle.Direction
	switch req.Direction {
	case "next":
		dir = lifecycle.Next
	case "prev":
		dir = lifecycle.Prev
	default:
		writeError(w, apperr.Validationf("direction must be next or prev"))
		return
	}

	v, err := store.GetVacancy(r.Context(), h.DB, sess.TenantID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	move := lifecycle.NewStageMove(v, dir)
	if move.NoOp() {
		writeJSON(w, h.view(v, time.Now()))
		return
	}

	move.Apply(&v, time.Now())
	if err := store.UpdateVacancy(r.Context(), h.DB, v); err != nil {
		move.Revert(&v)
		h.Log.Error("kanban move", zap.Int64("vacancy_id", v.ID), zap.Error(err))
		writeError(w, err)
		return
	}

	if v.State == domain.VacancyFilled {
		h.Fanout.Notify(r.Context(), sess.TenantID, domain.NotifVacancyFilled,
			"Vacancy filled", v.RequisitionCode+" "+v.Title)
	}
	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, sess.TenantID, events.TypeVacancyUpdated,
		map[string]any{"id": v.ID, "state": v.State}))
	writeJSON(w, h.view(v, time.Now()))
}

func (h VacanciesHandler) NextCode(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	code, err := store.PeekRequisitionCode(r.Context(), h.DB, sess.TenantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"nextCode": code})
}

func (h VacanciesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	cfg := h.CfgVal.Load().(config.Config)

	vacs, err := store.ListVacancies(r.Context(), h.DB, sess.TenantID, store.ListVacanciesOpts{Limit: 100000})
	if err != nil {
		writeError(w, err)
		return
	}
	sites, err := store.SiteNames(r.Context(), h.DB, sess.TenantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, analytics.Compute(vacs, sites, time.Now(), cfg.SLA.UrgentWindowDays))
}

func pathID(r *http.Request) (int64, error) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validationf("invalid id %q", idStr)
	}
	return id, nil
}
