package httpapi

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"recruitpipe/internal/auth"
	"recruitpipe/internal/domain"
	"recruitpipe/internal/store"
)

type CompaniesHandler struct {
	DB  *sql.DB
	Log *zap.Logger
}

func (h CompaniesHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	cs, err := store.ListCompanies(r.Context(), h.DB, sess.TenantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, cs)
}

func (h CompaniesHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeErrorStatus(w, http.StatusBadRequest, "validation", "name is required")
		return
	}
	c, err := store.InsertCompany(r.Context(), h.DB, domain.Company{TenantID: sess.TenantID, Name: req.Name})
	if err != nil {
		h.Log.Error("create company", zap.Error(err))
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, c)
}

// Delete refuses to remove a company that still has sites (409); there is no
// cascade.
func (h CompaniesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := store.DeleteCompany(r.Context(), h.DB, sess.TenantID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h CompaniesHandler) ListSites(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	ss, err := store.ListSites(r.Context(), h.DB, sess.TenantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ss)
}

func (h CompaniesHandler) CreateSite(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	var req struct {
		CompanyID int64  `json:"companyId"`
		Name      string `json:"name"`
		City      string `json:"city"`
		Country   string `json:"country"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" || req.CompanyID == 0 {
		writeErrorStatus(w, http.StatusBadRequest, "validation", "name and companyId are required")
		return
	}
	s, err := store.InsertSite(r.Context(), h.DB, domain.Site{
		TenantID:  sess.TenantID,
		CompanyID: req.CompanyID,
		Name:      req.Name,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, s)
}

func (h CompaniesHandler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := store.DeleteSite(r.Context(), h.DB, sess.TenantID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
