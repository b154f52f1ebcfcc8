package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"recruitpipe/internal/auth"
)

type AuthHandler struct {
	Svc *auth.Service
	Log *zap.Logger
}

type loginReq struct {
	Tenant   string `json:"tenant"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := h.Svc.Login(r.Context(), req.Tenant, req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, sess)
}

func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "auth", "missing bearer token")
		return
	}
	if err := h.Svc.Logout(r.Context(), strings.TrimSpace(token)); err != nil {
		h.Log.Error("logout", zap.Error(err))
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
