package httpapi

import (
	"net/http"

	"recruitpipe/internal/secrets"
)

type SecretsHandler struct{}

type setAdminPasswordReq struct {
	Password string `json:"password"`
}

// SetAdminPassword writes the bootstrap credential into the OS keychain.
// Loopback only: the credential never travels beyond the machine.
func (h SecretsHandler) SetAdminPassword(w http.ResponseWriter, r *http.Request) {
	if !loopbackOnly(w, r) {
		return
	}
	var req setAdminPasswordReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := secrets.SetAdminPassword(req.Password); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "validation", "failed to store password: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
