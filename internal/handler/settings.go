package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dglass/copperpot/internal/family"
	"github.com/dglass/copperpot/internal/model"
)

type SettingsHandler struct {
	svc *family.Service
}

func NewSettingsHandler(svc *family.Service) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Settings())
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	h.svc.UpdateSettings(req)
	writeJSON(w, http.StatusOK, h.svc.Settings())
}
