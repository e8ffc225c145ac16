package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dglass/copperpot/internal/backup"
	"github.com/dglass/copperpot/internal/family"
)

type BackupHandler struct {
	manager *backup.Manager
	svc     *family.Service
	save    func()
}

func NewBackupHandler(manager *backup.Manager, svc *family.Service, save func()) *BackupHandler {
	if save == nil {
		save = func() {}
	}
	return &BackupHandler{manager: manager, svc: svc, save: save}
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}

func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	key, err := h.manager.RunNow(r.Context())
	if err != nil {
		errJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"objectKey": key})
}

func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ObjectKey string `json:"objectKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ObjectKey == "" {
		errJSON(w, http.StatusBadRequest, "objectKey is required")
		return
	}

	snapshot, err := h.manager.Restore(r.Context(), req.ObjectKey)
	if err != nil {
		errJSON(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.svc.Restore(snapshot)
	h.save()
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}
