package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/family"
)

type TemplateHandler struct {
	svc *family.Service
}

func NewTemplateHandler(svc *family.Service) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

func (h *TemplateHandler) CreateChore(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		errJSON(w, http.StatusBadRequest, "name is required")
		return
	}
	recurrence, valid := parseRecurrence(req.Recurrence)
	if !valid {
		errJSON(w, http.StatusBadRequest, "recurrence must be daily or weekly")
		return
	}

	tpl := h.svc.AddChoreTemplate(req.Name, req.Icon, req.Points, recurrence)
	writeJSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	params, problem := req.params()
	if problem != "" {
		errJSON(w, http.StatusBadRequest, problem)
		return
	}

	tpl := h.svc.AddJobTemplate(params)
	writeJSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) ListChore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ChoreTemplates())
}

func (h *TemplateHandler) ListJob(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.JobTemplates())
}

func (h *TemplateHandler) DeleteChore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	h.svc.DeleteChoreTemplate(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *TemplateHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	h.svc.DeleteJobTemplate(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type applyRequest struct {
	UserIDs   []uuid.UUID `json:"userIds"`
	CreatedBy *uuid.UUID  `json:"createdBy"`
}

func (h *TemplateHandler) ApplyChore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.UserIDs) == 0 {
		errJSON(w, http.StatusBadRequest, "userIds is required")
		return
	}

	chores := h.svc.ApplyChoreTemplate(id, req.UserIDs)
	if chores == nil {
		errJSON(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusCreated, chores)
}

func (h *TemplateHandler) ApplyJob(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.UserIDs) == 0 {
		errJSON(w, http.StatusBadRequest, "userIds is required")
		return
	}

	var createdBy uuid.UUID
	if req.CreatedBy != nil {
		createdBy = *req.CreatedBy
	}

	jobs := h.svc.ApplyJobTemplate(id, req.UserIDs, createdBy)
	if jobs == nil {
		errJSON(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusCreated, jobs)
}
