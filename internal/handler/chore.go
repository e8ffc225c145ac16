package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/family"
	"github.com/dglass/copperpot/internal/model"
)

type ChoreHandler struct {
	svc *family.Service
}

func NewChoreHandler(svc *family.Service) *ChoreHandler {
	return &ChoreHandler{svc: svc}
}

type choreRequest struct {
	Name       string     `json:"name"`
	Icon       string     `json:"icon"`
	Points     int        `json:"points"`
	Recurrence string     `json:"recurrence"`
	UserID     *uuid.UUID `json:"userId"`
}

func parseRecurrence(s string) (model.Recurrence, bool) {
	switch model.Recurrence(s) {
	case model.RecurrenceDaily, "":
		return model.RecurrenceDaily, true
	case model.RecurrenceWeekly:
		return model.RecurrenceWeekly, true
	default:
		return "", false
	}
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	if req.Points < 0 {
		errJSON(w, http.StatusBadRequest, "points must not be negative")
		return
	}
	recurrence, valid := parseRecurrence(req.Recurrence)
	if !valid {
		errJSON(w, http.StatusBadRequest, "recurrence must be daily or weekly")
		return
	}

	chore := h.svc.AddChore(req.Name, req.Icon, req.Points, recurrence, req.UserID)
	writeJSON(w, http.StatusCreated, chore)
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Chores())
}

func (h *ChoreHandler) Assign(w http.ResponseWriter, r *http.Request) {
	choreID, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		UserID uuid.UUID `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	chore := h.svc.AssignChore(choreID, req.UserID)
	if chore == nil {
		errJSON(w, http.StatusNotFound, "chore or member not found")
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	h.svc.DeleteChore(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	res := h.svc.CompleteChore(id)
	if !res.OK {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ChoreHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		ApprovedBy uuid.UUID `json:"approvedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res := h.svc.ApproveChore(id, req.ApprovedBy)
	if !res.OK {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ChoreHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	res := h.svc.RejectChore(id)
	if !res.OK {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
