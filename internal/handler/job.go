package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/family"
	"github.com/dglass/copperpot/internal/job"
	"github.com/dglass/copperpot/internal/model"
)

type JobHandler struct {
	svc *family.Service
}

func NewJobHandler(svc *family.Service) *JobHandler {
	return &JobHandler{svc: svc}
}

type jobRequest struct {
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	Icon                    string     `json:"icon"`
	Value                   int64      `json:"value"`
	UserID                  *uuid.UUID `json:"userId"`
	Recurrence              string     `json:"recurrence"`
	DailyChores             int        `json:"dailyChores"`
	WeeklyChores            int        `json:"weeklyChores"`
	AllowMultipleCompletion bool       `json:"allowMultipleCompletion"`
	MaxCompletionsPerPeriod *int       `json:"maxCompletionsPerPeriod"`
	RequiresApproval        bool       `json:"requiresApproval"`
	CreatedBy               *uuid.UUID `json:"createdBy"`
}

func (req *jobRequest) params() (job.Params, string) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return job.Params{}, "title is required"
	}
	if req.Value < 0 {
		return job.Params{}, "value must not be negative"
	}
	recurrence, valid := parseRecurrence(req.Recurrence)
	if !valid {
		return job.Params{}, "recurrence must be daily or weekly"
	}
	if req.MaxCompletionsPerPeriod != nil && *req.MaxCompletionsPerPeriod < 1 {
		return job.Params{}, "maxCompletionsPerPeriod must be at least 1"
	}

	return job.Params{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		Value:       req.Value,
		UserID:      req.UserID,
		Recurrence:  recurrence,
		UnlockConditions: model.UnlockConditions{
			DailyChores:  req.DailyChores,
			WeeklyChores: req.WeeklyChores,
		},
		AllowMultipleCompletion: req.AllowMultipleCompletion,
		MaxCompletionsPerPeriod: req.MaxCompletionsPerPeriod,
		RequiresApproval:        req.RequiresApproval,
		CreatedBy:               req.CreatedBy,
	}, ""
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	created := h.svc.AddJob(params)
	writeJSON(w, http.StatusCreated, created)
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Jobs())
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	h.svc.DeleteJob(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *JobHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res := h.svc.CompleteJob(id, req.Count)
	if !res.OK {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *JobHandler) Approve(w http.ResponseWriter, r *http.Request) {
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

	res, total := h.svc.ApproveJobCompletions(id, req.ApprovedBy)
	if !res.OK {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "totalEarned": total})
}

func (h *JobHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		RejectedBy uuid.UUID `json:"rejectedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res := h.svc.RejectJob(id, req.RejectedBy)
	if !res.OK {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *JobHandler) CanComplete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	writeJSON(w, http.StatusOK, h.svc.CanCompleteJob(id))
}

func (h *JobHandler) Progress(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	progress := h.svc.JobProgress(id)
	if progress == nil {
		errJSON(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
