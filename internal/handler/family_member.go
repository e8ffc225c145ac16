package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dglass/copperpot/internal/family"
	"github.com/dglass/copperpot/internal/model"
)

type MemberHandler struct {
	svc *family.Service
}

func NewMemberHandler(svc *family.Service) *MemberHandler {
	return &MemberHandler{svc: svc}
}

type memberRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		errJSON(w, http.StatusBadRequest, "name is required")
		return
	}

	role := model.RoleChild
	if req.Role == string(model.RoleParent) {
		role = model.RoleParent
	}

	member := h.svc.AddMember(req.Name, req.Avatar, role)
	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Members())
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		errJSON(w, http.StatusBadRequest, "name is required")
		return
	}

	member := h.svc.UpdateMember(id, req.Name, req.Avatar)
	if member == nil {
		errJSON(w, http.StatusNotFound, "member not found")
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	if !h.svc.RemoveMember(id) {
		errJSON(w, http.StatusNotFound, "member not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *MemberHandler) Switch(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	h.svc.SwitchUser(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "switched"})
}

func (h *MemberHandler) Active(w http.ResponseWriter, r *http.Request) {
	active := h.svc.ActiveUser()
	if active == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, active)
}
