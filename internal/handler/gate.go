package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/family"
	"github.com/dglass/copperpot/internal/gate"
)

// GateHandler exposes the parent pattern gate. The gated action is
// switching the active profile to a parent; the client queues it with a
// request, then submits gestures until one is accepted.
type GateHandler struct {
	gate          *gate.Gate
	recovery      *gate.Recovery
	svc           *family.Service
	recoveryEmail string
	save          func()
}

func NewGateHandler(g *gate.Gate, recovery *gate.Recovery, svc *family.Service, recoveryEmail string, save func()) *GateHandler {
	if save == nil {
		save = func() {}
	}
	return &GateHandler{gate: g, recovery: recovery, svc: svc, recoveryEmail: recoveryEmail, save: save}
}

func (h *GateHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state":     h.gate.State(),
		"hasSecret": h.gate.HasSecret(),
	})
}

func (h *GateHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID *uuid.UUID `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	action := func() {}
	if req.UserID != nil {
		member := h.svc.Member(*req.UserID)
		if member == nil {
			errJSON(w, http.StatusNotFound, "member not found")
			return
		}
		if !member.IsParent() {
			errJSON(w, http.StatusBadRequest, "member is not a parent")
			return
		}
		id := *req.UserID
		action = func() { h.svc.SwitchUser(id) }
	}

	state := h.gate.RequestAccess(action)
	writeJSON(w, http.StatusOK, map[string]any{"state": state})
}

func (h *GateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Gesture []int `json:"gesture"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res := h.gate.SubmitGesture(req.Gesture)
	if res.Accepted {
		h.save()
		writeJSON(w, http.StatusOK, res)
		return
	}
	writeJSON(w, http.StatusUnauthorized, res)
}

func (h *GateHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.gate.Cancel()
	writeJSON(w, http.StatusOK, map[string]any{"state": h.gate.State()})
}

func (h *GateHandler) RecoveryRequest(w http.ResponseWriter, r *http.Request) {
	if h.recoveryEmail == "" {
		errJSON(w, http.StatusServiceUnavailable, "recovery email not configured")
		return
	}

	if !h.recovery.Request(h.recoveryEmail) {
		errJSON(w, http.StatusServiceUnavailable, "could not send recovery code")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *GateHandler) RecoveryVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if !h.recovery.Verify(req.Code) {
		errJSON(w, http.StatusUnauthorized, "invalid or expired code")
		return
	}
	h.save()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
