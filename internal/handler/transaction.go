package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/family"
)

type TransactionHandler struct {
	svc *family.Service
}

func NewTransactionHandler(svc *family.Service) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	if userParam := r.URL.Query().Get("userId"); userParam != "" {
		userID, err := uuid.Parse(userParam)
		if err != nil {
			errJSON(w, http.StatusBadRequest, "invalid userId")
			return
		}
		writeJSON(w, http.StatusOK, h.svc.TransactionsFor(userID))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Transactions())
}

func (h *TransactionHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      uuid.UUID `json:"userId"`
		Amount      int64     `json:"amount"`
		Description string    `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res := h.svc.RedeemCash(req.UserID, req.Amount, req.Description)
	if !res.OK {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *TransactionHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      uuid.UUID `json:"userId"`
		Amount      int64     `json:"amount"`
		Description string    `json:"description"`
		AdjustedBy  uuid.UUID `json:"adjustedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res := h.svc.AdjustBalance(req.UserID, req.Amount, req.Description, req.AdjustedBy)
	if !res.OK {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
