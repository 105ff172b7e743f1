package http

import (
	"encoding/json"
	"net/http"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/service"
)

type FinanceHandler struct {
	financeSvc service.FinanceService
}

func NewFinanceHandler(financeSvc service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeSvc: financeSvc}
}

func (h *FinanceHandler) RequestPayout(w http.ResponseWriter, r *http.Request) {
	request, err := h.financeSvc.RequestPayout(r.Context(), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

type processPayoutRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

func (h *FinanceHandler) ProcessPayout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req processPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	request, err := h.financeSvc.ProcessPayoutRequest(r.Context(), actorID(r), id, req.Approve, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *FinanceHandler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")
	requests, total, err := h.financeSvc.ListPayoutRequests(r.Context(), actorID(r), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Items: requests, Total: total, Page: page})
}

func (h *FinanceHandler) EarningsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.financeSvc.GetEarningsSummary(r.Context(), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *FinanceHandler) ListEarnings(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	earnings, total, err := h.financeSvc.ListEarnings(r.Context(), actorID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Items: earnings, Total: total, Page: page})
}

func (h *FinanceHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	payments, total, err := h.financeSvc.ListPayments(r.Context(), actorID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Items: payments, Total: total, Page: page})
}

type addPayoutMethodRequest struct {
	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	AccountHolderName string `json:"account_holder_name"`
	RoutingNumber     string `json:"routing_number"`
	Currency          string `json:"currency"`
}

func (h *FinanceHandler) AddPayoutMethod(w http.ResponseWriter, r *http.Request) {
	var req addPayoutMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	method, err := h.financeSvc.AddPayoutMethod(r.Context(), actorID(r), &domain.PayoutMethod{
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		AccountHolderName: req.AccountHolderName,
		RoutingNumber:     req.RoutingNumber,
		Currency:          req.Currency,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, method)
}

func (h *FinanceHandler) ListPayoutMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.financeSvc.ListPayoutMethods(r.Context(), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, methods)
}

func (h *FinanceHandler) DeletePayoutMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.financeSvc.DeletePayoutMethod(r.Context(), actorID(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
