package http

import (
	"encoding/json"
	"net/http"

	"roomstay-backend/internal/service"
)

type SeatHandler struct {
	seatSvc service.SeatService
}

func NewSeatHandler(seatSvc service.SeatService) *SeatHandler {
	return &SeatHandler{seatSvc: seatSvc}
}

func (h *SeatHandler) List(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := pathID(w, r, "property_id")
	if !ok {
		return
	}
	seats, err := h.seatSvc.ListSeats(r.Context(), propertyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seats)
}

func (h *SeatHandler) CountAvailable(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := pathID(w, r, "property_id")
	if !ok {
		return
	}
	count, err := h.seatSvc.CountAvailable(r.Context(), propertyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"available": count})
}

type toggleSeatRequest struct {
	Block bool `json:"block"`
}

func (h *SeatHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	seatID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req toggleSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	seat, err := h.seatSvc.ToggleSeat(r.Context(), actorID(r), seatID, req.Block)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seat)
}
