package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cafehopper/cafe-hopper/server/internal/api/respond"
	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/services"
)

// ReviewHandler serves the review aggregation surface.
type ReviewHandler struct {
	svc *services.ReviewService
}

func NewReviewHandler(svc *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// PingCafe handles PUT /cafes/ping.
func (h *ReviewHandler) PingCafe(w http.ResponseWriter, r *http.Request) {
	var req model.PingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	cafe, err := h.svc.Ping(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrValidation):
			respond.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrNotFound):
			respond.WriteNotFound(w, err.Error())
		default:
			respond.WriteInternalError(w, err.Error())
		}
		return
	}
	respond.WriteJSON(w, http.StatusOK, cafe)
}
