package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cafehopper/cafe-hopper/server/internal/api/respond"
	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/places"
	"github.com/cafehopper/cafe-hopper/server/internal/services"
)

// CafeHandler serves the cafe search surface.
type CafeHandler struct {
	search   *services.SearchService
	provider places.Provider
}

func NewCafeHandler(search *services.SearchService, provider places.Provider) *CafeHandler {
	return &CafeHandler{search: search, provider: provider}
}

// SearchCafes handles POST /cafes/search.
func (h *CafeHandler) SearchCafes(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	cafes, err := h.search.Search(r.Context(), req)
	if err != nil {
		writeSearchError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, model.SearchResponse{Cafes: cafes, Error: ""})
}

// NearbyCafes handles GET /cafes/nearby. It is a thin passthrough to the
// provider's nearby search, without detail enrichment or reconciliation.
func (h *CafeHandler) NearbyCafes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		respond.WriteBadRequest(w, "lat and lng query parameters are required")
		return
	}
	radius := 0
	if v := q.Get("radius"); v != "" {
		var err error
		radius, err = strconv.Atoi(v)
		if err != nil || radius < 0 {
			respond.WriteBadRequest(w, "radius must be a non-negative integer")
			return
		}
	}

	candidates, err := h.provider.NearbySearch(r.Context(), model.Geolocation{Lat: lat, Lng: lng}, radius)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"results": candidates})
}

// CafePhoto handles GET /cafes/photo/{ref}, proxying the provider's photo
// endpoint.
func (h *CafeHandler) CafePhoto(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	if ref == "" {
		respond.WriteBadRequest(w, "photo reference required")
		return
	}
	img, err := h.provider.Photo(r.Context(), ref)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// writeSearchError maps pipeline error kinds onto the HTTP surface:
// request faults (validation, provider integrity violations) are 400s,
// collaborator failures are 500s. Either way the body is {error} with no
// partial results.
func writeSearchError(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrValidation) || errors.Is(err, model.ErrIntegrity) {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	respond.WriteInternalError(w, err.Error())
}
