package api

import (
	"github.com/gorilla/mux"

	"github.com/cafehopper/cafe-hopper/server/internal/api/recovery"
	"github.com/cafehopper/cafe-hopper/server/internal/places"
	"github.com/cafehopper/cafe-hopper/server/internal/services"
)

// NewRouter wires HTTP routes to handlers.
func NewRouter(search *services.SearchService, review *services.ReviewService, provider places.Provider) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	cafe := NewCafeHandler(search, provider)
	root.HandleFunc("/cafes/search", cafe.SearchCafes).Methods("POST")
	root.HandleFunc("/cafes/nearby", cafe.NearbyCafes).Methods("GET")
	root.HandleFunc("/cafes/photo/{ref}", cafe.CafePhoto).Methods("GET")

	reviews := NewReviewHandler(review)
	root.HandleFunc("/cafes/ping", reviews.PingCafe).Methods("PUT")

	healthHandler := NewHealthHandler()
	root.HandleFunc("/health", healthHandler.CheckHealth).Methods("GET")

	return root
}
