package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-group-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/preferences"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/trips"
)

// Config contains dependencies needed for the router setup
type Config struct {
	TripHandler            *trips.HandlerImpl
	PlaceHandler           *places.HandlerImpl
	PreferenceHandler      *preferences.HandlerImpl
	ItineraryHandler       *itinerary.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Heartbeat/Health check endpoint (public)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Route("/trips", func(r chi.Router) {
				r.Post("/", cfg.TripHandler.CreateTripHandler)
				r.Get("/", cfg.TripHandler.GetMyTripsHandler)

				r.Route("/{tripID}", func(r chi.Router) {
					r.Get("/", cfg.TripHandler.GetTripHandler)
					r.Delete("/", cfg.TripHandler.DeleteTripHandler)

					r.Post("/members", cfg.TripHandler.InviteMemberHandler)
					r.Put("/members/respond", cfg.TripHandler.RespondToInviteHandler)

					r.Post("/places", cfg.TripHandler.AttachPlaceHandler)
					r.Delete("/places/{placeID}", cfg.TripHandler.DetachPlaceHandler)

					r.Post("/itinerary", cfg.ItineraryHandler.GenerateItineraryHandler)
					r.Post("/itinerary/full-route", cfg.ItineraryHandler.GenerateFullRouteHandler)
					r.Get("/preferences/group", cfg.ItineraryHandler.GetGroupPreferencesHandler)
				})
			})

			r.Route("/preferences", func(r chi.Router) {
				r.Get("/", cfg.PreferenceHandler.GetMyPreferencesHandler)
				r.Put("/", cfg.PreferenceHandler.SetPreferenceHandler)
				r.Delete("/{categorySlug}", cfg.PreferenceHandler.DeletePreferenceHandler)
			})

			r.Route("/places", func(r chi.Router) {
				r.Get("/search", cfg.PlaceHandler.SearchPlacesHandler)
				r.Get("/{placeID}", cfg.PlaceHandler.GetPlaceHandler)
			})
		})
	})

	return r
}
