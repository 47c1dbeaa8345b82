package routes

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"TRIPMATE_BACK-END/internal/config"
	"TRIPMATE_BACK-END/internal/handlers"
	"TRIPMATE_BACK-END/internal/middleware"
	"TRIPMATE_BACK-END/internal/utils"
)

// SetupRoutes configures all application routes
func SetupRoutes(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	googleAuthHandler *handlers.GoogleAuthHandler,
	healthHandler *handlers.HealthHandler,
	tripsHandler *handlers.TripsHandler,
	requestsHandler *handlers.RequestsHandler,
	itineraryHandler *handlers.ItineraryHandler,
	profileHandler *handlers.ProfileHandler,
	notificationsHandler *handlers.NotificationsHandler,
) {
	jwtCfg := &cfg.JWT

	// Health check routes
	http.HandleFunc("/healthz", healthHandler.HealthCheck)
	http.HandleFunc("/livez", healthHandler.LivenessCheck)
	http.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Authentication routes
	http.HandleFunc("/api/auth/register", authHandler.Register)
	http.HandleFunc("/api/auth/login", authHandler.Login)
	http.HandleFunc("/api/auth/google/login", googleAuthHandler.GoogleLogin)
	http.HandleFunc("/api/auth/google/callback", googleAuthHandler.GoogleCallback)
	http.HandleFunc("/logout", authHandler.Logout)

	// Current user routes
	http.HandleFunc("/api/user", middleware.AuthMiddleware(authHandler.Me, jwtCfg))
	http.HandleFunc("/api/user/profile", middleware.AuthMiddleware(profileHandler.Handle, jwtCfg))

	// Trip collection routes
	http.HandleFunc("/api/trips/create", middleware.AuthMiddleware(tripsHandler.CreateTrip, jwtCfg))
	http.HandleFunc("/api/trips/my", middleware.AuthMiddleware(tripsHandler.MyTrips, jwtCfg))
	http.HandleFunc("/api/trips/upcoming", middleware.AuthMiddleware(tripsHandler.UpcomingTrips, jwtCfg))
	http.HandleFunc("/api/trips/past", middleware.AuthMiddleware(tripsHandler.PastTrips, jwtCfg))

	// Join request routes
	http.HandleFunc("/api/trips/requests/pending", middleware.AuthMiddleware(requestsHandler.PendingRequests, jwtCfg))
	http.HandleFunc("/api/trips/requests/", middleware.AuthMiddleware(requestsHandler.ResolveRequest, jwtCfg))

	// Trip sub-resource routes: /api/trips/{id}[/update|/close|/request|/generate-itinerary]
	http.HandleFunc("/api/trips/", middleware.AuthMiddleware(
		tripDispatcher(tripsHandler, requestsHandler, itineraryHandler), jwtCfg))

	// Notification routes
	http.HandleFunc("/api/notifications", middleware.AuthMiddleware(notificationsHandler.ListNotifications, jwtCfg))
	http.HandleFunc("/api/notifications/read-all", middleware.AuthMiddleware(notificationsHandler.MarkAllRead, jwtCfg))
	http.HandleFunc("/api/notifications/", middleware.AuthMiddleware(notificationsHandler.MarkRead, jwtCfg))

	// Root route
	http.HandleFunc("/", rootHandler)
}

// tripDispatcher parses the trip id and optional action segment out of the
// path and routes to the matching handler method.
func tripDispatcher(
	tripsHandler *handlers.TripsHandler,
	requestsHandler *handlers.RequestsHandler,
	itineraryHandler *handlers.ItineraryHandler,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/trips/")
		rest = strings.TrimSuffix(rest, "/")

		idPart := rest
		action := ""
		if slash := strings.Index(rest, "/"); slash > 0 {
			idPart = rest[:slash]
			action = rest[slash+1:]
		}

		tripID, err := uuid.Parse(idPart)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid id", "trip id must be a valid UUID")
			return
		}

		switch action {
		case "":
			switch r.Method {
			case http.MethodGet:
				tripsHandler.TripDetail(w, r, tripID)
			case http.MethodDelete:
				tripsHandler.DeleteTrip(w, r, tripID)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		case "update":
			if r.Method != http.MethodPut {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			tripsHandler.UpdateTrip(w, r, tripID)
		case "close":
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			tripsHandler.CloseTrip(w, r, tripID)
		case "request":
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			requestsHandler.SubmitRequest(w, r, tripID)
		case "generate-itinerary":
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			itineraryHandler.GenerateItinerary(w, r, tripID)
		default:
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "unknown trip action")
		}
	}
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("TripMate backend is running."))
}
