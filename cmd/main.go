// @title TripMate Backend API
// @version 1.0
// @description TripMate Backend API for group trip planning and companion matching
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "TRIPMATE_BACK-END/docs" // This is required for swagger
	"TRIPMATE_BACK-END/internal/config"
	"TRIPMATE_BACK-END/internal/handlers"
	"TRIPMATE_BACK-END/internal/itinerary"
	"TRIPMATE_BACK-END/internal/routes"
	"TRIPMATE_BACK-END/internal/service"
	"TRIPMATE_BACK-END/internal/store"
	"TRIPMATE_BACK-END/internal/utils"
)

func main() {
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dsn := appCfg.GetDSN()
	fmt.Println("Connecting to:", appCfg.Database.Host)

	// pgxpool + simple protocol (needed when connecting through PgBouncer)
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatalf("parse dsn: %v", err)
	}
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	cfg.ConnConfig.RuntimeParams["application_name"] = "tripmate-backend"
	cfg.ConnConfig.RuntimeParams["statement_timeout"] = "30000" // 30s
	cfg.MaxConns = appCfg.Database.MaxConns
	cfg.MinConns = appCfg.Database.MinConns
	cfg.MaxConnLifetime = appCfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	// Boot-time ping
	{
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("ping: %v", err)
		}
	}

	// --- Services ---

	st := store.NewPostgresStore(pool)
	tripSvc := service.NewTripService(st)
	requestSvc := service.NewRequestService(st)
	gemini := itinerary.NewGeminiClient(appCfg.Itinerary.APIKey, appCfg.Itinerary.Model, appCfg.Itinerary.Timeout)
	itinerarySvc := service.NewItineraryService(st, gemini, appCfg.Itinerary.Timeout)
	emailSvc := utils.NewEmailService(&appCfg.Email)

	// --- HTTP Handlers ---

	authHandler := handlers.NewAuthHandler(pool, &appCfg.JWT)
	googleAuthHandler := handlers.NewGoogleAuthHandler(pool, appCfg)
	healthHandler := handlers.NewHealthHandler(pool)
	notificationsHandler := handlers.NewNotificationsHandler(pool)
	tripsHandler := handlers.NewTripsHandler(tripSvc, pool, notificationsHandler.Service())
	requestsHandler := handlers.NewRequestsHandler(requestSvc, pool, notificationsHandler.Service(), emailSvc)
	itineraryHandler := handlers.NewItineraryHandler(itinerarySvc)
	profileHandler := handlers.NewProfileHandler(pool)

	// Setup all routes
	routes.SetupRoutes(appCfg, authHandler, googleAuthHandler, healthHandler,
		tripsHandler, requestsHandler, itineraryHandler, profileHandler, notificationsHandler)

	// Swagger documentation
	http.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// --- HTTP Server + Graceful Shutdown ---

	c := cors.New(cors.Options{
		AllowedOrigins:   appCfg.CORS.AllowedOrigins,
		AllowedMethods:   appCfg.CORS.AllowedMethods,
		AllowedHeaders:   appCfg.CORS.AllowedHeaders,
		AllowCredentials: appCfg.CORS.AllowCredentials,
	})

	// Wrap the default mux with CORS
	handler := c.Handler(http.DefaultServeMux)

	srv := &http.Server{
		Addr:              ":" + appCfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       appCfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", appCfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped.")
}
