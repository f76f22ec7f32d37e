package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/booking-api/internal/api"
	"github.com/isdelr/booking-api/internal/auth"
	"github.com/isdelr/booking-api/internal/config"
	"github.com/isdelr/booking-api/internal/database"
	"github.com/isdelr/booking-api/internal/logger"
	"github.com/isdelr/booking-api/internal/services"
	"github.com/isdelr/booking-api/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub for the ticket event feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	ticketService := services.NewTicketService(db, hub)

	// Set up the auth layer
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	guard := auth.NewGuard(tokens, userService)

	// Set up router
	router := api.NewRouter(api.RouterConfig{
		UserService:   userService,
		TicketService: ticketService,
		Tokens:        tokens,
		Guard:         guard,
		Hub:           hub,
		CORSOrigin:    cfg.CORSOrigin,
		TokenTTL:      cfg.TokenTTL,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
