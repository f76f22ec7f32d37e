package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/isdelr/booking-api/internal/api/handlers"
	"github.com/isdelr/booking-api/internal/auth"
	"github.com/isdelr/booking-api/internal/services"
	"github.com/isdelr/booking-api/internal/websocket"
)

// RouterConfig carries the collaborators the router wires together.
type RouterConfig struct {
	UserService   services.UserServiceProvider
	TicketService services.TicketServiceProvider
	Tokens        *auth.TokenService
	Guard         *auth.Guard
	Hub           *websocket.Hub
	CORSOrigin    string
	TokenTTL      time.Duration
}

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg.UserService, cfg.Tokens, cfg.TokenTTL)
	ticketHandler := handlers.NewTicketHandler(cfg.TicketService)
	mapHandler := handlers.NewMapHandler(cfg.TicketService)
	wsHandler := handlers.NewWebSocketHandler(cfg.Hub)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"BookingAPI"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/token", authHandler.Token)
	})

	r.Route("/booking", func(r chi.Router) {
		r.Use(cfg.Guard.Middleware())

		r.Post("/", ticketHandler.Create)
		r.Get("/", ticketHandler.GetAll)
		r.Get("/filter/filter", ticketHandler.Filter)
		r.Get("/visualize/map", mapHandler.VisualizeMap)
		r.Get("/visualize/coordinates", mapHandler.Coordinates)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", ticketHandler.Get)
			r.Put("/", ticketHandler.Update)
			r.Delete("/", ticketHandler.Delete)
		})
	})

	// Ticket event feed
	r.Group(func(r chi.Router) {
		r.Use(cfg.Guard.Middleware())
		r.Get("/ws", wsHandler.Serve)
	})

	return r
}
