package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/booking-api/internal/auth"
	"github.com/isdelr/booking-api/internal/models"
	"github.com/isdelr/booking-api/internal/services"
)

// TicketHandler handles HTTP requests for ticket management. Every route is
// behind the auth guard, so the acting user is always on the context.
type TicketHandler struct {
	service services.TicketServiceProvider
}

var errInvalidCoordinate = errors.New("latitude and longitude must be numeric")

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(service services.TicketServiceProvider) *TicketHandler {
	return &TicketHandler{service: service}
}

// TicketPayload is the request body for create and update. Pointer fields
// distinguish "absent" from a zero value, which is what makes partial
// updates possible; create additionally requires every field present.
type TicketPayload struct {
	Place     *string  `json:"place"`
	City      *string  `json:"city"`
	Hotel     *string  `json:"hotel"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Create handles POST /booking/.
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.CurrentUser(r.Context())
	if !ok {
		responderNoUser(w)
		return
	}

	var payload TicketPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Place == nil || payload.City == nil || payload.Hotel == nil ||
		payload.Latitude == nil || payload.Longitude == nil {
		respondWithError(w, http.StatusBadRequest, "place, city, hotel, latitude and longitude are required")
		return
	}

	ticket, err := h.service.Create(r.Context(), owner, models.TicketCreate{
		Place:     *payload.Place,
		City:      *payload.City,
		Hotel:     *payload.Hotel,
		Latitude:  *payload.Latitude,
		Longitude: *payload.Longitude,
	})
	if err != nil {
		log.Error().Err(err).Int64("user_id", owner.ID).Msg("Failed to create ticket")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, ticket)
}

// GetAll handles GET /booking/.
func (h *TicketHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.CurrentUser(r.Context())
	if !ok {
		responderNoUser(w)
		return
	}

	tickets, err := h.service.List(r.Context(), owner)
	if err != nil {
		log.Error().Err(err).Int64("user_id", owner.ID).Msg("Failed to list tickets")
		respondWithServiceError(w, err)
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}

	respondWithJSON(w, http.StatusOK, tickets)
}

// Get handles GET /booking/{id}.
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.CurrentUser(r.Context())
	if !ok {
		responderNoUser(w)
		return
	}

	id, err := ticketID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	ticket, err := h.service.GetByID(r.Context(), owner, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ticket)
}

// Update handles PUT /booking/{id}.
func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.CurrentUser(r.Context())
	if !ok {
		responderNoUser(w)
		return
	}

	id, err := ticketID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	var payload TicketPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticket, err := h.service.Update(r.Context(), owner, id, models.TicketUpdate{
		Place:     payload.Place,
		City:      payload.City,
		Hotel:     payload.Hotel,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ticket)
}

// Delete handles DELETE /booking/{id} and returns the removed ticket.
func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.CurrentUser(r.Context())
	if !ok {
		responderNoUser(w)
		return
	}

	id, err := ticketID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	ticket, err := h.service.Delete(r.Context(), owner, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ticket)
}

// Filter handles GET /booking/filter/filter. Criteria come from query
// parameters; parameters outside the fixed field set are ignored.
func (h *TicketHandler) Filter(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.CurrentUser(r.Context())
	if !ok {
		responderNoUser(w)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	tickets, err := h.service.Filter(r.Context(), owner, filter)
	if err != nil {
		log.Error().Err(err).Int64("user_id", owner.ID).Msg("Failed to filter tickets")
		respondWithServiceError(w, err)
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}

	respondWithJSON(w, http.StatusOK, tickets)
}

func parseFilter(r *http.Request) (models.TicketFilter, error) {
	var filter models.TicketFilter
	query := r.URL.Query()

	if query.Has("place") {
		v := query.Get("place")
		filter.Place = &v
	}
	if query.Has("city") {
		v := query.Get("city")
		filter.City = &v
	}
	if query.Has("hotel") {
		v := query.Get("hotel")
		filter.Hotel = &v
	}
	if query.Has("latitude") {
		v, err := strconv.ParseFloat(query.Get("latitude"), 64)
		if err != nil {
			return models.TicketFilter{}, errInvalidCoordinate
		}
		filter.Latitude = &v
	}
	if query.Has("longitude") {
		v, err := strconv.ParseFloat(query.Get("longitude"), 64)
		if err != nil {
			return models.TicketFilter{}, errInvalidCoordinate
		}
		filter.Longitude = &v
	}

	return filter, nil
}

func ticketID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func responderNoUser(w http.ResponseWriter) {
	log.Error().Msg("Could not retrieve acting user from context")
	respondWithError(w, http.StatusInternalServerError, "could not resolve acting user")
}
