package handlers

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/booking-api/internal/auth"
	"github.com/isdelr/booking-api/internal/models"
	"github.com/isdelr/booking-api/internal/services"
)

// MapHandler renders the owner's ticket coordinates as an HTML map page. It
// only reads the {id, hotel, latitude, longitude} projection.
type MapHandler struct {
	service services.TicketServiceProvider
}

// NewMapHandler creates a new MapHandler.
func NewMapHandler(service services.TicketServiceProvider) *MapHandler {
	return &MapHandler{service: service}
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Bookings</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <style>#map { height: 100vh; }</style>
</head>
<body>
<div id="map"></div>
<script>
  var points = {{.}};
  var map = L.map('map').setView([points[0].latitude, points[0].longitude], 12);
  L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
    attribution: '&copy; OpenStreetMap contributors'
  }).addTo(map);
  points.forEach(function (p) {
    L.circleMarker([p.latitude, p.longitude], {
      radius: 5, color: 'red', fill: true, fillColor: 'red'
    }).bindPopup('ID: ' + p.id + ', Hotel: ' + p.hotel).addTo(map);
  });
</script>
</body>
</html>
`))

// VisualizeMap handles GET /booking/visualize/map. An owner with no tickets
// gets a 404, matching the single-record fetch behavior.
func (h *MapHandler) VisualizeMap(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.CurrentUser(r.Context())
	if !ok {
		responderNoUser(w)
		return
	}

	coords, err := h.service.Coordinates(r.Context(), owner)
	if err != nil {
		log.Error().Err(err).Int64("user_id", owner.ID).Msg("Failed to load ticket coordinates")
		respondWithServiceError(w, err)
		return
	}
	if len(coords) == 0 {
		respondWithError(w, http.StatusNotFound, "no tickets found for the user")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := mapTemplate.Execute(w, coords); err != nil {
		log.Error().Err(err).Msg("Failed to render map page")
	}
}

// Coordinates handles GET /booking/visualize/coordinates, the raw JSON feed
// behind the map page. Desktop clients consume this directly.
func (h *MapHandler) Coordinates(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.CurrentUser(r.Context())
	if !ok {
		responderNoUser(w)
		return
	}

	coords, err := h.service.Coordinates(r.Context(), owner)
	if err != nil {
		log.Error().Err(err).Int64("user_id", owner.ID).Msg("Failed to load ticket coordinates")
		respondWithServiceError(w, err)
		return
	}
	if coords == nil {
		coords = []models.Coordinate{}
	}

	respondWithJSON(w, http.StatusOK, coords)
}
