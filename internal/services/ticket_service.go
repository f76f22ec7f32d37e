package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/booking-api/internal/models"
	"github.com/isdelr/booking-api/internal/websocket"
)

// TicketServiceProvider defines the interface for ticket services. Every
// operation takes the acting owner and enforces ownership server-side; a
// caller can never reach another owner's tickets.
type TicketServiceProvider interface {
	Create(ctx context.Context, owner models.User, in models.TicketCreate) (models.Ticket, error)
	List(ctx context.Context, owner models.User) ([]models.Ticket, error)
	GetByID(ctx context.Context, owner models.User, id int64) (models.Ticket, error)
	Update(ctx context.Context, owner models.User, id int64, patch models.TicketUpdate) (models.Ticket, error)
	Delete(ctx context.Context, owner models.User, id int64) (models.Ticket, error)
	Filter(ctx context.Context, owner models.User, filter models.TicketFilter) ([]models.Ticket, error)
	Coordinates(ctx context.Context, owner models.User) ([]models.Coordinate, error)
}

// TicketService provides business logic for ticket management.
type TicketService struct {
	db  *sql.DB
	hub *websocket.Hub
}

// NewTicketService creates a new TicketService. hub may be nil when no event
// feed is wanted (tests).
func NewTicketService(db *sql.DB, hub *websocket.Hub) *TicketService {
	return &TicketService{db: db, hub: hub}
}

// Create inserts a new ticket owned by owner. All fields are required;
// created_at is set now and updated_at stays unset until the first mutation.
func (s *TicketService) Create(ctx context.Context, owner models.User, in models.TicketCreate) (models.Ticket, error) {
	if in.Place == "" || in.City == "" || in.Hotel == "" {
		return models.Ticket{}, fmt.Errorf("%w: place, city and hotel are required", models.ErrValidation)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tickets(place, city, hotel, latitude, longitude, created_at, owner_id)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		in.Place, in.City, in.Hotel, in.Latitude, in.Longitude, now, owner.ID)
	if err != nil {
		return models.Ticket{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Ticket{}, err
	}

	ticket := models.Ticket{
		ID:        id,
		Place:     in.Place,
		City:      in.City,
		Hotel:     in.Hotel,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: now,
		OwnerID:   owner.ID,
	}

	s.publish(owner.ID, "ticket.created", ticket)
	return ticket, nil
}

// List returns all tickets owned by owner, in insertion order.
func (s *TicketService) List(ctx context.Context, owner models.User) ([]models.Ticket, error) {
	return s.queryTickets(ctx,
		"SELECT id, place, city, hotel, latitude, longitude, created_at, updated_at, owner_id FROM tickets WHERE owner_id = ?",
		owner.ID)
}

// GetByID returns a single ticket. A ticket that does not exist and a ticket
// owned by someone else are both models.ErrNotFound.
func (s *TicketService) GetByID(ctx context.Context, owner models.User, id int64) (models.Ticket, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, place, city, hotel, latitude, longitude, created_at, updated_at, owner_id FROM tickets WHERE id = ? AND owner_id = ?",
		id, owner.ID)
	return scanTicket(row)
}

// Update applies a partial update to a ticket. Only fields present on the
// patch change; the read-check-then-write runs inside a single transaction
// so a concurrent delete cannot race it into a half-applied state.
func (s *TicketService) Update(ctx context.Context, owner models.User, id int64, patch models.TicketUpdate) (models.Ticket, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Ticket{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, place, city, hotel, latitude, longitude, created_at, updated_at, owner_id FROM tickets WHERE id = ? AND owner_id = ?",
		id, owner.ID)
	ticket, err := scanTicket(row)
	if err != nil {
		return models.Ticket{}, err
	}

	if patch.Place != nil {
		ticket.Place = *patch.Place
	}
	if patch.City != nil {
		ticket.City = *patch.City
	}
	if patch.Hotel != nil {
		ticket.Hotel = *patch.Hotel
	}
	if patch.Latitude != nil {
		ticket.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		ticket.Longitude = *patch.Longitude
	}

	now := time.Now().UTC()
	ticket.UpdatedAt = &now

	_, err = tx.ExecContext(ctx,
		"UPDATE tickets SET place = ?, city = ?, hotel = ?, latitude = ?, longitude = ?, updated_at = ? WHERE id = ? AND owner_id = ?",
		ticket.Place, ticket.City, ticket.Hotel, ticket.Latitude, ticket.Longitude, now, id, owner.ID)
	if err != nil {
		return models.Ticket{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Ticket{}, err
	}

	s.publish(owner.ID, "ticket.updated", ticket)
	return ticket, nil
}

// Delete removes a ticket and returns its prior state. Same ErrNotFound rule
// as GetByID; the check and the delete share one transaction.
func (s *TicketService) Delete(ctx context.Context, owner models.User, id int64) (models.Ticket, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Ticket{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, place, city, hotel, latitude, longitude, created_at, updated_at, owner_id FROM tickets WHERE id = ? AND owner_id = ?",
		id, owner.ID)
	ticket, err := scanTicket(row)
	if err != nil {
		return models.Ticket{}, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM tickets WHERE id = ? AND owner_id = ?", id, owner.ID); err != nil {
		return models.Ticket{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Ticket{}, err
	}

	s.publish(owner.ID, "ticket.deleted", ticket)
	return ticket, nil
}

// Filter returns the owner's tickets matching the logical AND of all set
// criteria. An empty filter returns everything the owner has. Numeric fields
// compare by exact equality.
func (s *TicketService) Filter(ctx context.Context, owner models.User, filter models.TicketFilter) ([]models.Ticket, error) {
	query := "SELECT id, place, city, hotel, latitude, longitude, created_at, updated_at, owner_id FROM tickets WHERE owner_id = ?"
	args := []interface{}{owner.ID}

	if filter.Place != nil {
		query += " AND place = ?"
		args = append(args, *filter.Place)
	}
	if filter.City != nil {
		query += " AND city = ?"
		args = append(args, *filter.City)
	}
	if filter.Hotel != nil {
		query += " AND hotel = ?"
		args = append(args, *filter.Hotel)
	}
	if filter.Latitude != nil {
		query += " AND latitude = ?"
		args = append(args, *filter.Latitude)
	}
	if filter.Longitude != nil {
		query += " AND longitude = ?"
		args = append(args, *filter.Longitude)
	}

	return s.queryTickets(ctx, query, args...)
}

// Coordinates returns the {id, hotel, latitude, longitude} projection of the
// owner's tickets, consumed by map visualization.
func (s *TicketService) Coordinates(ctx context.Context, owner models.User) ([]models.Coordinate, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, hotel, latitude, longitude FROM tickets WHERE owner_id = ?", owner.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coords []models.Coordinate
	for rows.Next() {
		var c models.Coordinate
		if err := rows.Scan(&c.ID, &c.Hotel, &c.Latitude, &c.Longitude); err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, rows.Err()
}

func (s *TicketService) queryTickets(ctx context.Context, query string, args ...interface{}) ([]models.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		var updatedAt sql.NullTime
		err := rows.Scan(&t.ID, &t.Place, &t.City, &t.Hotel, &t.Latitude, &t.Longitude, &t.CreatedAt, &updatedAt, &t.OwnerID)
		if err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			t.UpdatedAt = &updatedAt.Time
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// rowScanner covers both *sql.Row and the row shape returned inside a
// transaction.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTicket(row rowScanner) (models.Ticket, error) {
	var t models.Ticket
	var updatedAt sql.NullTime
	err := row.Scan(&t.ID, &t.Place, &t.City, &t.Hotel, &t.Latitude, &t.Longitude, &t.CreatedAt, &updatedAt, &t.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Ticket{}, models.ErrNotFound
		}
		return models.Ticket{}, err
	}
	if updatedAt.Valid {
		t.UpdatedAt = &updatedAt.Time
	}
	return t, nil
}

// publish pushes a ticket change event to the owner's websocket feed, if a
// hub is attached.
func (s *TicketService) publish(ownerID int64, action string, ticket models.Ticket) {
	if s.hub == nil {
		return
	}
	msg, err := websocket.NewTicketEvent(action, ticket)
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode ticket event")
		return
	}
	s.hub.PublishTo(ownerID, msg)
}
