package models

import "time"

// Ticket represents a single booking record. Every ticket belongs to exactly
// one owner and is only ever visible through operations scoped to that owner.
type Ticket struct {
	ID        int64      `json:"id"`
	Place     string     `json:"place"`
	City      string     `json:"city"`
	Hotel     string     `json:"hotel"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"` // nil until the first mutation
	OwnerID   int64      `json:"-"`
}

// TicketCreate carries the full field set required to create a ticket.
type TicketCreate struct {
	Place     string
	City      string
	Hotel     string
	Latitude  float64
	Longitude float64
}

// TicketUpdate is a partial update. Nil fields keep their current value.
type TicketUpdate struct {
	Place     *string
	City      *string
	Hotel     *string
	Latitude  *float64
	Longitude *float64
}

// TicketFilter holds exact-match criteria over the closed set of filterable
// fields. Nil criteria are not applied; an empty filter matches everything.
type TicketFilter struct {
	Place     *string
	City      *string
	Hotel     *string
	Latitude  *float64
	Longitude *float64
}

// Coordinate is the read-only projection consumed by map visualization.
type Coordinate struct {
	ID        int64   `json:"id"`
	Hotel     string  `json:"hotel"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
