package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/booking-api/internal/models"
	"github.com/isdelr/booking-api/internal/services"
)

func registerOwner(t *testing.T, db *sql.DB, username, email string) models.User {
	t.Helper()
	user, err := services.NewUserService(db).Register(context.Background(), username, email, "pw")
	require.NoError(t, err)
	return user
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestTicketService_Create(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTicketService(db, nil)
	owner := registerOwner(t, db, "alice", "a@x.com")
	ctx := context.Background()

	ticket, err := svc.Create(ctx, owner, models.TicketCreate{
		Place: "P", City: "C", Hotel: "H", Latitude: 1.0, Longitude: 2.0,
	})
	require.NoError(t, err)

	assert.NotZero(t, ticket.ID)
	assert.Equal(t, owner.ID, ticket.OwnerID)
	assert.False(t, ticket.CreatedAt.IsZero())
	assert.Nil(t, ticket.UpdatedAt, "updated_at stays unset until the first mutation")

	got, err := svc.GetByID(ctx, owner, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "H", got.Hotel)
	assert.Nil(t, got.UpdatedAt)
}

func TestTicketService_Create_MissingFields(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTicketService(db, nil)
	owner := registerOwner(t, db, "alice", "a@x.com")

	_, err := svc.Create(context.Background(), owner, models.TicketCreate{
		Place: "P", City: "", Hotel: "H",
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestTicketService_OwnershipIsolation(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTicketService(db, nil)
	alice := registerOwner(t, db, "alice", "a@x.com")
	bob := registerOwner(t, db, "bob", "b@x.com")
	ctx := context.Background()

	ticket, err := svc.Create(ctx, alice, models.TicketCreate{
		Place: "P", City: "C", Hotel: "H", Latitude: 1, Longitude: 2,
	})
	require.NoError(t, err)

	// Bob cannot see, change or remove Alice's ticket; the failures are
	// indistinguishable from the ticket not existing at all.
	_, err = svc.GetByID(ctx, bob, ticket.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Update(ctx, bob, ticket.ID, models.TicketUpdate{Hotel: strPtr("stolen")})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Delete(ctx, bob, ticket.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// List and filter simply scope to the owner.
	bobTickets, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobTickets)

	aliceTickets, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, aliceTickets, 1)

	// And the ticket survived Bob's attempts untouched.
	got, err := svc.GetByID(ctx, alice, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "H", got.Hotel)
}

func TestTicketService_PartialUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTicketService(db, nil)
	owner := registerOwner(t, db, "alice", "a@x.com")
	ctx := context.Background()

	ticket, err := svc.Create(ctx, owner, models.TicketCreate{
		Place: "P", City: "C", Hotel: "H", Latitude: 1.0, Longitude: 2.0,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, ticket.ID, models.TicketUpdate{Hotel: strPtr("H2")})
	require.NoError(t, err)

	assert.Equal(t, "H2", updated.Hotel)
	assert.Equal(t, "P", updated.Place, "omitted fields keep their prior value")
	assert.Equal(t, "C", updated.City)
	assert.Equal(t, 1.0, updated.Latitude)
	assert.Equal(t, 2.0, updated.Longitude)
	assert.Equal(t, ticket.CreatedAt.Unix(), updated.CreatedAt.Unix(), "created_at is immutable")
	require.NotNil(t, updated.UpdatedAt)
	assert.False(t, updated.UpdatedAt.Before(ticket.CreatedAt))

	// Numeric zero is a real value, not an absent field.
	updated, err = svc.Update(ctx, owner, ticket.ID, models.TicketUpdate{Latitude: floatPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.Latitude)
	assert.Equal(t, "H2", updated.Hotel)
}

func TestTicketService_Delete(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTicketService(db, nil)
	owner := registerOwner(t, db, "alice", "a@x.com")
	ctx := context.Background()

	ticket, err := svc.Create(ctx, owner, models.TicketCreate{
		Place: "P", City: "C", Hotel: "H", Latitude: 1, Longitude: 2,
	})
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, owner, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, removed.ID)
	assert.Equal(t, "H", removed.Hotel, "delete returns the prior state")

	_, err = svc.GetByID(ctx, owner, ticket.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Delete(ctx, owner, ticket.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTicketService_Filter(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTicketService(db, nil)
	alice := registerOwner(t, db, "alice", "a@x.com")
	bob := registerOwner(t, db, "bob", "b@x.com")
	ctx := context.Background()

	seed := []models.TicketCreate{
		{Place: "Центр", City: "Донецк", Hotel: "Отель", Latitude: 48.0, Longitude: 37.8},
		{Place: "Окраина", City: "Донецк", Hotel: "Хостел", Latitude: 48.1, Longitude: 37.9},
		{Place: "Центр", City: "Киев", Hotel: "Отель", Latitude: 50.4, Longitude: 30.5},
	}
	for _, in := range seed {
		_, err := svc.Create(ctx, alice, in)
		require.NoError(t, err)
	}
	// Bob has a matching ticket that must never leak into Alice's results.
	_, err := svc.Create(ctx, bob, seed[0])
	require.NoError(t, err)

	t.Run("exact city match", func(t *testing.T) {
		got, err := svc.Filter(ctx, alice, models.TicketFilter{City: strPtr("Донецк")})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, ticket := range got {
			assert.Equal(t, "Донецк", ticket.City)
			assert.Equal(t, alice.ID, ticket.OwnerID)
		}
	})

	t.Run("case-sensitive", func(t *testing.T) {
		got, err := svc.Filter(ctx, alice, models.TicketFilter{City: strPtr("донецк")})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("criteria combine with AND", func(t *testing.T) {
		got, err := svc.Filter(ctx, alice, models.TicketFilter{
			City:  strPtr("Донецк"),
			Hotel: strPtr("Отель"),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Центр", got[0].Place)
	})

	t.Run("numeric exact equality", func(t *testing.T) {
		got, err := svc.Filter(ctx, alice, models.TicketFilter{Latitude: floatPtr(48.1)})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Хостел", got[0].Hotel)

		got, err = svc.Filter(ctx, alice, models.TicketFilter{Latitude: floatPtr(48.100001)})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty criteria returns everything", func(t *testing.T) {
		got, err := svc.Filter(ctx, alice, models.TicketFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestTicketService_Coordinates(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewTicketService(db, nil)
	owner := registerOwner(t, db, "alice", "a@x.com")
	ctx := context.Background()

	coords, err := svc.Coordinates(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, coords)

	ticket, err := svc.Create(ctx, owner, models.TicketCreate{
		Place: "P", City: "C", Hotel: "H", Latitude: 48.32, Longitude: -37.48,
	})
	require.NoError(t, err)

	coords, err = svc.Coordinates(ctx, owner)
	require.NoError(t, err)
	require.Len(t, coords, 1)
	assert.Equal(t, models.Coordinate{ID: ticket.ID, Hotel: "H", Latitude: 48.32, Longitude: -37.48}, coords[0])
}
