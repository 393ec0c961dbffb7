package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/itinerary-planner/internal/domain"
	"github.com/Rrens/itinerary-planner/internal/repository/sqlite"
)

type storeFixture struct {
	svc   *ItineraryService
	users *sqlite.UserRepository
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &storeFixture{
		svc:   NewItineraryService(sqlite.NewItineraryRepository(db), sqlite.NewFlightRepository(db)),
		users: sqlite.NewUserRepository(db),
	}
}

func (f *storeFixture) user(t *testing.T) uuid.UUID {
	t.Helper()
	u := &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Name: "u", PasswordHash: "h"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

func TestItineraryStore_UniquePerOwner(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	u1, u2 := f.user(t), f.user(t)

	_, err := f.svc.Create(ctx, u1, "Summer Trip")
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, u1, "Summer Trip")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.svc.Create(ctx, u1, "  Summer Trip ")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.svc.Create(ctx, u2, "Summer Trip")
	assert.NoError(t, err)
}

func TestItineraryStore_ForeignDeleteLeavesAggregateIntact(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	u1, u2 := f.user(t), f.user(t)

	theirs, err := f.svc.Create(ctx, u2, "Paris")
	require.NoError(t, err)
	_, err = f.svc.AddFlight(ctx, u2, theirs.ID, domain.AddFlightRequest{Outbound: outboundOption()})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, u1, theirs.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Get(ctx, u1, theirs.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	detail, err := f.svc.Get(ctx, u2, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paris", detail.Name)
	assert.Len(t, detail.Flights, 1)

	mine, err := f.svc.List(ctx, u1)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestItineraryStore_DeleteRemovesFlights(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	owner := f.user(t)

	itinerary, err := f.svc.Create(ctx, owner, "Delhi")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.svc.AddFlight(ctx, owner, itinerary.ID, domain.AddFlightRequest{Outbound: outboundOption()})
		require.NoError(t, err)
	}

	require.NoError(t, f.svc.Delete(ctx, owner, itinerary.ID))

	_, err = f.svc.Get(ctx, owner, itinerary.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// the id now belongs to nothing, so a new flight cannot attach to it
	_, err = f.svc.AddFlight(ctx, owner, itinerary.ID, domain.AddFlightRequest{Outbound: outboundOption()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItineraryStore_RenameAndList(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	owner := f.user(t)

	first, err := f.svc.Create(ctx, owner, "First")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, owner, "Second")
	require.NoError(t, err)

	_, err = f.svc.Rename(ctx, owner, first.ID, "Second")
	assert.ErrorIs(t, err, domain.ErrConflict)

	renamed, err := f.svc.Rename(ctx, owner, first.ID, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)

	list, err := f.svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Name)
	assert.Equal(t, "Renamed", list[1].Name)
}

func TestItineraryStore_SavedPriceMatchesResponse(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	owner := f.user(t)

	trip, err := f.svc.Create(ctx, owner, "Rounding")
	require.NoError(t, err)

	option := outboundOption()
	option.Price.Total = "199.999"
	created, err := f.svc.AddFlight(ctx, owner, trip.ID, domain.AddFlightRequest{Outbound: option})
	require.NoError(t, err)
	assert.Equal(t, "200", created.Price.String())

	detail, err := f.svc.Get(ctx, owner, trip.ID)
	require.NoError(t, err)
	require.Len(t, detail.Flights, 1)
	assert.True(t, created.Price.Equal(detail.Flights[0].Price), "created %s, stored %s", created.Price, detail.Flights[0].Price)
	assert.Equal(t, created.Currency, detail.Flights[0].Currency)
}
