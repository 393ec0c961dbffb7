package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/itinerary-planner/internal/config"
	"github.com/Rrens/itinerary-planner/internal/domain"
)

// setupTestDB connects to TEST_DATABASE_URL and applies the migrations.
// Tests are skipped when it is not set.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, RunMigrations(dsn, "file://../../../migrations"))

	ctx := context.Background()
	db, err := NewDB(ctx, config.DatabaseConfig{URL: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func createTestUser(t *testing.T, repo *UserRepository) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		Name:         "Test User",
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	user := createTestUser(t, users)
	assert.False(t, user.CreatedAt.IsZero())

	found, err := users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	dup := &domain.User{ID: uuid.New(), Email: user.Email, Name: "x", PasswordHash: "y"}
	assert.ErrorIs(t, users.Create(ctx, dup), domain.ErrUniqueViolation)

	missing, err := users.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestItineraryRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, NewUserRepository(db))
	itineraries := NewItineraryRepository(db)
	flights := NewFlightRepository(db)

	first := &domain.Itinerary{UserID: owner.ID, Name: "Delhi"}
	require.NoError(t, itineraries.Create(ctx, first))
	second := &domain.Itinerary{UserID: owner.ID, Name: "Paris"}
	require.NoError(t, itineraries.Create(ctx, second))

	assert.ErrorIs(t, itineraries.Create(ctx, &domain.Itinerary{UserID: owner.ID, Name: "Delhi"}), domain.ErrUniqueViolation)

	list, err := itineraries.ListByUserID(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	_, err = itineraries.UpdateName(ctx, second.ID, "Delhi")
	assert.ErrorIs(t, err, domain.ErrUniqueViolation)

	renamed, err := itineraries.UpdateName(ctx, second.ID, "Rome")
	require.NoError(t, err)
	assert.Equal(t, "Rome", renamed.Name)

	departure := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)
	flight := &domain.Flight{
		ItineraryID:     first.ID,
		FlightNumber:    "440",
		AirlineName:     "AIR INDIA",
		OriginCode:      "MAA",
		DestinationCode: "DEL",
		DepartureAt:     departure,
		ArrivalAt:       departure.Add(170 * time.Minute),
		Price:           decimal.RequireFromString("250.00"),
		Currency:        "USD",
	}
	require.NoError(t, flights.Create(ctx, flight))

	saved, err := flights.ListByItineraryID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].Price.Equal(decimal.RequireFromString("250")))
	assert.True(t, saved[0].DepartureAt.Equal(departure))

	require.NoError(t, itineraries.DeleteWithFlights(ctx, first.ID))

	gone, err := itineraries.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	orphans, err := flights.ListByItineraryID(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestFlightRepository_RejectsOrphans(t *testing.T) {
	db := setupTestDB(t)

	err := NewFlightRepository(db).Create(context.Background(), &domain.Flight{
		ItineraryID: -1,
		Price:       decimal.Zero,
	})
	assert.Error(t, err)
}
