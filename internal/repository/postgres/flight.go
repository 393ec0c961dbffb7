package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Rrens/itinerary-planner/internal/domain"
)

// FlightRepository handles flight data access
type FlightRepository struct {
	db *DB
}

// NewFlightRepository creates a new flight repository
func NewFlightRepository(db *DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// Create inserts a flight and fills in ID and CreatedAt. Times are stored
// as UTC wall clock.
func (r *FlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	query := `
		INSERT INTO flights (
			itinerary_id, flight_number, airline_name, origin_code, destination_code,
			departure_at, arrival_at, price, currency
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		flight.ItineraryID,
		flight.FlightNumber,
		flight.AirlineName,
		flight.OriginCode,
		flight.DestinationCode,
		flight.DepartureAt.UTC(),
		flight.ArrivalAt.UTC(),
		flight.Price.String(),
		flight.Currency,
	).Scan(&flight.ID, &flight.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create flight: %w", uniqueOr(err))
	}

	return nil
}

// ListByItineraryID returns an itinerary's flights in insertion order
func (r *FlightRepository) ListByItineraryID(ctx context.Context, itineraryID int64) ([]domain.Flight, error) {
	query := `
		SELECT id, itinerary_id, flight_number, airline_name, origin_code, destination_code,
		       departure_at, arrival_at, price::text, currency, created_at
		FROM flights
		WHERE itinerary_id = $1
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var flight domain.Flight
		var price string
		if err := rows.Scan(
			&flight.ID,
			&flight.ItineraryID,
			&flight.FlightNumber,
			&flight.AirlineName,
			&flight.OriginCode,
			&flight.DestinationCode,
			&flight.DepartureAt,
			&flight.ArrivalAt,
			&price,
			&flight.Currency,
			&flight.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}
		if flight.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("failed to parse flight price %q: %w", price, err)
		}
		flights = append(flights, flight)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}

	return flights, nil
}
