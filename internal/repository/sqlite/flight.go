package sqlite

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

// Create inserts a flight and fills in ID and CreatedAt
func (r *FlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	createdAt := r.db.timestamp()
	res, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO flights (
			itinerary_id, flight_number, airline_name, origin_code, destination_code,
			departure_at, arrival_at, price, currency, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		flight.ItineraryID,
		flight.FlightNumber,
		flight.AirlineName,
		flight.OriginCode,
		flight.DestinationCode,
		formatTime(flight.DepartureAt),
		formatTime(flight.ArrivalAt),
		flight.Price.StringFixed(2),
		flight.Currency,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create flight: %w", err)
	}

	if flight.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read flight id: %w", err)
	}
	flight.CreatedAt, err = parseTime(createdAt)
	return err
}

// ListByItineraryID returns an itinerary's flights in insertion order
func (r *FlightRepository) ListByItineraryID(ctx context.Context, itineraryID int64) ([]domain.Flight, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, itinerary_id, flight_number, airline_name, origin_code, destination_code,
		       departure_at, arrival_at, price, currency, created_at
		FROM flights
		WHERE itinerary_id = ?
		ORDER BY id`,
		itineraryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var flight domain.Flight
		var departureAt, arrivalAt, price, createdAt string
		if err := rows.Scan(
			&flight.ID,
			&flight.ItineraryID,
			&flight.FlightNumber,
			&flight.AirlineName,
			&flight.OriginCode,
			&flight.DestinationCode,
			&departureAt,
			&arrivalAt,
			&price,
			&flight.Currency,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}

		if flight.DepartureAt, err = parseTime(departureAt); err != nil {
			return nil, err
		}
		if flight.ArrivalAt, err = parseTime(arrivalAt); err != nil {
			return nil, err
		}
		if flight.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
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
