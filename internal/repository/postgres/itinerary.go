package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Rrens/itinerary-planner/internal/domain"
)

// ItineraryRepository handles itinerary data access
type ItineraryRepository struct {
	db *DB
}

// NewItineraryRepository creates a new itinerary repository
func NewItineraryRepository(db *DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

// Create inserts an itinerary and fills in ID and CreatedAt
func (r *ItineraryRepository) Create(ctx context.Context, itinerary *domain.Itinerary) error {
	query := `
		INSERT INTO itineraries (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query, itinerary.UserID, itinerary.Name).
		Scan(&itinerary.ID, &itinerary.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUniqueViolation
		}
		return fmt.Errorf("failed to create itinerary: %w", err)
	}

	return nil
}

// GetByID retrieves an itinerary by ID
func (r *ItineraryRepository) GetByID(ctx context.Context, id int64) (*domain.Itinerary, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM itineraries
		WHERE id = $1
	`

	var itinerary domain.Itinerary
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&itinerary.ID,
		&itinerary.UserID,
		&itinerary.Name,
		&itinerary.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}

	return &itinerary, nil
}

// ListByUserID retrieves a user's itineraries, newest first
func (r *ItineraryRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Itinerary, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM itineraries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	defer rows.Close()

	itineraries := make([]domain.Itinerary, 0)
	for rows.Next() {
		var itinerary domain.Itinerary
		if err := rows.Scan(
			&itinerary.ID,
			&itinerary.UserID,
			&itinerary.Name,
			&itinerary.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary: %w", err)
		}
		itineraries = append(itineraries, itinerary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}

	return itineraries, nil
}

// UpdateName renames an itinerary and returns the updated row, or nil when
// it no longer exists
func (r *ItineraryRepository) UpdateName(ctx context.Context, id int64, name string) (*domain.Itinerary, error) {
	query := `
		UPDATE itineraries
		SET name = $2
		WHERE id = $1
		RETURNING id, user_id, name, created_at
	`

	var itinerary domain.Itinerary
	err := r.db.Pool.QueryRow(ctx, query, id, name).Scan(
		&itinerary.ID,
		&itinerary.UserID,
		&itinerary.Name,
		&itinerary.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrUniqueViolation
		}
		return nil, fmt.Errorf("failed to rename itinerary: %w", err)
	}

	return &itinerary, nil
}

// DeleteWithFlights removes the itinerary's flights and then the itinerary.
// Either both deletes commit or neither does.
func (r *ItineraryRepository) DeleteWithFlights(ctx context.Context, id int64) error {
	err := pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM flights WHERE itinerary_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete flights: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM itineraries WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete itinerary: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete itinerary %d: %w", id, err)
	}
	return nil
}
