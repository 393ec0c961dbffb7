package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Rrens/itinerary-planner/internal/domain"
)

const itineraryColumns = `id, user_id, name, created_at`

// ItineraryRepository handles itinerary data access
type ItineraryRepository struct {
	db *DB
}

// NewItineraryRepository creates a new itinerary repository
func NewItineraryRepository(db *DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItinerary(row rowScanner) (*domain.Itinerary, error) {
	var itinerary domain.Itinerary
	var createdAt string
	if err := row.Scan(&itinerary.ID, &itinerary.UserID, &itinerary.Name, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if itinerary.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &itinerary, nil
}

// Create inserts an itinerary and fills in ID and CreatedAt
func (r *ItineraryRepository) Create(ctx context.Context, itinerary *domain.Itinerary) error {
	createdAt := r.db.timestamp()
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO itineraries (user_id, name, created_at) VALUES (?, ?, ?)`,
		itinerary.UserID.String(), itinerary.Name, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUniqueViolation
		}
		return fmt.Errorf("failed to create itinerary: %w", err)
	}

	if itinerary.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read itinerary id: %w", err)
	}
	itinerary.CreatedAt, err = parseTime(createdAt)
	return err
}

// GetByID retrieves an itinerary by ID
func (r *ItineraryRepository) GetByID(ctx context.Context, id int64) (*domain.Itinerary, error) {
	row := r.db.conn.QueryRowContext(ctx, `SELECT `+itineraryColumns+` FROM itineraries WHERE id = ?`, id)
	itinerary, err := scanItinerary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}
	return itinerary, nil
}

// ListByUserID retrieves a user's itineraries, newest first
func (r *ItineraryRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Itinerary, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+itineraryColumns+` FROM itineraries WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	defer rows.Close()

	itineraries := make([]domain.Itinerary, 0)
	for rows.Next() {
		itinerary, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan itinerary: %w", err)
		}
		itineraries = append(itineraries, *itinerary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}

	return itineraries, nil
}

// UpdateName renames an itinerary and returns the updated row, or nil when
// it no longer exists
func (r *ItineraryRepository) UpdateName(ctx context.Context, id int64, name string) (*domain.Itinerary, error) {
	row := r.db.conn.QueryRowContext(ctx,
		`UPDATE itineraries SET name = ? WHERE id = ? RETURNING `+itineraryColumns,
		name, id,
	)
	itinerary, err := scanItinerary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrUniqueViolation
		}
		return nil, fmt.Errorf("failed to rename itinerary: %w", err)
	}
	return itinerary, nil
}

// DeleteWithFlights removes the itinerary's flights and then the itinerary.
// Either both deletes commit or neither does.
func (r *ItineraryRepository) DeleteWithFlights(ctx context.Context, id int64) error {
	err := WithTx(ctx, r.db.conn, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM flights WHERE itinerary_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete flights: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM itineraries WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete itinerary: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete itinerary %d: %w", id, err)
	}
	return nil
}
