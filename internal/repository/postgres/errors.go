package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Rrens/itinerary-planner/internal/domain"
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique_violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// uniqueOr maps unique violations to domain.ErrUniqueViolation and returns
// any other error unchanged
func uniqueOr(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrUniqueViolation
	}
	return err
}
