package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"bookwise/backend/internal/store"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// mapWriteError translates constraint violations into store sentinels.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return store.ErrConflict
		case foreignKeyViolation:
			return store.ErrNotFound
		}
	}
	return err
}
