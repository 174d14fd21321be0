package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/payment"
)

const (
	notNullViolation = "23502"
	checkViolation   = "23514"
)

// classify turns constraint violations into ErrInvalidInput so a row the
// service let through but the schema rejects still maps to a client error.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case notNullViolation, checkViolation:
			return fmt.Errorf("%w: %s (%s)", payment.ErrInvalidInput, pgErr.Message, pgErr.ConstraintName)
		}
	}
	return err
}
