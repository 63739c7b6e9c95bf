package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gradaid/gradaid-api/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
		msg      string
	}{
		{name: "nil_error", err: nil, expected: nil},
		{name: "sql_no_rows", err: sql.ErrNoRows, expected: store.ErrNotFound},
		{
			name:     "unique_violation_known_constraint",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "applications_user_program_key"},
			expected: store.ErrApplicationExists,
		},
		{
			name:     "unique_violation_credit_account",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "credit_accounts_user_id_key"},
			expected: store.ErrCreditAccountExists,
		},
		{
			name:     "unique_violation_unknown_constraint",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "other_key"},
			expected: store.ErrDuplicate,
		},
		{
			name:     "foreign_key_violation",
			err:      &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "applications_user_id_fkey"},
			expected: store.ErrInvalidEntity,
			msg:      "foreign key violation",
		},
		{
			name:     "check_violation",
			err:      &pgconn.PgError{Code: checkViolationCode},
			expected: store.ErrInvalidEntity,
			msg:      "check constraint violation",
		},
		{
			name:     "not_null_violation",
			err:      &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			expected: store.ErrInvalidEntity,
			msg:      "not null violation (title)",
		},
		{
			name:     "serialization_failure",
			err:      &pgconn.PgError{Code: serializationFailureCode, Message: "could not serialize access"},
			expected: store.ErrConcurrentUpdate,
			msg:      "could not serialize access",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if tt.expected == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.expected)
			if tt.msg != "" {
				assert.Contains(t, got.Error(), tt.msg)
			}
		})
	}

	generic := errors.New("connection reset")
	assert.Same(t, generic, MapError(generic))
}

func TestCheckRowsAffected(t *testing.T) {
	assert.Error(t, CheckRowsAffected(nil, nil))
	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), nil))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), nil), store.ErrNotFound)
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrDocumentNotFound), store.ErrDocumentNotFound)

	err := CheckRowsAffected(sqlmock.NewErrorResult(errors.New("boom")), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get rows affected")
}
