package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		err       error
		notFound  bool
		duplicate bool
	}{
		{nil, false, false},
		{errors.New("connection reset"), false, false},
		{ErrNotFound, true, false},
		{ErrUserNotFound, true, false},
		{ErrApplicationNotFound, true, false},
		{ErrDocumentNotFound, true, false},
		{fmt.Errorf("debit: %w", ErrCreditAccountNotFound), true, false},
		{ErrDuplicate, false, true},
		{ErrUserExists, false, true},
		{fmt.Errorf("create application: %w", ErrApplicationExists), false, true},
		{ErrCreditAccountExists, false, true},
		{ErrInvalidEntity, false, false},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.duplicate, IsDuplicateError(tt.err))
		})
	}
}

func TestSerializationFailure(t *testing.T) {
	lost := &pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"}

	assert.True(t, IsSerializationFailure(lost))
	assert.True(t, IsSerializationFailure(fmt.Errorf("commit: %w", lost)))
	assert.False(t, IsSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsSerializationFailure(errors.New("could not serialize access")))
	assert.False(t, IsSerializationFailure(nil))

	assert.True(t, IsConcurrentUpdateError(fmt.Errorf("%w: %v", ErrConcurrentUpdate, lost)))
	assert.False(t, IsConcurrentUpdateError(lost))
	assert.False(t, IsNotFoundError(ErrConcurrentUpdate))
	assert.False(t, IsDuplicateError(ErrConcurrentUpdate))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("deadlock detected")

	err := NewStoreError("credit account", "update", "failed to save balance", cause)
	assert.Equal(t, "update operation on credit account failed: failed to save balance: deadlock detected", err.Error())
	assert.ErrorIs(t, err, cause)

	var storeErr *StoreError
	wrapped := fmt.Errorf("debit: %w", err)
	assert.True(t, errors.As(wrapped, &storeErr))
	assert.Equal(t, "credit account", storeErr.Entity)

	bare := NewStoreError("document", "get", "missing row", nil)
	assert.Equal(t, "get operation on document failed: missing row", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
