package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	withTrace := SetTraceID(ctx)
	traceID := GetTraceID(withTrace)
	assert.Len(t, traceID, 2*TraceIDLength)
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err)

	assert.Empty(t, GetTraceID(ctx), "original context is unchanged")
}

func TestGetTraceID_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestGenerateTraceID_Unique(t *testing.T) {
	seen := make(map[string]bool, 500)
	for i := 0; i < 500; i++ {
		id := generateTraceID()
		require.False(t, seen[id], "duplicate trace ID %s", id)
		seen[id] = true
	}
}

func TestFallbackTraceID(t *testing.T) {
	id := fallbackTraceID()
	assert.Len(t, id, 2*TraceIDLength)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)
}

func TestUserIDFromContext(t *testing.T) {
	userID := uuid.New()

	got, ok := UserIDFromContext(WithUserID(context.Background(), userID))
	assert.True(t, ok)
	assert.Equal(t, userID, got)

	_, ok = UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok, "nil user ID is not authenticated")

	_, ok = UserIDFromContext(context.WithValue(context.Background(), UserIDContextKey, userID.String()))
	assert.False(t, ok, "string user ID is rejected")
}
