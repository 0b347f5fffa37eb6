package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vr-inventory/vr-inventory/internal/platform/httpx"
)

func TestUserSafeMessage(t *testing.T) {
	require.Equal(t, "", UserSafeMessage(nil, "x"))
	require.Equal(t, "Missing party: validation failed", UserSafeMessage(fmt.Errorf("Missing party: %w", httpx.ErrValidation), "x"))
	require.Equal(t, ErrIdempotencyConflict.Error(), UserSafeMessage(ErrIdempotencyConflict, "x"))
	require.Equal(t, "Failed.", UserSafeMessage(errors.New("pq: relation missing"), "Failed."))
}

func TestNilIdempotencyStore(t *testing.T) {
	var store *IdempotencyStore
	require.Error(t, store.CheckAndInsert(t.Context(), "k", "sales"))
	require.NoError(t, store.Delete(t.Context(), "k"))
	require.NoError(t, store.Cleanup(t.Context(), 0))
}
