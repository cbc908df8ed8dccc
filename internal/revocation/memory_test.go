package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "regnet/pkg/domain-errors"
)

func TestInMemoryTRL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	trl := NewInMemoryTRL(func() time.Time { return now })

	revoked, err := trl.IsTokenRevoked(ctx, "j1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, trl.RevokeToken(ctx, "j1", time.Minute))
	revoked, err = trl.IsTokenRevoked(ctx, "j1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = trl.IsTokenRevoked(ctx, "j1")
	require.NoError(t, err)
	assert.False(t, revoked, "entries lapse with the token")

	err = trl.RevokeToken(ctx, "j2", 0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
