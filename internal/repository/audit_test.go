package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepository(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	u := mustUser(t, r, "rita")

	require.NoError(t, r.audit.Record(ctx, u.ID, "slot", 1, "create", "Slot A1 created"))
	require.NoError(t, r.audit.Record(ctx, u.ID, "slot", 1, "delete", "Slot A1 deleted"))

	logs, err := r.audit.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "delete", logs[0].Action)
	assert.Equal(t, "rita", logs[0].User.Username)

	logs, err = r.audit.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
