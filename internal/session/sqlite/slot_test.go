package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSlot(t *testing.T) *Slot {
	t.Helper()
	slot, err := Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { slot.Close() })
	return slot
}

func TestReadEmptySlot(t *testing.T) {
	slot := openTestSlot(t)

	value, present, err := slot.Read(context.Background())

	require.NoError(t, err)
	assert.False(t, present)
	assert.Nil(t, value)
}

func TestWriteReadRoundTrip(t *testing.T) {
	slot := openTestSlot(t)
	ctx := context.Background()

	require.NoError(t, slot.Write(ctx, []byte(`{"id":7,"username":"ada"}`)))

	value, present, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.True(t, present)
	assert.JSONEq(t, `{"id":7,"username":"ada"}`, string(value))
}

func TestWriteReplaces(t *testing.T) {
	slot := openTestSlot(t)
	ctx := context.Background()

	require.NoError(t, slot.Write(ctx, []byte(`first`)))
	require.NoError(t, slot.Write(ctx, []byte(`second`)))

	value, present, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "second", string(value))
}

func TestClear(t *testing.T) {
	slot := openTestSlot(t)
	ctx := context.Background()

	require.NoError(t, slot.Write(ctx, []byte(`value`)))
	require.NoError(t, slot.Clear(ctx))

	_, present, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.False(t, present)

	// Clearing twice is fine.
	require.NoError(t, slot.Clear(ctx))
}

func TestValueSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	slot, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, slot.Write(ctx, []byte(`persisted`)))
	require.NoError(t, slot.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, present, err := reopened.Read(ctx)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "persisted", string(value))
}
