package history_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/sleepctl/internal/history"
	"codeberg.org/mutker/sleepctl/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(false, false, true)
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) (history.Store, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := history.NewStore(history.Config{DBPath: dbPath, Enabled: true}, logger.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, dbPath
}

// Timestamps persist at second granularity.
func secondPrecision(ts time.Time) time.Time {
	return time.Unix(ts.Unix(), 0).UTC()
}

func sampleAction(id string, ts time.Time) history.QuickAction {
	return history.QuickAction{
		ID:            id,
		Timestamp:     secondPrecision(ts),
		ActionType:    "audio",
		ActionDetails: `{"kind":"pink_noise"}`,
		Reason:        "elevated heart rate",
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 2, 30, 0, 0, time.UTC)
	first := sampleAction("a-1", base)
	second := history.QuickAction{
		ID:            "a-2",
		Timestamp:     secondPrecision(base.Add(30 * time.Second)),
		ActionType:    "environment",
		ActionDetails: `{"kind":"temperature","target":21}`,
		Reason:        "room too warm",
	}

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, first, loaded[0])
	assert.Equal(t, second, loaded[1])
}

func TestLoadAllOrderedByDispatchTime(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 2, 30, 0, 0, time.UTC)

	// Insert out of order; reads come back sorted by timestamp
	require.NoError(t, store.Save(ctx, sampleAction("late", base.Add(time.Minute))))
	require.NoError(t, store.Save(ctx, sampleAction("early", base)))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "early", loaded[0].ID)
	assert.Equal(t, "late", loaded[1].ID)
}

func TestLoadAllEmptyDatabase(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSaveRejectsIncompleteAction(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	missingReason := sampleAction("bad-1", time.Now())
	missingReason.Reason = ""
	require.Error(t, store.Save(ctx, missingReason))

	missingID := sampleAction("", time.Now())
	require.Error(t, store.Save(ctx, missingID))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded, "rejected actions must not be persisted")
}

func TestSaveRejectsDuplicateID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	action := sampleAction("dup-1", time.Now())
	require.NoError(t, store.Save(ctx, action))
	require.Error(t, store.Save(ctx, action))
}

func TestHistorySurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	cfg := history.Config{DBPath: dbPath, Enabled: true}
	ctx := context.Background()

	store, err := history.NewStore(cfg, logger.Default())
	require.NoError(t, err)

	action := sampleAction("persist-1", time.Date(2026, 3, 14, 2, 30, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, action))
	require.NoError(t, store.Close())

	reopened, err := history.NewStore(cfg, logger.Default())
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, action, loaded[0])
}

func TestDisabledPersistenceUsesNoopStore(t *testing.T) {
	store, err := history.NewStore(history.Config{Enabled: false}, logger.Default())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleAction("noop-1", time.Now())))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestConfigValidation(t *testing.T) {
	require.Error(t, history.Config{Enabled: true}.Validate())
	require.NoError(t, history.Config{Enabled: false}.Validate())
	require.NoError(t, history.DefaultConfig().Validate())
}
