package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

func openTestStore(t *testing.T) *BoltReportStore {
	t.Helper()
	store, err := OpenReportStore(filepath.Join(t.TempDir(), "nested", "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clock := time.Unix(1700000000, 0)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store
}

func TestReportStoreSaveGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	report := analyze(t, newTestService(t), duplicatedFunction, domain.LanguagePython, domain.ModeExact)

	require.NoError(t, store.Save(ctx, report))

	loaded, err := store.Get(ctx, report.AnalysisID)
	require.NoError(t, err)
	assert.Equal(t, report, loaded)
}

func TestReportStoreGetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeNotFound, domain.ErrorCode(err))

	err = store.Delete(context.Background(), "missing")
	assert.Equal(t, domain.ErrCodeNotFound, domain.ErrorCode(err))
}

func TestReportStoreListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		require.NoError(t, store.Save(ctx, &domain.AnalysisReport{AnalysisID: id, Language: domain.LanguagePython, Clones: []domain.CloneMatch{}}))
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].AnalysisID)
	assert.Equal(t, "first", all[2].AnalysisID)
	assert.Greater(t, all[0].StoredAtUnixNs, all[1].StoredAtUnixNs)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	// Saving again moves a report to the front without duplicating it.
	require.NoError(t, store.Save(ctx, &domain.AnalysisReport{AnalysisID: "first"}))
	all, err = store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].AnalysisID)
}

func TestReportStoreDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.AnalysisReport{AnalysisID: "gone"}))

	require.NoError(t, store.Delete(ctx, "gone"))
	_, err := store.Get(ctx, "gone")
	assert.Equal(t, domain.ErrCodeNotFound, domain.ErrorCode(err))

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReportStoreRejectsReportWithoutID(t *testing.T) {
	store := openTestStore(t)
	err := store.Save(context.Background(), &domain.AnalysisReport{})
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
}

func TestTimeKeyOrdering(t *testing.T) {
	assert.Less(t, string(timeKey(1, "z")), string(timeKey(2, "a")))
	assert.Len(t, timeKey(5, "id"), 10)
}
