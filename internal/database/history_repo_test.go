package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmercier/scenedex/internal/models"
)

func TestHistoryRepositoryRecordView(t *testing.T) {
	db := setupTestDB(t)
	scenes := NewSceneRepository(db)
	repo := NewHistoryRepository(db)

	scene := models.NewScene("clip.mp4", "Clip")
	require.NoError(t, scenes.Insert(scene))

	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	first, err := repo.RecordView(scene.ID, day1, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ViewCount)
	assert.Equal(t, day1, first.FirstViewed)
	assert.Equal(t, day1, first.LastViewed)

	sessionRating := 4.0
	second, err := repo.RecordView(scene.ID, day2, &sessionRating, "better than remembered")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ViewCount)
	assert.Equal(t, day2, second.LastViewed)

	stored, err := repo.GetBySceneID(scene.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ViewCount)
	assert.Equal(t, "2025-06-01", stored.FirstViewed.Format("2006-01-02"))
	assert.Equal(t, "2025-06-08", stored.LastViewed.Format("2006-01-02"))
	require.NotNil(t, stored.SessionRating)
	assert.InDelta(t, 4.0, *stored.SessionRating, 1e-9)
	assert.Equal(t, "better than remembered", stored.SessionComment)
}

func TestHistoryRepositoryListAndCounts(t *testing.T) {
	db := setupTestDB(t)
	scenes := NewSceneRepository(db)
	repo := NewHistoryRepository(db)

	s1 := models.NewScene("one.mp4", "One")
	s2 := models.NewScene("two.mp4", "Two")
	require.NoError(t, scenes.Insert(s1))
	require.NoError(t, scenes.Insert(s2))

	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.RecordView(s1.ID, now, nil, "")
	require.NoError(t, err)
	_, err = repo.RecordView(s1.ID, now.AddDate(0, 0, 1), nil, "")
	require.NoError(t, err)
	_, err = repo.RecordView(s2.ID, now, nil, "")
	require.NoError(t, err)

	entries, err := repo.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "One", entries[0].Title)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	views, err := repo.TotalViews()
	require.NoError(t, err)
	assert.Equal(t, 3, views)
}

func TestHistoryRepositoryGetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepository(db)

	_, err := repo.GetBySceneID("missing")
	assert.ErrorIs(t, err, ErrHistoryNotFound)
}
