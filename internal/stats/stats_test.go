package stats

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmercier/scenedex/internal/database"
	"github.com/jmercier/scenedex/internal/models"
)

func setupService(t *testing.T) (*Service, *database.DB) {
	t.Helper()
	db, err := database.NewDB(database.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "stats_test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(db,
		database.NewSceneRepository(db),
		database.NewFavoriteRepository(db),
		database.NewHistoryRepository(db))
	return svc, db
}

func TestSummaryEmptyCatalog(t *testing.T) {
	svc, _ := setupService(t)

	summary, err := svc.Summary()
	require.NoError(t, err)

	assert.Zero(t, summary.TotalScenes)
	assert.Zero(t, summary.RatedScenes)
	assert.Nil(t, summary.AverageRating)
	assert.Empty(t, summary.TopActresses)
}

func TestSummary(t *testing.T) {
	svc, db := setupService(t)

	scenes := database.NewSceneRepository(db)
	actresses := database.NewActressRepository(db)
	favorites := database.NewFavoriteRepository(db)
	history := database.NewHistoryRepository(db)

	ava := models.NewActress("Ava")
	bella := models.NewActress("Bella")
	require.NoError(t, actresses.Insert(ava))
	require.NoError(t, actresses.Insert(bella))

	s1 := models.NewScene("one.mp4", "One")
	s1.PersonalRating = "⭐⭐⭐⭐"
	s1.Duration = 30
	s1.ActressIDs = []string{ava.ID}
	s1.Tags = []string{"milf"}
	require.NoError(t, scenes.Insert(s1))

	s2 := models.NewScene("two.mp4", "Two")
	s2.PersonalRating = "8/10"
	s2.Duration = 20
	s2.ActressIDs = []string{ava.ID, bella.ID}
	s2.Tags = []string{"milf", "anal"}
	require.NoError(t, scenes.Insert(s2))

	s3 := models.NewScene("three.mp4", "Three")
	s3.Duration = 10
	require.NoError(t, scenes.Insert(s3))

	_, err := favorites.Add(s1.ID)
	require.NoError(t, err)

	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err = history.RecordView(s1.ID, now, nil, "")
	require.NoError(t, err)
	_, err = history.RecordView(s1.ID, now.AddDate(0, 0, 1), nil, "")
	require.NoError(t, err)

	summary, err := svc.Summary()
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalScenes)
	assert.Equal(t, 2, summary.RatedScenes)
	require.NotNil(t, summary.AverageRating)
	assert.InDelta(t, 4.0, *summary.AverageRating, 1e-9)
	assert.Equal(t, 60, summary.TotalDuration)
	assert.Equal(t, 1, summary.WatchedScenes)
	assert.Equal(t, 2, summary.TotalViews)
	assert.Equal(t, 1, summary.FavoriteScenes)
	assert.Equal(t, 2, summary.TotalActresses)

	require.NotEmpty(t, summary.TopActresses)
	assert.Equal(t, NameCount{Name: "Ava", Count: 2}, summary.TopActresses[0])

	require.NotEmpty(t, summary.TopTags)
	assert.Equal(t, NameCount{Name: "milf", Count: 2}, summary.TopTags[0])
}
