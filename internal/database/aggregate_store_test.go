package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmercier/scenedex/internal/models"
	"github.com/jmercier/scenedex/internal/rating"
)

func derivedWith(avg float64, tags []string) rating.Derived {
	return rating.Derived{AverageRating: &avg, TypicalTags: tags}
}

func TestAggregateStoreScenesForActress(t *testing.T) {
	db := setupTestDB(t)
	scenes := NewSceneRepository(db)
	actresses := NewActressRepository(db)
	store := NewAggregateStore(db)

	actress := models.NewActress("Ava")
	other := models.NewActress("Bella")
	require.NoError(t, actresses.Insert(actress))
	require.NoError(t, actresses.Insert(other))

	s1 := models.NewScene("one.mp4", "One")
	s1.PersonalRating = "8/10"
	s1.ActressIDs = []string{actress.ID}
	s1.Tags = []string{"milf", "anal"}
	require.NoError(t, scenes.Insert(s1))

	s2 := models.NewScene("two.mp4", "Two")
	s2.ActressIDs = []string{actress.ID, other.ID}
	s2.Tags = []string{"milf"}
	require.NoError(t, scenes.Insert(s2))

	s3 := models.NewScene("three.mp4", "Three")
	s3.PersonalRating = "excellent"
	s3.ActressIDs = []string{other.ID}
	require.NoError(t, scenes.Insert(s3))

	inputs, err := store.ScenesForActress(actress.ID)
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	var rated, unrated int
	for _, in := range inputs {
		if _, ok := rating.Parse(in.Rating); ok {
			rated++
		} else {
			unrated++
		}
	}
	assert.Equal(t, 1, rated)
	assert.Equal(t, 1, unrated)
}

func TestAggregateStoreActressIDPartition(t *testing.T) {
	db := setupTestDB(t)
	scenes := NewSceneRepository(db)
	actresses := NewActressRepository(db)
	store := NewAggregateStore(db)

	withScenes := models.NewActress("Ava")
	withoutScenes := models.NewActress("Bella")
	require.NoError(t, actresses.Insert(withScenes))
	require.NoError(t, actresses.Insert(withoutScenes))

	scene := models.NewScene("one.mp4", "One")
	scene.ActressIDs = []string{withScenes.ID}
	require.NoError(t, scenes.Insert(scene))

	have, err := store.ActressIDsWithScenes()
	require.NoError(t, err)
	assert.Equal(t, []string{withScenes.ID}, have)

	empty, err := store.ActressIDsWithoutScenes()
	require.NoError(t, err)
	assert.Equal(t, []string{withoutScenes.ID}, empty)
}

func TestAggregateStoreSaveDerived(t *testing.T) {
	db := setupTestDB(t)
	actresses := NewActressRepository(db)
	store := NewAggregateStore(db)

	actress := models.NewActress("Ava")
	require.NoError(t, actresses.Insert(actress))

	require.NoError(t, store.SaveDerived(actress.ID, derivedWith(4.3, []string{"anal", "milf"})))

	got, err := actresses.GetByID(actress.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AverageRating)
	assert.InDelta(t, 4.3, *got.AverageRating, 1e-9)
	assert.Equal(t, []string{"anal", "milf"}, got.TypicalTags)

	// Clearing writes NULLs back.
	require.NoError(t, store.SaveDerived(actress.ID, rating.Derived{}))
	got, err = actresses.GetByID(actress.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AverageRating)
	assert.Nil(t, got.TypicalTags)

	assert.ErrorIs(t, store.SaveDerived("missing", rating.Derived{}), ErrActressNotFound)
}

func TestAggregateStoreEndToEndRecompute(t *testing.T) {
	db := setupTestDB(t)
	scenes := NewSceneRepository(db)
	actresses := NewActressRepository(db)
	store := NewAggregateStore(db)

	actress := models.NewActress("Ava")
	require.NoError(t, actresses.Insert(actress))

	ratings := []string{"⭐⭐⭐⭐", "8/10", "excellent", ""}
	for i, rt := range ratings {
		scene := models.NewScene("scene"+string(rune('a'+i))+".mp4", "Scene")
		scene.PersonalRating = rt
		scene.ActressIDs = []string{actress.ID}
		scene.Tags = []string{"milf", "hd"}
		require.NoError(t, scenes.Insert(scene))
	}

	svc := rating.NewService(store, nil, rating.Config{})
	d, err := svc.Recompute(actress.ID)
	require.NoError(t, err)

	require.NotNil(t, d.AverageRating)
	assert.InDelta(t, 4.3, *d.AverageRating, 1e-9)
	assert.Equal(t, []string{"milf"}, d.TypicalTags)

	got, err := actresses.GetByID(actress.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AverageRating)
	assert.InDelta(t, 4.3, *got.AverageRating, 1e-9)
	assert.Equal(t, []string{"milf"}, got.TypicalTags)
}
