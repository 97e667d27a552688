package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmercier/scenedex/internal/models"
)

func TestActressRepositoryInsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActressRepository(db)

	actress := models.NewActress("Ava")
	actress.Nationality = "american"
	actress.Comment = "favorite"
	require.NoError(t, repo.Insert(actress))

	got, err := repo.GetByID(actress.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ava", got.Name)
	assert.Equal(t, "american", got.Nationality)
	assert.Nil(t, got.AverageRating)
	assert.Nil(t, got.TypicalTags)

	byName, err := repo.GetByName("Ava")
	require.NoError(t, err)
	assert.Equal(t, actress.ID, byName.ID)
}

func TestActressRepositoryUpdateKeepsDerivedFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActressRepository(db)
	store := NewAggregateStore(db)

	actress := models.NewActress("Bella")
	require.NoError(t, repo.Insert(actress))

	avg := 4.5
	require.NoError(t, store.SaveDerived(actress.ID, derivedWith(avg, []string{"anal", "milf"})))

	actress.Comment = "updated"
	require.NoError(t, repo.Update(actress))

	got, err := repo.GetByID(actress.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Comment)
	require.NotNil(t, got.AverageRating)
	assert.InDelta(t, 4.5, *got.AverageRating, 1e-9)
	assert.Equal(t, []string{"anal", "milf"}, got.TypicalTags)
}

func TestActressRepositoryTouchLastViewed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActressRepository(db)

	actress := models.NewActress("Cara")
	require.NoError(t, repo.Insert(actress))

	when := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastViewed(actress.ID, when))

	got, err := repo.GetByID(actress.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastViewed)
	assert.Equal(t, "2025-03-14", got.LastViewed.Format("2006-01-02"))

	assert.ErrorIs(t, repo.TouchLastViewed("missing", when), ErrActressNotFound)
}

func TestActressRepositoryDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActressRepository(db)

	actress := models.NewActress("Dee")
	require.NoError(t, repo.Insert(actress))
	require.NoError(t, repo.Delete(actress.ID))

	_, err := repo.GetByID(actress.ID)
	assert.ErrorIs(t, err, ErrActressNotFound)
	assert.ErrorIs(t, repo.Delete(actress.ID), ErrActressNotFound)
}
