package rating

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu     sync.Mutex
	scenes map[string][]SceneInput
	saved  map[string]Derived
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		scenes: make(map[string][]SceneInput),
		saved:  make(map[string]Derived),
	}
}

func (f *fakeStore) ScenesForActress(id string) ([]SceneInput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scenes[id], nil
}

func (f *fakeStore) ActressIDsWithScenes() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id, scenes := range f.scenes {
		if len(scenes) > 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) ActressIDsWithoutScenes() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id, scenes := range f.scenes {
		if len(scenes) == 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) SaveDerived(id string, d Derived) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[id] = d
	return nil
}

func TestServiceRecompute(t *testing.T) {
	store := newFakeStore()
	store.scenes["a1"] = []SceneInput{
		{Rating: Text("⭐⭐⭐⭐"), Tags: []string{"milf", "anal"}},
		{Rating: Text("8/10"), Tags: []string{"milf", "hd"}},
		{Rating: Text("excellent"), Tags: []string{"anal"}},
		{Rating: Absent(), Tags: []string{"hd"}},
	}

	svc := NewService(store, nil, Config{})

	d, err := svc.Recompute("a1")
	require.NoError(t, err)

	// Scores are 4.0, 4.0, 5.0 -> mean 4.33 -> 4.3.
	require.NotNil(t, d.AverageRating)
	assert.InDelta(t, 4.3, *d.AverageRating, 1e-9)

	// milf and anal recur; hd recurs too but is generic.
	assert.Equal(t, []string{"anal", "milf"}, d.TypicalTags)

	saved, ok := store.saved["a1"]
	require.True(t, ok)
	assert.Equal(t, d, saved)
}

func TestServiceRecomputeNoRatings(t *testing.T) {
	store := newFakeStore()
	store.scenes["a1"] = []SceneInput{
		{Rating: Text("à revoir"), Tags: []string{"solo"}},
		{Rating: Absent(), Tags: nil},
	}

	svc := NewService(store, nil, Config{})

	d, err := svc.Recompute("a1")
	require.NoError(t, err)
	assert.Nil(t, d.AverageRating)
	assert.Nil(t, d.TypicalTags)
}

func TestServiceRecomputeIdempotent(t *testing.T) {
	store := newFakeStore()
	store.scenes["a1"] = []SceneInput{
		{Rating: Text("3"), Tags: []string{"pov", "pov"}},
	}

	svc := NewService(store, nil, Config{})

	first, err := svc.Recompute("a1")
	require.NoError(t, err)
	second, err := svc.Recompute("a1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestServiceRecomputeAllSkipsStale(t *testing.T) {
	store := newFakeStore()
	store.scenes["with"] = []SceneInput{{Rating: Text("⭐⭐⭐"), Tags: nil}}
	store.scenes["without"] = nil

	svc := NewService(store, nil, Config{})

	n, err := svc.RecomputeAll(false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, touched := store.saved["without"]
	assert.False(t, touched, "zero-scene actress must be left untouched")
}

func TestServiceRecomputeAllResetStale(t *testing.T) {
	store := newFakeStore()
	store.scenes["with"] = []SceneInput{{Rating: Text("⭐⭐⭐"), Tags: nil}}
	store.scenes["without"] = nil

	svc := NewService(store, nil, Config{})

	n, err := svc.RecomputeAll(true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	d, touched := store.saved["without"]
	require.True(t, touched)
	assert.Nil(t, d.AverageRating)
	assert.Nil(t, d.TypicalTags)
}

func TestServiceConcurrentRecompute(t *testing.T) {
	store := newFakeStore()
	store.scenes["a1"] = []SceneInput{
		{Rating: Text("4"), Tags: []string{"milf", "milf"}},
	}

	svc := NewService(store, nil, Config{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Recompute("a1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	d := store.saved["a1"]
	require.NotNil(t, d.AverageRating)
	assert.InDelta(t, 4.0, *d.AverageRating, 1e-9)
	assert.Equal(t, []string{"milf"}, d.TypicalTags)
}
