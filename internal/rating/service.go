// Package rating implements the derived-statistics engine for actresses:
// parsing free-text personal ratings into normalized 0-5 scores, averaging
// them, and deriving a curated "typical tags" list from scene tags.
package rating

import (
	"fmt"
	"log/slog"
	"sync"
)

// SceneInput is the slice of a scene the engine needs: its raw rating and
// its tag labels. Callers map their own scene representation onto it.
type SceneInput struct {
	Rating Value
	Tags   []string
}

// Derived holds the two recomputed actress fields. A nil AverageRating
// means no scene had a parseable rating; a nil TypicalTags means no tag
// cleared the threshold.
type Derived struct {
	AverageRating *float64
	TypicalTags   []string
}

// Store is the data access the engine depends on. Implementations resolve
// an actress's scenes and persist the derived fields; the engine never
// touches storage directly.
type Store interface {
	ScenesForActress(actressID string) ([]SceneInput, error)
	ActressIDsWithScenes() ([]string, error)
	ActressIDsWithoutScenes() ([]string, error)
	SaveDerived(actressID string, d Derived) error
}

// Service recomputes derived actress fields. Recomputation for a given
// actress is serialized with a per-actress lock so two concurrent scene
// edits cannot interleave partial snapshots; different actresses may
// recompute in parallel.
type Service struct {
	store          Store
	logger         *slog.Logger
	minOccurrences int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Config struct {
	// MinOccurrences is the typical-tag threshold (default 2).
	MinOccurrences int
}

func NewService(store Store, logger *slog.Logger, config Config) *Service {
	if config.MinOccurrences == 0 {
		config.MinOccurrences = DefaultMinOccurrences
	}
	return &Service{
		store:          store,
		logger:         logger,
		minOccurrences: config.MinOccurrences,
		locks:          make(map[string]*sync.Mutex),
	}
}

func (s *Service) lockFor(actressID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[actressID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[actressID] = l
	}
	return l
}

// Recompute rebuilds both derived fields for one actress from a single
// snapshot of her scenes and persists them. It is idempotent: unchanged
// scenes yield identical output.
func (s *Service) Recompute(actressID string) (Derived, error) {
	l := s.lockFor(actressID)
	l.Lock()
	defer l.Unlock()

	scenes, err := s.store.ScenesForActress(actressID)
	if err != nil {
		return Derived{}, fmt.Errorf("loading scenes for actress %s: %w", actressID, err)
	}

	d := s.derive(actressID, scenes)
	if err := s.store.SaveDerived(actressID, d); err != nil {
		return Derived{}, fmt.Errorf("saving derived fields for actress %s: %w", actressID, err)
	}
	return d, nil
}

func (s *Service) derive(actressID string, scenes []SceneInput) Derived {
	var scores []float64
	sceneTags := make([][]string, 0, len(scenes))
	for _, scene := range scenes {
		if score, ok := Parse(scene.Rating); ok {
			scores = append(scores, score)
		}
		sceneTags = append(sceneTags, scene.Tags)
	}

	var d Derived
	if avg, ok := Average(scores); ok {
		d.AverageRating = &avg
	}
	d.TypicalTags = TypicalTags(sceneTags, s.minOccurrences)

	if s.logger != nil {
		s.logger.Debug("recomputed actress",
			"actress_id", actressID,
			"scenes", len(scenes),
			"rated_scenes", len(scores),
			"typical_tags", len(d.TypicalTags))
	}
	return d
}

// RecomputeAll sweeps every actress that has at least one scene. When
// resetStale is true, actresses with zero scenes also get their derived
// fields cleared; by default they are left untouched, preserving the last
// known values.
func (s *Service) RecomputeAll(resetStale bool) (int, error) {
	ids, err := s.store.ActressIDsWithScenes()
	if err != nil {
		return 0, fmt.Errorf("listing actresses with scenes: %w", err)
	}

	count := 0
	for _, id := range ids {
		if _, err := s.Recompute(id); err != nil {
			return count, err
		}
		count++
	}

	if resetStale {
		stale, err := s.store.ActressIDsWithoutScenes()
		if err != nil {
			return count, fmt.Errorf("listing actresses without scenes: %w", err)
		}
		for _, id := range stale {
			l := s.lockFor(id)
			l.Lock()
			err := s.store.SaveDerived(id, Derived{})
			l.Unlock()
			if err != nil {
				return count, fmt.Errorf("resetting actress %s: %w", id, err)
			}
			count++
		}
	}

	return count, nil
}
