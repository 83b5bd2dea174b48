package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/domain/follow"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[string]fixture.Fixture
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{fixtures: make(map[string]fixture.Fixture)}
}

func (r *FixtureRepository) UpsertBatch(_ context.Context, fixtures []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range fixtures {
		r.fixtures[item.Key()] = item
	}
	return nil
}

func (r *FixtureRepository) ListByWindow(_ context.Context, from, to time.Time) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.fixtures {
		if item.StartTime.Before(from) || item.StartTime.After(to) {
			continue
		}
		out = append(out, item)
	}
	sortFixtures(out)
	return out, nil
}

func (r *FixtureRepository) ListByEntityFollows(_ context.Context, follows []follow.Follow, from, to *time.Time) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.fixtures {
		if !insideWindow(item, from, to) {
			continue
		}
		for _, f := range follows {
			if followMatches(f, item) {
				out = append(out, item)
				break
			}
		}
	}
	sortFixtures(out)
	return out, nil
}

func (r *FixtureRepository) ListByPlayerOverlap(_ context.Context, playerIDs []int64, from, to *time.Time) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		wanted[id] = struct{}{}
	}

	out := make([]fixture.Fixture, 0)
	for _, item := range r.fixtures {
		if !insideWindow(item, from, to) {
			continue
		}
		for _, id := range item.PlayerIDs {
			if _, ok := wanted[id]; ok {
				out = append(out, item)
				break
			}
		}
	}
	sortFixtures(out)
	return out, nil
}

func (r *FixtureRepository) DeleteCoveredPlaceholders(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	type roundKey struct {
		sport    fixture.Sport
		leagueID int64
		round    string
	}
	covered := make(map[roundKey]struct{})
	for _, item := range r.fixtures {
		if item.IsPlaceholder() || !item.BothSidesKnown() {
			continue
		}
		covered[roundKey{item.Sport, item.LeagueID, item.Round}] = struct{}{}
	}

	var removed int64
	for key, item := range r.fixtures {
		if !item.IsPlaceholder() {
			continue
		}
		if _, ok := covered[roundKey{item.Sport, item.LeagueID, item.Round}]; ok {
			delete(r.fixtures, key)
			removed++
		}
	}
	return removed, nil
}

func (r *FixtureRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.fixtures)), nil
}

func insideWindow(item fixture.Fixture, from, to *time.Time) bool {
	if from != nil && item.StartTime.Before(*from) {
		return false
	}
	if to != nil && item.StartTime.After(*to) {
		return false
	}
	return true
}

func followMatches(f follow.Follow, item fixture.Fixture) bool {
	if f.Sport != item.Sport {
		return false
	}
	switch f.EntityType {
	case follow.EntitySport:
		return true
	case follow.EntityLeague:
		leagueID, err := strconv.ParseInt(f.EntityID, 10, 64)
		if err != nil || leagueID != item.LeagueID {
			return false
		}
		if season := f.SeasonOverride(); season != "" && season != item.Season {
			return false
		}
		return true
	case follow.EntityTeam:
		teamID, err := strconv.ParseInt(f.EntityID, 10, 64)
		if err != nil {
			return false
		}
		if item.Home != nil && item.Home.ID == teamID {
			return true
		}
		return item.Away != nil && item.Away.ID == teamID
	default:
		return false
	}
}

func sortFixtures(items []fixture.Fixture) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].StartTime.Equal(items[j].StartTime) {
			return items[i].StartTime.Before(items[j].StartTime)
		}
		return items[i].Key() < items[j].Key()
	})
}
