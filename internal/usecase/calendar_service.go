package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/domain/follow"
	"github.com/riskibarqy/sportcal/internal/platform/ics"
	"github.com/riskibarqy/sportcal/internal/platform/logging"
)

const (
	feedWindowPast   = 30 * 24 * time.Hour
	feedWindowFuture = 90 * 24 * time.Hour
	feedName         = "My Sport Calendar"
	feedRefresh      = 5 * time.Minute
	feedUIDDomain    = "sportcal"
)

// CalendarService assembles a user's fixtures from their follows, for
// both the JSON events listing and the subscribable ICS feed.
type CalendarService struct {
	follows  FollowRepository
	fixtures FixtureRepository
	tokens   CalendarTokenRepository
	logger   *logging.Logger
}

func NewCalendarService(
	follows FollowRepository,
	fixtures FixtureRepository,
	tokens CalendarTokenRepository,
	logger *logging.Logger,
) *CalendarService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CalendarService{
		follows:  follows,
		fixtures: fixtures,
		tokens:   tokens,
		logger:   logger,
	}
}

// ListEvents returns every stored fixture matching the user's follows,
// unwindowed, ordered by start time.
func (s *CalendarService) ListEvents(ctx context.Context, userID string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CalendarService.ListEvents")
	defer span.End()

	rows, err := s.fixturesForUser(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RenderFeed resolves a calendar token and renders the owner's fixtures
// from 30 days back to 90 days ahead as an ICS document. A trailing
// ".ics" on the token is tolerated so feed URLs can carry the extension.
// Unknown tokens yield ErrNotFound.
func (s *CalendarService) RenderFeed(ctx context.Context, token string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CalendarService.RenderFeed")
	defer span.End()

	token = strings.TrimSuffix(token, ".ics")

	userID, found, err := s.tokens.ResolveUserID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve calendar token: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: calendar token", ErrNotFound)
	}

	now := time.Now().UTC()
	from := now.Add(-feedWindowPast)
	to := now.Add(feedWindowFuture)

	rows, err := s.fixturesForUser(ctx, userID, &from, &to)
	if err != nil {
		return nil, err
	}

	cal := ics.Calendar{
		Name:            feedName,
		RefreshInterval: feedRefresh,
		Events:          make([]ics.Event, 0, len(rows)),
	}
	for _, row := range rows {
		cal.Events = append(cal.Events, feedEvent(row))
	}
	return ics.Render(cal, now), nil
}

// fixturesForUser runs the entity-follow and player-overlap queries in
// parallel and merges the results, deduplicated and ordered.
func (s *CalendarService) fixturesForUser(ctx context.Context, userID string, from, to *time.Time) ([]fixture.Fixture, error) {
	follows, err := s.follows.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list follows for user %s: %w", userID, err)
	}
	if len(follows) == 0 {
		return []fixture.Fixture{}, nil
	}

	var entityFollows []follow.Follow
	var playerIDs []int64
	for _, f := range follows {
		if f.EntityType == follow.EntityPlayer {
			id, convErr := strconv.ParseInt(f.EntityID, 10, 64)
			if convErr != nil {
				s.logger.WarnContext(ctx, "skipping player follow with non-numeric id",
					"user_id", userID, "entity_id", f.EntityID)
				continue
			}
			playerIDs = append(playerIDs, id)
			continue
		}
		entityFollows = append(entityFollows, f)
	}

	var entityRows, playerRows []fixture.Fixture
	queries := pool.New().WithContext(ctx).WithCancelOnError()
	if len(entityFollows) > 0 {
		queries.Go(func(ctx context.Context) error {
			rows, err := s.fixtures.ListByEntityFollows(ctx, entityFollows, from, to)
			if err != nil {
				return fmt.Errorf("list fixtures by follows: %w", err)
			}
			entityRows = rows
			return nil
		})
	}
	if len(playerIDs) > 0 {
		queries.Go(func(ctx context.Context) error {
			rows, err := s.fixtures.ListByPlayerOverlap(ctx, playerIDs, from, to)
			if err != nil {
				return fmt.Errorf("list fixtures by player overlap: %w", err)
			}
			playerRows = rows
			return nil
		})
	}
	if err := queries.Wait(); err != nil {
		return nil, err
	}

	merged := make([]fixture.Fixture, 0, len(entityRows)+len(playerRows))
	seen := make(map[string]struct{}, len(entityRows)+len(playerRows))
	for _, row := range entityRows {
		if _, dup := seen[row.Key()]; dup {
			continue
		}
		seen[row.Key()] = struct{}{}
		merged = append(merged, row)
	}
	for _, row := range playerRows {
		if _, dup := seen[row.Key()]; dup {
			continue
		}
		seen[row.Key()] = struct{}{}
		merged = append(merged, row)
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].StartTime.Equal(merged[j].StartTime) {
			return merged[i].StartTime.Before(merged[j].StartTime)
		}
		return merged[i].Key() < merged[j].Key()
	})
	return merged, nil
}

func feedEvent(f fixture.Fixture) ics.Event {
	return ics.Event{
		UID:         fmt.Sprintf("%s-%s@%s", f.Sport, f.ID, feedUIDDomain),
		Summary:     eventSummary(f),
		Description: eventDescription(f),
		Location:    f.Venue,
		Start:       f.StartTime,
		End:         f.EstimatedEnd(),
		Confirmed:   f.Finished(),
	}
}

// eventSummary prefers the matchup title; undrawn slots fall back to the
// competition name and round so the calendar never shows "TBD vs TBD".
func eventSummary(f fixture.Fixture) string {
	if f.BothSidesKnown() {
		return f.Home.Name + " vs " + f.Away.Name
	}
	if f.Round != "" {
		return f.LeagueName + " - " + f.Round
	}
	return f.LeagueName
}

func eventDescription(f fixture.Fixture) string {
	var b strings.Builder
	b.WriteString("League: ")
	b.WriteString(f.LeagueName)
	if f.Venue != "" {
		b.WriteString("\nVenue: ")
		b.WriteString(f.Venue)
	}
	if f.Round != "" {
		b.WriteString("\nRound: ")
		b.WriteString(f.Round)
	}
	if f.Status != "" && f.Status != "NS" {
		b.WriteString("\nStatus: ")
		b.WriteString(f.Status)
	}
	return b.String()
}
