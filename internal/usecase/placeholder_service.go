package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/platform/logging"
)

// placeholderTTLSeconds keeps synthetic rows on a 6h refresh so real
// fixtures replace them soon after the draw.
const placeholderTTLSeconds = 21600

// PlaceholderService produces synthetic fixtures for known-but-undrawn
// knockout slots, from the hand-curated catalogue and the optional
// secondary schedule source.
type PlaceholderService struct {
	secondary SecondaryScheduleSource
	logger    *logging.Logger
}

func NewPlaceholderService(secondary SecondaryScheduleSource, logger *logging.Logger) *PlaceholderService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlaceholderService{
		secondary: secondary,
		logger:    logger,
	}
}

// Generate returns zero or more placeholder fixtures for the league and
// season. Both sources are best-effort: a missing catalogue entry or a
// failed secondary-source call shrinks the result instead of failing
// sync, and the error is returned alongside whatever rows were built so
// callers can record it.
func (s *PlaceholderService) Generate(ctx context.Context, leagueID int64, season string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlaceholderService.Generate")
	defer span.End()

	out := staticTournamentSlots(leagueID, season)

	if s.secondary == nil || !s.secondary.SupportsLeague(leagueID) {
		return out, nil
	}

	slots, err := s.secondary.FetchUndrawnKnockoutSlots(ctx, leagueID, season)
	if err != nil {
		s.logger.WarnContext(ctx, "secondary schedule source failed",
			"league_id", leagueID, "season", season, "error", err)
		return out, fmt.Errorf("secondary schedule league_id=%d: %w", leagueID, err)
	}

	for _, slot := range slots {
		out = append(out, fixture.Fixture{
			ID:         fixture.SecondaryPlaceholderPrefix + strconv.FormatInt(slot.MatchID, 10),
			Sport:      fixture.SportFootball,
			LeagueID:   leagueID,
			LeagueName: slot.CompetitionName,
			LeagueLogo: fmt.Sprintf("https://media.api-sports.io/football/leagues/%d.png", leagueID),
			Season:     season,
			StartTime:  slot.StartTime,
			Status:     "NS",
			Round:      slot.Round,
			RawData:    slot.RawData,
			TTLSeconds: placeholderTTLSeconds,
		})
	}
	return out, nil
}
