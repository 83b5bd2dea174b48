package usecase

import (
	"time"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
)

// Hand-curated knockout slots for marquee tournaments whose bracket
// dates are public long before the draw. The primary provider only
// publishes these fixtures once both teams are known, sometimes days
// before kickoff; these slots let a subscriber see "Champions League -
// Final" months ahead.
//
// Official sources:
//   FIFA 2026 WC: https://www.fifa.com/en/tournaments/mens/worldcup/articles/2026-fifa-world-cup-match-schedule
//   UEFA UCL 2025-26: https://www.uefa.com/uefachampionsleague/

const (
	worldCupLogo        = "https://media.api-sports.io/football/leagues/1.png"
	championsLeagueLogo = "https://media.api-sports.io/football/leagues/2.png"

	worldCupFinalVenue        = "MetLife Stadium, East Rutherford"
	championsLeagueFinalVenue = "Allianz Arena, Munich"
)

type tournamentSlot struct {
	id    string
	round string
	start string // RFC 3339
	venue string
}

type tournamentCatalogueKey struct {
	leagueID int64
	season   string
}

type tournamentCatalogueEntry struct {
	leagueName string
	leagueLogo string
	slots      []tournamentSlot
}

var tournamentCatalogue = map[tournamentCatalogueKey]tournamentCatalogueEntry{
	// FIFA World Cup 2026, USA/Canada/Mexico. All times UTC.
	{leagueID: 1, season: "2026"}: {
		leagueName: "FIFA World Cup",
		leagueLogo: worldCupLogo,
		slots: []tournamentSlot{
			{id: "ph_wc2026_r32_01", round: "Round of 32", start: "2026-06-28T20:00:00Z"},
			{id: "ph_wc2026_r32_02", round: "Round of 32", start: "2026-06-28T23:00:00Z"},
			{id: "ph_wc2026_r32_03", round: "Round of 32", start: "2026-06-29T20:00:00Z"},
			{id: "ph_wc2026_r32_04", round: "Round of 32", start: "2026-06-29T23:00:00Z"},
			{id: "ph_wc2026_r32_05", round: "Round of 32", start: "2026-06-30T20:00:00Z"},
			{id: "ph_wc2026_r32_06", round: "Round of 32", start: "2026-06-30T23:00:00Z"},
			{id: "ph_wc2026_r32_07", round: "Round of 32", start: "2026-07-01T20:00:00Z"},
			{id: "ph_wc2026_r32_08", round: "Round of 32", start: "2026-07-01T23:00:00Z"},
			{id: "ph_wc2026_r32_09", round: "Round of 32", start: "2026-07-02T20:00:00Z"},
			{id: "ph_wc2026_r32_10", round: "Round of 32", start: "2026-07-02T23:00:00Z"},
			{id: "ph_wc2026_r32_11", round: "Round of 32", start: "2026-07-03T20:00:00Z"},
			{id: "ph_wc2026_r32_12", round: "Round of 32", start: "2026-07-03T23:00:00Z"},
			{id: "ph_wc2026_r32_13", round: "Round of 32", start: "2026-07-04T20:00:00Z"},
			{id: "ph_wc2026_r32_14", round: "Round of 32", start: "2026-07-04T23:00:00Z"},
			{id: "ph_wc2026_r32_15", round: "Round of 32", start: "2026-07-05T20:00:00Z"},
			{id: "ph_wc2026_r32_16", round: "Round of 32", start: "2026-07-05T23:00:00Z"},
			{id: "ph_wc2026_r16_1", round: "Round of 16", start: "2026-07-06T22:00:00Z"},
			{id: "ph_wc2026_r16_2", round: "Round of 16", start: "2026-07-07T22:00:00Z"},
			{id: "ph_wc2026_r16_3", round: "Round of 16", start: "2026-07-07T02:00:00Z"},
			{id: "ph_wc2026_r16_4", round: "Round of 16", start: "2026-07-08T22:00:00Z"},
			{id: "ph_wc2026_r16_5", round: "Round of 16", start: "2026-07-08T02:00:00Z"},
			{id: "ph_wc2026_r16_6", round: "Round of 16", start: "2026-07-09T22:00:00Z"},
			{id: "ph_wc2026_r16_7", round: "Round of 16", start: "2026-07-09T02:00:00Z"},
			{id: "ph_wc2026_r16_8", round: "Round of 16", start: "2026-07-10T02:00:00Z"},
			{id: "ph_wc2026_qf_1", round: "Quarter-finals", start: "2026-07-11T22:00:00Z"},
			{id: "ph_wc2026_qf_2", round: "Quarter-finals", start: "2026-07-12T22:00:00Z"},
			{id: "ph_wc2026_qf_3", round: "Quarter-finals", start: "2026-07-13T22:00:00Z"},
			{id: "ph_wc2026_qf_4", round: "Quarter-finals", start: "2026-07-14T22:00:00Z"},
			{id: "ph_wc2026_sf_1", round: "Semi-finals", start: "2026-07-15T22:00:00Z"},
			{id: "ph_wc2026_sf_2", round: "Semi-finals", start: "2026-07-16T22:00:00Z"},
			{id: "ph_wc2026_3rd", round: "3rd Place Final", start: "2026-07-18T22:00:00Z"},
			{id: "ph_wc2026_final", round: "Final", start: "2026-07-19T22:00:00Z", venue: worldCupFinalVenue},
		},
	},
	// UEFA Champions League 2025-26. The provider already covers the
	// league stage; only Round of 16 onward needs slots.
	{leagueID: 2, season: "2025"}: {
		leagueName: "UEFA Champions League",
		leagueLogo: championsLeagueLogo,
		slots: []tournamentSlot{
			{id: "ph_ucl2526_r16_f1", round: "Round of 16", start: "2026-03-10T19:00:00Z"},
			{id: "ph_ucl2526_r16_f2", round: "Round of 16", start: "2026-03-10T21:00:00Z"},
			{id: "ph_ucl2526_r16_f3", round: "Round of 16", start: "2026-03-10T19:00:00Z"},
			{id: "ph_ucl2526_r16_f4", round: "Round of 16", start: "2026-03-10T21:00:00Z"},
			{id: "ph_ucl2526_r16_f5", round: "Round of 16", start: "2026-03-11T19:00:00Z"},
			{id: "ph_ucl2526_r16_f6", round: "Round of 16", start: "2026-03-11T21:00:00Z"},
			{id: "ph_ucl2526_r16_f7", round: "Round of 16", start: "2026-03-11T19:00:00Z"},
			{id: "ph_ucl2526_r16_f8", round: "Round of 16", start: "2026-03-11T21:00:00Z"},
			{id: "ph_ucl2526_r16_s1", round: "Round of 16", start: "2026-03-17T19:00:00Z"},
			{id: "ph_ucl2526_r16_s2", round: "Round of 16", start: "2026-03-17T21:00:00Z"},
			{id: "ph_ucl2526_r16_s3", round: "Round of 16", start: "2026-03-17T19:00:00Z"},
			{id: "ph_ucl2526_r16_s4", round: "Round of 16", start: "2026-03-17T21:00:00Z"},
			{id: "ph_ucl2526_r16_s5", round: "Round of 16", start: "2026-03-18T19:00:00Z"},
			{id: "ph_ucl2526_r16_s6", round: "Round of 16", start: "2026-03-18T21:00:00Z"},
			{id: "ph_ucl2526_r16_s7", round: "Round of 16", start: "2026-03-18T19:00:00Z"},
			{id: "ph_ucl2526_r16_s8", round: "Round of 16", start: "2026-03-18T21:00:00Z"},
			{id: "ph_ucl2526_qf_f1", round: "Quarter-finals", start: "2026-04-07T19:00:00Z"},
			{id: "ph_ucl2526_qf_f2", round: "Quarter-finals", start: "2026-04-07T21:00:00Z"},
			{id: "ph_ucl2526_qf_f3", round: "Quarter-finals", start: "2026-04-08T19:00:00Z"},
			{id: "ph_ucl2526_qf_f4", round: "Quarter-finals", start: "2026-04-08T21:00:00Z"},
			{id: "ph_ucl2526_qf_s1", round: "Quarter-finals", start: "2026-04-14T19:00:00Z"},
			{id: "ph_ucl2526_qf_s2", round: "Quarter-finals", start: "2026-04-14T21:00:00Z"},
			{id: "ph_ucl2526_qf_s3", round: "Quarter-finals", start: "2026-04-15T19:00:00Z"},
			{id: "ph_ucl2526_qf_s4", round: "Quarter-finals", start: "2026-04-15T21:00:00Z"},
			{id: "ph_ucl2526_sf_f1", round: "Semi-finals", start: "2026-04-28T19:00:00Z"},
			{id: "ph_ucl2526_sf_f2", round: "Semi-finals", start: "2026-04-29T19:00:00Z"},
			{id: "ph_ucl2526_sf_s1", round: "Semi-finals", start: "2026-05-05T19:00:00Z"},
			{id: "ph_ucl2526_sf_s2", round: "Semi-finals", start: "2026-05-06T19:00:00Z"},
			{id: "ph_ucl2526_final", round: "Final", start: "2026-05-30T20:00:00Z", venue: championsLeagueFinalVenue},
		},
	},
}

// staticTournamentSlots expands the catalogue entry for a league/season
// into canonical placeholder fixtures. Missing entries yield nil.
func staticTournamentSlots(leagueID int64, season string) []fixture.Fixture {
	entry, ok := tournamentCatalogue[tournamentCatalogueKey{leagueID: leagueID, season: season}]
	if !ok {
		return nil
	}

	out := make([]fixture.Fixture, 0, len(entry.slots))
	for _, slot := range entry.slots {
		start, err := time.Parse(time.RFC3339, slot.start)
		if err != nil {
			continue
		}
		out = append(out, fixture.Fixture{
			ID:         slot.id,
			Sport:      fixture.SportFootball,
			LeagueID:   leagueID,
			LeagueName: entry.leagueName,
			LeagueLogo: entry.leagueLogo,
			Season:     season,
			StartTime:  start,
			Status:     "NS",
			Venue:      slot.venue,
			Round:      slot.round,
			TTLSeconds: placeholderTTLSeconds,
		})
	}
	return out
}
