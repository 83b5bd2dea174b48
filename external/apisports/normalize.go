package apisports

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
)

// The provider wraps every collection in the same envelope; only the
// per-item shape differs by sport. Football nests match data under
// sub-objects, basketball keeps it flat at the top level, tennis models
// the two sides as a players array.

type responseEnvelope struct {
	Response []json.RawMessage `json:"response"`
}

type participantRef struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// seasonLabel tolerates both numeric ("2026") and span ("2025-2026")
// season encodings.
type seasonLabel string

func (s *seasonLabel) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := sonic.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = seasonLabel(text)
		return nil
	}
	var number int64
	if err := sonic.Unmarshal(data, &number); err != nil {
		return err
	}
	*s = seasonLabel(strconv.FormatInt(number, 10))
	return nil
}

type footballItem struct {
	Fixture struct {
		ID     *int64 `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		ID     int64       `json:"id"`
		Name   string      `json:"name"`
		Logo   string      `json:"logo"`
		Season seasonLabel `json:"season"`
		Round  string      `json:"round"`
	} `json:"league"`
	Teams struct {
		Home *participantRef `json:"home"`
		Away *participantRef `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type basketballItem struct {
	ID     *int64      `json:"id"`
	Date   string      `json:"date"`
	Season seasonLabel `json:"season"`
	Status struct {
		Short string `json:"short"`
	} `json:"status"`
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"league"`
	Teams struct {
		Home *participantRef `json:"home"`
		Away *participantRef `json:"away"`
	} `json:"teams"`
	Scores struct {
		Home struct {
			Total *int `json:"total"`
		} `json:"home"`
		Away struct {
			Total *int `json:"total"`
		} `json:"away"`
	} `json:"scores"`
}

type tennisItem struct {
	ID     *int64      `json:"id"`
	Date   string      `json:"date"`
	Season seasonLabel `json:"season"`
	Round  string      `json:"round"`
	Status struct {
		Short string `json:"short"`
	} `json:"status"`
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"league"`
	Players []struct {
		Player struct {
			ID    *int64 `json:"id"`
			Name  string `json:"name"`
			Photo string `json:"photo"`
		} `json:"player"`
	} `json:"players"`
	Scores []struct {
		Score struct {
			Sets *int `json:"sets"`
		} `json:"score"`
	} `json:"scores"`
}

// ParseFixtures decodes a provider fixtures/games payload into canonical
// records. Items missing a fixture id or start time are dropped from the
// batch rather than failing it; an error is only returned when the
// envelope itself cannot be decoded.
func ParseFixtures(sport fixture.Sport, payload []byte, now time.Time) ([]fixture.Fixture, error) {
	return parseFixtures(sport, payload, now)
}

// Normalizer adapts ParseFixtures for injection into the sync layer.
type Normalizer struct{}

func (Normalizer) ParseFixtures(sport fixture.Sport, payload []byte, now time.Time) ([]fixture.Fixture, error) {
	return ParseFixtures(sport, payload, now)
}

func parseFixtures(sport fixture.Sport, payload []byte, now time.Time) ([]fixture.Fixture, error) {
	var envelope responseEnvelope
	if err := sonic.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", sport, err)
	}

	out := make([]fixture.Fixture, 0, len(envelope.Response))
	for _, raw := range envelope.Response {
		var (
			normalized fixture.Fixture
			err        error
		)
		switch sport {
		case fixture.SportFootball:
			normalized, err = normalizeFootball(raw, now)
		case fixture.SportBasketball:
			normalized, err = normalizeBasketball(raw, now)
		case fixture.SportTennis:
			normalized, err = normalizeTennis(raw, now)
		default:
			return nil, fmt.Errorf("no normalizer for sport %q", sport)
		}
		if err != nil {
			continue
		}
		out = append(out, normalized)
	}
	return out, nil
}

func normalizeFootball(raw json.RawMessage, now time.Time) (fixture.Fixture, error) {
	var item footballItem
	if err := sonic.Unmarshal(raw, &item); err != nil {
		return fixture.Fixture{}, err
	}
	if item.Fixture.ID == nil || *item.Fixture.ID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("fixture id missing")
	}
	start, err := parseStart(item.Fixture.Date)
	if err != nil {
		return fixture.Fixture{}, err
	}

	season := string(item.League.Season)
	if season == "" {
		season = fixture.CurrentSeason(fixture.SportFootball, now)
	}

	return fixture.Fixture{
		ID:         strconv.FormatInt(*item.Fixture.ID, 10),
		Sport:      fixture.SportFootball,
		LeagueID:   item.League.ID,
		LeagueName: item.League.Name,
		LeagueLogo: item.League.Logo,
		Season:     season,
		Home:       normalizeParticipant(item.Teams.Home),
		Away:       normalizeParticipant(item.Teams.Away),
		StartTime:  start,
		Status:     defaultStatus(item.Fixture.Status.Short),
		Venue:      item.Fixture.Venue.Name,
		Round:      item.League.Round,
		Score:      fixture.Score{Home: item.Goals.Home, Away: item.Goals.Away},
		RawData:    append([]byte(nil), raw...),
	}, nil
}

func normalizeBasketball(raw json.RawMessage, now time.Time) (fixture.Fixture, error) {
	var item basketballItem
	if err := sonic.Unmarshal(raw, &item); err != nil {
		return fixture.Fixture{}, err
	}
	if item.ID == nil || *item.ID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("game id missing")
	}
	start, err := parseStart(item.Date)
	if err != nil {
		return fixture.Fixture{}, err
	}

	season := string(item.Season)
	if season == "" {
		season = fixture.CurrentSeason(fixture.SportBasketball, now)
	}

	return fixture.Fixture{
		ID:         strconv.FormatInt(*item.ID, 10),
		Sport:      fixture.SportBasketball,
		LeagueID:   item.League.ID,
		LeagueName: item.League.Name,
		LeagueLogo: item.League.Logo,
		Season:     season,
		Home:       normalizeParticipant(item.Teams.Home),
		Away:       normalizeParticipant(item.Teams.Away),
		StartTime:  start,
		Status:     defaultStatus(item.Status.Short),
		Score:      fixture.Score{Home: item.Scores.Home.Total, Away: item.Scores.Away.Total},
		RawData:    append([]byte(nil), raw...),
	}, nil
}

func normalizeTennis(raw json.RawMessage, now time.Time) (fixture.Fixture, error) {
	var item tennisItem
	if err := sonic.Unmarshal(raw, &item); err != nil {
		return fixture.Fixture{}, err
	}
	if item.ID == nil || *item.ID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("game id missing")
	}
	start, err := parseStart(item.Date)
	if err != nil {
		return fixture.Fixture{}, err
	}

	season := string(item.Season)
	if season == "" {
		season = fixture.CurrentSeason(fixture.SportTennis, now)
	}

	var home, away *fixture.Participant
	var playerIDs []int64
	if len(item.Players) > 0 {
		home = normalizeParticipant(&participantRef{
			ID:   item.Players[0].Player.ID,
			Name: item.Players[0].Player.Name,
			Logo: item.Players[0].Player.Photo,
		})
	}
	if len(item.Players) > 1 {
		away = normalizeParticipant(&participantRef{
			ID:   item.Players[1].Player.ID,
			Name: item.Players[1].Player.Name,
			Logo: item.Players[1].Player.Photo,
		})
	}
	if home != nil {
		playerIDs = append(playerIDs, home.ID)
	}
	if away != nil {
		playerIDs = append(playerIDs, away.ID)
	}

	score := fixture.Score{}
	if len(item.Scores) > 0 {
		score.Home = item.Scores[0].Score.Sets
	}
	if len(item.Scores) > 1 {
		score.Away = item.Scores[1].Score.Sets
	}

	return fixture.Fixture{
		ID:         strconv.FormatInt(*item.ID, 10),
		Sport:      fixture.SportTennis,
		LeagueID:   item.League.ID,
		LeagueName: item.League.Name,
		LeagueLogo: item.League.Logo,
		Season:     season,
		Home:       home,
		Away:       away,
		StartTime:  start,
		Status:     defaultStatus(item.Status.Short),
		Round:      item.Round,
		Score:      score,
		PlayerIDs:  playerIDs,
		RawData:    append([]byte(nil), raw...),
	}, nil
}

// normalizeParticipant maps an absent ref, a zero id, or the provider's
// literal "TBD" placeholder name to an unknown participant.
func normalizeParticipant(ref *participantRef) *fixture.Participant {
	if ref == nil || ref.ID == nil || *ref.ID <= 0 {
		return nil
	}
	name := strings.TrimSpace(ref.Name)
	if name == "" || strings.EqualFold(name, "TBD") {
		return nil
	}
	return &fixture.Participant{
		ID:   *ref.ID,
		Name: name,
		Logo: ref.Logo,
	}
}

func parseStart(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("start time missing")
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start time %q: %w", value, err)
	}
	return parsed, nil
}

func defaultStatus(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return "NS"
	}
	return status
}
