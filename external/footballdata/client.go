// Package footballdata is a supplementary client for football-data.org.
// The primary provider only publishes knockout fixtures once both teams
// are known; football-data.org publishes the full bracket right after
// the draw, with null team slots for undecided spots. This client fetches
// those slots so the calendar can show "Champions League - Final" months
// ahead.
package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/sportcal/internal/platform/logging"
	"github.com/riskibarqy/sportcal/internal/usecase"
)

const defaultBaseURL = "https://api.football-data.org/v4"

// leagueToCompetitionCode maps primary-provider league ids to
// football-data.org competition codes. Leagues without an entry are not
// covered by the secondary source.
var leagueToCompetitionCode = map[int64]string{
	1: "WC", // FIFA World Cup
	2: "CL", // UEFA Champions League
	3: "EL", // UEFA Europa League
	4: "EC", // UEFA European Championship
}

// stageToRound maps football-data.org stage codes to the round labels
// the primary provider uses. The labels must match so the placeholder
// cleanup pass can tell when real fixtures have covered a round.
var stageToRound = map[string]string{
	"ROUND_OF_32":    "Round of 32",
	"ROUND_OF_16":    "Round of 16",
	"QUARTER_FINALS": "Quarter-finals",
	"SEMI_FINALS":    "Semi-finals",
	"THIRD_PLACE":    "3rd Place Final",
	"FINAL":          "Final",
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
}

func NewClient(httpClient *http.Client, baseURL, apiKey string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		apiKey:     strings.TrimSpace(apiKey),
		logger:     logger,
	}
}

// SupportsLeague reports whether the league has a competition mapping
// and an API key is configured.
func (c *Client) SupportsLeague(leagueID int64) bool {
	_, ok := leagueToCompetitionCode[leagueID]
	return ok && c.apiKey != ""
}

type matchesEnvelope struct {
	Competition struct {
		Name string `json:"name"`
	} `json:"competition"`
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	ID       int64  `json:"id"`
	Stage    string `json:"stage"`
	Status   string `json:"status"`
	UTCDate  string `json:"utcDate"`
	HomeTeam *struct {
		ID *int64 `json:"id"`
	} `json:"homeTeam"`
	AwayTeam *struct {
		ID *int64 `json:"id"`
	} `json:"awayTeam"`
}

// FetchUndrawnKnockoutSlots returns knockout-stage matches where at
// least one side is still unresolved and the match has not been played.
// Slots where both teams are already known are skipped so the primary
// provider stays authoritative once it catches up.
func (c *Client) FetchUndrawnKnockoutSlots(ctx context.Context, leagueID int64, season string) ([]usecase.SecondarySlot, error) {
	code, ok := leagueToCompetitionCode[leagueID]
	if !ok || c.apiKey == "" {
		return nil, nil
	}

	// football-data.org keys seasons by starting year only.
	fdSeason := season
	if idx := strings.Index(fdSeason, "-"); idx > 0 {
		fdSeason = fdSeason[:idx]
	}

	url := fmt.Sprintf("%s/competitions/%s/matches?season=%s", c.baseURL, code, fdSeason)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build matches request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s season=%s: %w", code, fdSeason, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read matches response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s season=%s: status %d", code, fdSeason, resp.StatusCode)
	}

	var envelope matchesEnvelope
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode matches response: %w", err)
	}

	out := make([]usecase.SecondarySlot, 0, len(envelope.Matches))
	for _, match := range envelope.Matches {
		round, knockout := stageToRound[match.Stage]
		if !knockout {
			continue
		}
		if teamKnown(match.HomeTeam) && teamKnown(match.AwayTeam) {
			continue
		}
		if match.Status != "SCHEDULED" && match.Status != "TIMED" {
			continue
		}
		start, err := time.Parse(time.RFC3339, match.UTCDate)
		if err != nil {
			c.logger.WarnContext(ctx, "football-data match has unparseable date",
				"match_id", match.ID, "utc_date", match.UTCDate)
			continue
		}

		raw, _ := sonic.Marshal(match)
		out = append(out, usecase.SecondarySlot{
			MatchID:         match.ID,
			CompetitionName: envelope.Competition.Name,
			Round:           round,
			StartTime:       start,
			RawData:         raw,
		})
	}
	return out, nil
}

func teamKnown(ref *struct {
	ID *int64 `json:"id"`
}) bool {
	return ref != nil && ref.ID != nil && *ref.ID > 0
}

// PlaceholderID builds the synthetic fixture id for a secondary-source
// slot.
func PlaceholderID(matchID int64) string {
	return "fdo_" + strconv.FormatInt(matchID, 10)
}
