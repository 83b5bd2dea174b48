package fixture

import (
	"fmt"
	"strings"
	"time"
)

// Sport discriminates upstream payload shape and provider base URL.
type Sport string

const (
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
	SportTennis     Sport = "tennis"
)

func ParseSport(raw string) (Sport, error) {
	switch Sport(strings.ToLower(strings.TrimSpace(raw))) {
	case SportFootball:
		return SportFootball, nil
	case SportBasketball:
		return SportBasketball, nil
	case SportTennis:
		return SportTennis, nil
	default:
		return "", fmt.Errorf("unknown sport %q", raw)
	}
}

// Placeholder id prefixes. StaticPlaceholderPrefix marks rows from the
// hand-curated tournament slot table, SecondaryPlaceholderPrefix rows
// derived from the secondary schedule source.
const (
	StaticPlaceholderPrefix    = "ph_"
	SecondaryPlaceholderPrefix = "fdo_"
)

// Participant is one side of a contest. A nil *Participant means the slot
// is not drawn yet; the literal upstream name "TBD" is normalized to nil
// before it ever reaches this type.
type Participant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

type Score struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Fixture is the canonical, sport-agnostic record of one contest,
// uniquely identified by (Sport, ID).
type Fixture struct {
	ID         string
	Sport      Sport
	LeagueID   int64
	LeagueName string
	LeagueLogo string
	Season     string
	Home       *Participant
	Away       *Participant
	StartTime  time.Time
	EndTime    *time.Time
	Status     string
	Venue      string
	Round      string
	Score      Score
	PlayerIDs  []int64
	RawData    []byte
	FetchedAt  time.Time
	TTLSeconds int64
}

// Key identifies a fixture across sports.
func (f Fixture) Key() string {
	return string(f.Sport) + ":" + f.ID
}

func (f Fixture) IsPlaceholder() bool {
	return strings.HasPrefix(f.ID, StaticPlaceholderPrefix) ||
		strings.HasPrefix(f.ID, SecondaryPlaceholderPrefix)
}

// Stale reports whether the row is past its freshness window and due for
// a re-check on the next sync.
func (f Fixture) Stale(now time.Time) bool {
	if f.FetchedAt.IsZero() || f.TTLSeconds <= 0 {
		return true
	}
	return !now.Before(f.FetchedAt.Add(time.Duration(f.TTLSeconds) * time.Second))
}

// BothSidesKnown reports whether the contest has a drawn participant on
// each side.
func (f Fixture) BothSidesKnown() bool {
	return f.Home != nil && f.Away != nil
}

var finishedStatuses = map[string]struct{}{
	"FT":  {},
	"AET": {},
	"PEN": {},
	"AOT": {},
	"FIN": {},
	"AWD": {},
	"WO":  {},
}

var postponedStatuses = map[string]struct{}{
	"PST":  {},
	"CANC": {},
	"ABD":  {},
	"INT":  {},
	"SUSP": {},
}

const StatusCancelled = "CANC"

func IsFinishedStatus(status string) bool {
	_, ok := finishedStatuses[strings.ToUpper(strings.TrimSpace(status))]
	return ok
}

func IsPostponedStatus(status string) bool {
	_, ok := postponedStatuses[strings.ToUpper(strings.TrimSpace(status))]
	return ok
}

func (f Fixture) Finished() bool {
	return IsFinishedStatus(f.Status)
}

// Duration returns the typical contest length used to estimate an end
// time when the provider does not supply one.
func (s Sport) Duration() time.Duration {
	switch s {
	case SportBasketball:
		return 150 * time.Minute
	case SportTennis:
		return 180 * time.Minute
	default:
		return 105 * time.Minute
	}
}

// EstimatedEnd returns the explicit end time when present, otherwise
// start + the sport's typical duration.
func (f Fixture) EstimatedEnd() time.Time {
	if f.EndTime != nil {
		return *f.EndTime
	}
	return f.StartTime.Add(f.Sport.Duration())
}
