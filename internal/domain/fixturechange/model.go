package fixturechange

import (
	"time"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
)

type Type string

const (
	TypeReschedule   Type = "reschedule"
	TypePostpone     Type = "postpone"
	TypeCancel       Type = "cancel"
	TypeScoreUpdate  Type = "score_update"
	TypeStatusChange Type = "status_change"
)

// Snapshot captures the compared fields of one side of a change. Which
// fields are populated depends on the change type.
type Snapshot struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	Status    string     `json:"status,omitempty"`
	HomeScore *int       `json:"home_score,omitempty"`
	AwayScore *int       `json:"away_score,omitempty"`
}

// Change is an immutable log entry describing one detected delta for a
// fixture. Rows are append-only.
type Change struct {
	ID         int64
	Sport      fixture.Sport
	FixtureID  string
	Type       Type
	OldValue   Snapshot
	NewValue   Snapshot
	DetectedAt time.Time
}
