package fixturechange

import (
	"time"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
)

// rescheduleThreshold is the start-time delta below which a shift is
// treated as provider jitter rather than a real reschedule.
const rescheduleThreshold = 5 * time.Minute

// Detect compares the previously stored fixture against an incoming one
// and classifies the delta. Checks run in strict priority order and the
// first match wins, so at most one change is ever produced per
// comparison: reschedule, then postpone/cancel, then score update.
// Detect is pure; DetectedAt is stamped with the supplied now.
func Detect(prev, incoming fixture.Fixture, now time.Time) *Change {
	if delta := startDelta(prev, incoming); delta > rescheduleThreshold {
		prevStart := prev.StartTime
		newStart := incoming.StartTime
		return &Change{
			Sport:     incoming.Sport,
			FixtureID: incoming.ID,
			Type:      TypeReschedule,
			OldValue: Snapshot{
				StartTime: &prevStart,
				Status:    prev.Status,
			},
			NewValue: Snapshot{
				StartTime: &newStart,
				Status:    incoming.Status,
			},
			DetectedAt: now,
		}
	}

	if !fixture.IsPostponedStatus(prev.Status) && fixture.IsPostponedStatus(incoming.Status) {
		changeType := TypePostpone
		if incoming.Status == fixture.StatusCancelled {
			changeType = TypeCancel
		}
		return &Change{
			Sport:      incoming.Sport,
			FixtureID:  incoming.ID,
			Type:       changeType,
			OldValue:   Snapshot{Status: prev.Status},
			NewValue:   Snapshot{Status: incoming.Status},
			DetectedAt: now,
		}
	}

	if scoreChanged(prev.Score, incoming.Score) {
		return &Change{
			Sport:     incoming.Sport,
			FixtureID: incoming.ID,
			Type:      TypeScoreUpdate,
			OldValue: Snapshot{
				HomeScore: prev.Score.Home,
				AwayScore: prev.Score.Away,
				Status:    prev.Status,
			},
			NewValue: Snapshot{
				HomeScore: incoming.Score.Home,
				AwayScore: incoming.Score.Away,
				Status:    incoming.Status,
			},
			DetectedAt: now,
		}
	}

	return nil
}

func startDelta(prev, incoming fixture.Fixture) time.Duration {
	if prev.StartTime.IsZero() || incoming.StartTime.IsZero() {
		return 0
	}
	delta := incoming.StartTime.Sub(prev.StartTime)
	if delta < 0 {
		delta = -delta
	}
	return delta
}

func scoreChanged(prev, incoming fixture.Score) bool {
	if incoming.Home == nil && incoming.Away == nil {
		return false
	}
	return !scoreEqual(prev.Home, incoming.Home) || !scoreEqual(prev.Away, incoming.Away)
}

func scoreEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
