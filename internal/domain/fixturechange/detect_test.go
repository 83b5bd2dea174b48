package fixturechange

import (
	"testing"
	"time"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
)

var detectNow = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func baseFixture(start time.Time, status string) fixture.Fixture {
	return fixture.Fixture{
		ID:        "200",
		Sport:     fixture.SportFootball,
		StartTime: start,
		Status:    status,
	}
}

func TestDetectReschedule(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	prev := baseFixture(start, "NS")
	incoming := baseFixture(start.Add(time.Hour), "NS")

	change := Detect(prev, incoming, detectNow)
	if change == nil || change.Type != TypeReschedule {
		t.Fatalf("expected reschedule, got %+v", change)
	}
	if !change.OldValue.StartTime.Equal(start) {
		t.Fatalf("old start = %v", change.OldValue.StartTime)
	}
	if !change.NewValue.StartTime.Equal(start.Add(time.Hour)) {
		t.Fatalf("new start = %v", change.NewValue.StartTime)
	}
}

func TestDetectRescheduleJitterIgnored(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	prev := baseFixture(start, "NS")
	incoming := baseFixture(start.Add(4*time.Minute), "NS")

	if change := Detect(prev, incoming, detectNow); change != nil {
		t.Fatalf("sub-threshold shift produced %+v", change)
	}
}

// A fixture that moves by more than five minutes and simultaneously
// enters the postponed family yields exactly one record, and the
// start-time delta wins.
func TestDetectRescheduleDominatesPostpone(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	prev := baseFixture(start, "NS")
	incoming := baseFixture(start.Add(10*time.Minute), "PST")

	change := Detect(prev, incoming, detectNow)
	if change == nil {
		t.Fatal("expected a change")
	}
	if change.Type != TypeReschedule {
		t.Fatalf("type = %q, want reschedule", change.Type)
	}
}

func TestDetectPostponeAndCancel(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)

	prev := baseFixture(start, "NS")
	postponed := baseFixture(start, "PST")
	change := Detect(prev, postponed, detectNow)
	if change == nil || change.Type != TypePostpone {
		t.Fatalf("expected postpone, got %+v", change)
	}

	cancelled := baseFixture(start, "CANC")
	change = Detect(prev, cancelled, detectNow)
	if change == nil || change.Type != TypeCancel {
		t.Fatalf("expected cancel, got %+v", change)
	}

	// Already-postponed fixtures moving within the family stay quiet.
	if change := Detect(postponed, baseFixture(start, "SUSP"), detectNow); change != nil {
		t.Fatalf("in-family transition produced %+v", change)
	}
}

func TestDetectScoreUpdate(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	one, two := 1, 2

	prev := baseFixture(start, "1H")
	prev.Score = fixture.Score{Home: &one, Away: nil}

	incoming := baseFixture(start, "2H")
	incoming.Score = fixture.Score{Home: &two, Away: nil}

	change := Detect(prev, incoming, detectNow)
	if change == nil || change.Type != TypeScoreUpdate {
		t.Fatalf("expected score_update, got %+v", change)
	}
	if *change.OldValue.HomeScore != 1 || *change.NewValue.HomeScore != 2 {
		t.Fatalf("score snapshot mismatch: %+v -> %+v", change.OldValue, change.NewValue)
	}

	// Incoming without any score never counts as a score update.
	blank := baseFixture(start, "NS")
	if change := Detect(prev, blank, detectNow); change != nil {
		t.Fatalf("nil incoming score produced %+v", change)
	}
}

func TestDetectIdempotent(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	prev := baseFixture(start, "NS")
	incoming := baseFixture(start.Add(time.Hour), "NS")

	first := Detect(prev, incoming, detectNow)
	second := Detect(prev, incoming, detectNow)
	if first == nil || second == nil {
		t.Fatal("expected changes from both runs")
	}
	if first.Type != second.Type || !first.NewValue.StartTime.Equal(*second.NewValue.StartTime) {
		t.Fatal("repeated detection diverged")
	}
}

func TestDetectNoChange(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	prev := baseFixture(start, "NS")
	if change := Detect(prev, prev, detectNow); change != nil {
		t.Fatalf("identical fixtures produced %+v", change)
	}
}
