package usecase_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/usecase"
)

type fakeUpstream struct {
	mu      sync.Mutex
	calls   int
	payload []byte
	err     error
}

func (f *fakeUpstream) Fetch(_ context.Context, _ fixture.Sport, _ string, _ map[string]string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

// DetectError mirrors the provider convention: any payload carrying the
// literal "errors" marker is an in-band failure, rate-limited when it
// also mentions "rate".
func (f *fakeUpstream) DetectError(payload []byte) (string, bool, bool) {
	text := string(payload)
	if !strings.Contains(text, `"provider_error"`) {
		return "", false, false
	}
	return text, strings.Contains(text, "rate"), true
}

func (f *fakeUpstream) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeNormalizer returns the same canned fixtures for every payload.
type fakeNormalizer struct {
	fixtures []fixture.Fixture
	err      error
}

func (f fakeNormalizer) ParseFixtures(_ fixture.Sport, _ []byte, _ time.Time) ([]fixture.Fixture, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]fixture.Fixture, len(f.fixtures))
	copy(out, f.fixtures)
	return out, nil
}

type fakeSecondarySource struct {
	supported map[int64]bool
	slots     []usecase.SecondarySlot
	err       error
	calls     int
}

func (f *fakeSecondarySource) SupportsLeague(leagueID int64) bool {
	return f.supported[leagueID]
}

func (f *fakeSecondarySource) FetchUndrawnKnockoutSlots(_ context.Context, _ int64, _ string) ([]usecase.SecondarySlot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }
