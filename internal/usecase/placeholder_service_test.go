package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/platform/logging"
	"github.com/riskibarqy/sportcal/internal/usecase"
)

func TestPlaceholderService_StaticCatalogue(t *testing.T) {
	t.Parallel()

	svc := usecase.NewPlaceholderService(nil, logging.NewNop())

	rows, err := svc.Generate(context.Background(), 1, "2026")
	require.NoError(t, err)
	require.Len(t, rows, 32)

	var finals int
	for _, row := range rows {
		require.True(t, row.IsPlaceholder(), "id %s", row.ID)
		require.Equal(t, fixture.SportFootball, row.Sport)
		require.Nil(t, row.Home)
		require.Nil(t, row.Away)
		require.Equal(t, "NS", row.Status)
		require.EqualValues(t, 21600, row.TTLSeconds)
		if row.Round == "Final" {
			finals++
			require.NotEmpty(t, row.Venue)
		}
	}
	require.Equal(t, 1, finals)
}

func TestPlaceholderService_UnknownLeagueYieldsNothing(t *testing.T) {
	t.Parallel()

	svc := usecase.NewPlaceholderService(nil, logging.NewNop())

	rows, err := svc.Generate(context.Background(), 39, "2025")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestPlaceholderService_SecondarySourceAugmentsCatalogue(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 5, 30, 20, 0, 0, 0, time.UTC)
	secondary := &fakeSecondarySource{
		supported: map[int64]bool{2: true},
		slots: []usecase.SecondarySlot{
			{MatchID: 5551, CompetitionName: "UEFA Champions League", Round: "Final", StartTime: start},
		},
	}
	svc := usecase.NewPlaceholderService(secondary, logging.NewNop())

	rows, err := svc.Generate(context.Background(), 2, "2025")
	require.NoError(t, err)
	require.Equal(t, 1, secondary.calls)

	var found bool
	for _, row := range rows {
		if row.ID == "fdo_5551" {
			found = true
			require.Equal(t, "Final", row.Round)
			require.True(t, row.StartTime.Equal(start))
			require.Equal(t, "UEFA Champions League", row.LeagueName)
		}
	}
	require.True(t, found, "secondary slot missing from generated rows")
}

func TestPlaceholderService_SecondarySourceSkippedForUnsupportedLeague(t *testing.T) {
	t.Parallel()

	secondary := &fakeSecondarySource{supported: map[int64]bool{2: true}}
	svc := usecase.NewPlaceholderService(secondary, logging.NewNop())

	_, err := svc.Generate(context.Background(), 1, "2026")
	require.NoError(t, err)
	require.Zero(t, secondary.calls)
}

func TestPlaceholderService_SecondaryFailureStillReturnsStaticRows(t *testing.T) {
	t.Parallel()

	secondary := &fakeSecondarySource{
		supported: map[int64]bool{1: true},
		err:       errors.New("upstream 403"),
	}
	svc := usecase.NewPlaceholderService(secondary, logging.NewNop())

	rows, err := svc.Generate(context.Background(), 1, "2026")
	require.Error(t, err)
	require.Len(t, rows, 32)
}
