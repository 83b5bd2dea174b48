package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/usecase"
)

type participantDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

type scoreDTO struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type calendarEventDTO struct {
	ID          string          `json:"id"`
	Sport       string          `json:"sport"`
	LeagueID    int64           `json:"league_id"`
	LeagueName  string          `json:"league_name"`
	LeagueLogo  string          `json:"league_logo,omitempty"`
	Season      string          `json:"season"`
	Home        *participantDTO `json:"home"`
	Away        *participantDTO `json:"away"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     *time.Time      `json:"end_time,omitempty"`
	Status      string          `json:"status"`
	Venue       string          `json:"venue,omitempty"`
	Round       string          `json:"round,omitempty"`
	Score       scoreDTO        `json:"score"`
	Placeholder bool            `json:"placeholder"`
}

// ListCalendarEvents returns every stored fixture matching the caller's
// follows, ordered by start time.
func (h *Handler) ListCalendarEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCalendarEvents")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	events, err := h.calendarService.ListEvents(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list calendar events failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]calendarEventDTO, 0, len(events))
	for _, event := range events {
		items = append(items, fixtureToEventDTO(event))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

// GetCalendarFeed serves the ICS document for a feed token. Calendar
// clients poll this URL; the no-cache headers keep intermediaries from
// pinning an old copy between refreshes.
func (h *Handler) GetCalendarFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCalendarFeed")
	defer span.End()

	token := r.PathValue("token")

	payload, err := h.calendarService.RenderFeed(ctx, token)
	if err != nil {
		h.logger.WarnContext(ctx, "render calendar feed failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sportcal.ics"`)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func fixtureToEventDTO(f fixture.Fixture) calendarEventDTO {
	return calendarEventDTO{
		ID:          f.ID,
		Sport:       string(f.Sport),
		LeagueID:    f.LeagueID,
		LeagueName:  f.LeagueName,
		LeagueLogo:  f.LeagueLogo,
		Season:      f.Season,
		Home:        participantToDTO(f.Home),
		Away:        participantToDTO(f.Away),
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		Status:      f.Status,
		Venue:       f.Venue,
		Round:       f.Round,
		Score:       scoreDTO{Home: f.Score.Home, Away: f.Score.Away},
		Placeholder: f.IsPlaceholder(),
	}
}

func participantToDTO(p *fixture.Participant) *participantDTO {
	if p == nil {
		return nil
	}
	return &participantDTO{ID: p.ID, Name: p.Name, Logo: p.Logo}
}
