package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/sportcal/internal/domain/fixturechange"
	"github.com/riskibarqy/sportcal/internal/usecase"
)

type triggerSyncRequest struct {
	// TimeoutSeconds bounds one run; zero means no explicit bound.
	TimeoutSeconds int `json:"timeout_seconds" validate:"omitempty,gte=1,lte=600"`
}

// TriggerSync runs one synchronization pass and reports its summary.
// The run executes inline; the scheduler's timeout is the backstop.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerSync")
	defer span.End()

	var req triggerSyncRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read request body", usecase.ErrInvalidInput))
		return
	}
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, &req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: malformed request body", usecase.ErrInvalidInput))
			return
		}
		if err := h.validator.Struct(req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
			return
		}
	}

	runCtx := ctx
	if req.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	result, err := h.syncService.Sync(runCtx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync run failed", "error", err)
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			writeError(ctx, w, fmt.Errorf("%w: sync timed out", usecase.ErrDependencyUnavailable))
			return
		}
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "sync run finished",
		"synced", result.Synced,
		"new", result.New,
		"updated", result.Updated,
		"changes", result.Changes,
		"errors", len(result.Errors),
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

type fixtureChangeDTO struct {
	ID         int64                 `json:"id"`
	Sport      string                `json:"sport"`
	FixtureID  string                `json:"fixture_id"`
	Type       string                `json:"type"`
	OldValue   fixturechange.Snapshot `json:"old_value"`
	NewValue   fixturechange.Snapshot `json:"new_value"`
	DetectedAt time.Time             `json:"detected_at"`
}

type syncStatusDTO struct {
	Changes     []fixtureChangeDTO `json:"changes"`
	CachedCount int64              `json:"cached_count"`
}

// GetSyncStatus reports the recent change log and cache size, the data
// behind the notification surface.
func (h *Handler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncStatus")
	defer span.End()

	status, err := h.syncService.Status(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get sync status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	changes := make([]fixtureChangeDTO, 0, len(status.Changes))
	for _, change := range status.Changes {
		changes = append(changes, fixtureChangeDTO{
			ID:         change.ID,
			Sport:      string(change.Sport),
			FixtureID:  change.FixtureID,
			Type:       string(change.Type),
			OldValue:   change.OldValue,
			NewValue:   change.NewValue,
			DetectedAt: change.DetectedAt,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, syncStatusDTO{
		Changes:     changes,
		CachedCount: status.CachedCount,
	})
}
