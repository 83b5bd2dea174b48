package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/sportcal/internal/usecase"
)

type Handler struct {
	proxyService    *usecase.ProxyService
	syncService     *usecase.SyncService
	calendarService *usecase.CalendarService
	logger          *slog.Logger
	validator       *validator.Validate
}

func NewHandler(
	proxyService *usecase.ProxyService,
	syncService *usecase.SyncService,
	calendarService *usecase.CalendarService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		proxyService:    proxyService,
		syncService:     syncService,
		calendarService: calendarService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
