package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/usecase"
)

// ProxySportsData serves the provider's payload for any endpoint through
// the response cache, byte for byte. Clients see exactly what the
// provider returned, just without burning the upstream quota.
func (h *Handler) ProxySportsData(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProxySportsData")
	defer span.End()

	sport, err := fixture.ParseSport(r.PathValue("sport"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	endpoint := r.PathValue("endpoint")
	if endpoint == "" {
		writeError(ctx, w, fmt.Errorf("%w: endpoint is required", usecase.ErrInvalidInput))
		return
	}

	params := make(map[string]string, len(r.URL.Query()))
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			params[name] = values[0]
		}
	}

	payload, err := h.proxyService.GetOrFetch(ctx, sport, endpoint, params)
	if err != nil {
		h.logger.WarnContext(ctx, "proxy fetch failed", "sport", sport, "endpoint", endpoint, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
