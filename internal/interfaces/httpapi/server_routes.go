package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerProxyRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/sports/{sport}/{endpoint...}", handler.ProxySportsData)
}

func registerCalendarRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/calendar/events", RequireAuth(verifier, http.HandlerFunc(handler.ListCalendarEvents)))
	// The token in the path is the sole credential for feed readers;
	// calendar apps cannot send Authorization headers.
	mux.HandleFunc("GET /v1/calendar/feed/{token}", handler.GetCalendarFeed)
}

func registerSyncRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, syncCronSecret string) {
	mux.Handle("POST /v1/sync", RequireSyncAuth(verifier, syncCronSecret, http.HandlerFunc(handler.TriggerSync)))
	mux.Handle("GET /v1/sync/status", RequireAuth(verifier, http.HandlerFunc(handler.GetSyncStatus)))
}
