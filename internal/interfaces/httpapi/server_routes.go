package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerInternalSyncRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/sync/fixtures", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SyncFixtures)))
	mux.Handle("GET /v1/internal/sync/runs", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListSyncRuns)))
	mux.Handle("GET /v1/internal/sync/runs/{runID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetSyncRun)))
}
