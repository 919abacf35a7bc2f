package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"staysync/internal/sync/service"
	httputil "staysync/pkg/http"
	"staysync/pkg/logger"
)

// SyncHandler exposes the reconciliation run as an HTTP trigger so
// operators can force a sync outside the cron schedule.
type SyncHandler struct {
	runner *service.Runner
	log    *logger.Logger
}

func NewSyncHandler(runner *service.Runner, log *logger.Logger) *SyncHandler {
	return &SyncHandler{
		runner: runner,
		log:    log,
	}
}

func (h *SyncHandler) Run(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	externalID := r.URL.Query().Get("property")

	report, err := h.runner.Run(r.Context(), externalID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, report)
}

func (h *SyncHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/sync/run", h.Run)
}
