package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"staysync/internal/sync/repository"
	"staysync/internal/sync/service"
	syncerrors "staysync/pkg/errors"
	httputil "staysync/pkg/http"
	"staysync/pkg/logger"
)

// AvailabilityHandler lets operators schedule availability pushes for an
// arbitrary date range, for example after a bulk inventory change.
type AvailabilityHandler struct {
	availability *service.AvailabilityService
	properties   repository.PropertyRepository
	log          *logger.Logger
}

func NewAvailabilityHandler(availability *service.AvailabilityService, properties repository.PropertyRepository, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		properties:   properties,
		log:          log,
	}
}

type availabilityPushResponse struct {
	Property  string `json:"property"`
	Scheduled int    `json:"scheduled"`
}

func (h *AvailabilityHandler) Push(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	externalID := r.URL.Query().Get("property")
	if externalID == "" {
		httputil.WriteError(w, syncerrors.Validation("property query parameter is required", nil))
		return
	}

	from, to, err := httputil.ExtractDateRange(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	prop, err := h.properties.FindByExternalID(r.Context(), externalID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	roomType := r.URL.Query().Get("room_type")

	created, err := h.availability.SchedulePushes(r.Context(), prop, from, to, roomType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteAccepted(w, availabilityPushResponse{
		Property:  externalID,
		Scheduled: created,
	})
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/availability/push", h.Push)
}
