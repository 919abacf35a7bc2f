package handler

import "github.com/julienschmidt/httprouter"

// GatewayHandler bundles the operator-facing endpoints behind a single
// route registrar for the application server.
type GatewayHandler struct {
	sync         *SyncHandler
	availability *AvailabilityHandler
}

func NewGatewayHandler(sync *SyncHandler, availability *AvailabilityHandler) *GatewayHandler {
	return &GatewayHandler{
		sync:         sync,
		availability: availability,
	}
}

func (h *GatewayHandler) RegisterRoutes(router *httprouter.Router) {
	h.sync.RegisterRoutes(router)
	h.availability.RegisterRoutes(router)
}
