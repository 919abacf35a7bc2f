package service

import (
	"context"
	"time"

	"staysync/pkg/model"
)

// ChannelClient is the outbound channel surface the sync services depend
// on; internal/channel/client provides the production implementation.
type ChannelClient interface {
	FetchReservations(ctx context.Context, prop *model.ChannelProperty) ([]model.ExternalReservation, error)
	PushAvailability(ctx context.Context, prop *model.ChannelProperty, roomTypeCode string, day time.Time, bookingLimit int) error
	AckReservations(ctx context.Context, prop *model.ChannelProperty, reservationIDs []string) error
}
