package service

import (
	"context"

	"staysync/pkg/logger"
	"staysync/pkg/model"
)

// AckQueue collects reservation ids to acknowledge, grouped per property. A
// reservation is admitted only after its reconciliation finished without an
// uncaught failure; warnings do not block admission.
type AckQueue struct {
	byProperty map[string][]string
}

func NewAckQueue() *AckQueue {
	return &AckQueue{byProperty: make(map[string][]string)}
}

func (q *AckQueue) Add(propertyID, reservationID string) {
	q.byProperty[propertyID] = append(q.byProperty[propertyID], reservationID)
}

func (q *AckQueue) Pending(propertyID string) []string {
	return q.byProperty[propertyID]
}

// AckDispatcher sends one acknowledgment request per property with queued
// ids. A failed acknowledgment only loses the channel's "seen" marker; the
// local state is already committed, so failures downgrade to warnings.
type AckDispatcher struct {
	channel ChannelClient
	logger  *logger.Logger
}

func NewAckDispatcher(channel ChannelClient, log *logger.Logger) *AckDispatcher {
	return &AckDispatcher{channel: channel, logger: log}
}

func (d *AckDispatcher) Dispatch(ctx context.Context, prop *model.ChannelProperty, queue *AckQueue, report *RunReport) {
	ids := queue.Pending(prop.ID)
	if len(ids) == 0 {
		return
	}

	if err := d.channel.AckReservations(ctx, prop, ids); err != nil {
		d.logger.Warn("failed to acknowledge reservations",
			"property", prop.ExternalID,
			"count", len(ids),
			"error", err,
		)
		report.Warnf(prop.BackOffice, "property %s: %d reservation(s) processed but not acknowledged", prop.ExternalID, len(ids))
		return
	}

	d.logger.Info("acknowledged reservations", "property", prop.ExternalID, "count", len(ids))
}
