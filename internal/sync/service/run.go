package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"staysync/internal/sync/repository"
	"staysync/internal/sync/validator"
	syncerrors "staysync/pkg/errors"
	"staysync/pkg/logger"
	"staysync/pkg/model"
)

// Runner drives one full synchronization pass: fetch, reconcile, acknowledge
// and report, property by property. Properties are processed sequentially so
// unit assignments made for one reservation are visible to the next.
type Runner struct {
	// mu serializes runs: the unit claim set assumes a single writer, and a
	// manual gateway trigger can land while the cron run is in flight.
	mu sync.Mutex

	logger     *logger.Logger
	properties repository.PropertyRepository
	channel    ChannelClient
	reconciler *Reconciler
	units      *UnitResolver
	dispatcher *AckDispatcher
	notifier   Notifier
	validator  *validator.SyncValidator
}

func NewRunner(
	log *logger.Logger,
	properties repository.PropertyRepository,
	channel ChannelClient,
	reconciler *Reconciler,
	units *UnitResolver,
	notifier Notifier,
) *Runner {
	return &Runner{
		logger:     log,
		properties: properties,
		channel:    channel,
		reconciler: reconciler,
		units:      units,
		dispatcher: NewAckDispatcher(channel, log),
		notifier:   notifier,
		validator:  validator.NewSyncValidator(log),
	}
}

// Run synchronizes every active property, or only the one matching
// externalID when non-empty. A per-property failure never aborts the run;
// it is recorded in the report and the next property is processed.
// Concurrent triggers queue behind the in-flight run.
func (r *Runner) Run(ctx context.Context, externalID string) (*RunReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := uuid.NewString()
	log := r.logger.WithRun(runID)

	props, err := r.properties.FindActive(ctx)
	if err != nil {
		return nil, syncerrors.Internal("failed to load active properties", err)
	}
	if externalID != "" {
		props = filterByExternalID(props, externalID)
	}
	if len(props) == 0 {
		return nil, syncerrors.NotFound("active channel property")
	}

	r.units.Reset()
	report := &RunReport{}

	log.Info("sync run started", "properties", len(props))
	for _, prop := range props {
		r.syncProperty(ctx, prop, report, log.WithProperty(prop.ExternalID))
	}
	log.Info("sync run finished",
		"created", report.Created,
		"updated", report.Updated,
		"cancelled", report.Cancelled,
		"skipped", report.Skipped,
		"errors", report.ErrorCount,
		"warnings", report.WarningCount,
	)

	if err := r.notifier.PublishRunDigest(ctx, runID, report); err != nil {
		log.Error("failed to publish run digest", "error", err)
	}
	return report, nil
}

func (r *Runner) syncProperty(ctx context.Context, prop *model.ChannelProperty, report *RunReport, log *logger.Logger) {
	if err := r.validator.ValidateProperty(prop); err != nil {
		report.Errorf(prop.BackOffice, "property %s has an invalid channel configuration: %v", prop.Name, err)
		log.Error("property skipped, invalid configuration", "error", err)
		return
	}

	reservations, err := r.channel.FetchReservations(ctx, prop)
	if err != nil {
		report.Errorf(prop.BackOffice, "channel unreachable for property %s: %v", prop.Name, err)
		log.Error("fetch failed", "error", err)
		return
	}
	log.Info("reservations fetched", "count", len(reservations))

	queue := NewAckQueue()
	for i := range reservations {
		res := &reservations[i]
		if res.PropertyID != "" && res.PropertyID != prop.ExternalID {
			report.Warnf(prop.BackOffice, "reservation %s addressed to property %s arrived in the batch for %s, discarded", res.ID, res.PropertyID, prop.ExternalID)
			log.Warn("foreign reservation discarded", "reservation", res.ID, "addressed_to", res.PropertyID)
			continue
		}

		outcome := r.reconciler.Reconcile(ctx, prop, res)
		report.Merge(outcome.Report)
		if outcome.Ack {
			queue.Add(prop.ID, res.ID)
		}
	}

	r.dispatcher.Dispatch(ctx, prop, queue, report)
}

func filterByExternalID(props []*model.ChannelProperty, externalID string) []*model.ChannelProperty {
	var kept []*model.ChannelProperty
	for _, p := range props {
		if p.ExternalID == externalID {
			kept = append(kept, p)
		}
	}
	return kept
}
