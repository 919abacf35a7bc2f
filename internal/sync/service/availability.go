package service

import (
	"context"
	"time"

	"staysync/internal/sync/repository"
	"staysync/pkg/config"
	syncerrors "staysync/pkg/errors"
	"staysync/pkg/logger"
	"staysync/pkg/model"
)

// Task parameter keys.
const (
	paramPropertyID = "property_id"
	paramRoomType   = "room_type"
	paramDay        = "day"
	paramPaymentID  = "payment_id"
	paramPaymentRef = "payment_ref"
)

const dayFormat = "2006-01-02"

// AvailabilityService schedules and executes availability pushes. Pushes are
// never sent inline: each (day, room type) pair becomes a durable task whose
// run time is staggered to respect the channel's rate limits, and a cron
// trigger drains due tasks.
type AvailabilityService struct {
	cfg        *config.Config
	logger     *logger.Logger
	properties repository.PropertyRepository
	sojourns   repository.SojournRepository
	tasks      repository.TaskRepository
	channel    ChannelClient
}

func NewAvailabilityService(
	cfg *config.Config,
	log *logger.Logger,
	properties repository.PropertyRepository,
	sojourns repository.SojournRepository,
	tasks repository.TaskRepository,
	channel ChannelClient,
) *AvailabilityService {
	return &AvailabilityService{
		cfg:        cfg,
		logger:     log,
		properties: properties,
		sojourns:   sojourns,
		tasks:      tasks,
		channel:    channel,
	}
}

// SchedulePushes enqueues one push task per day in [from, to] and per active
// room type mapping, skipping pairs that already have a pending task. When
// roomType is non-empty only that mapping is scheduled. Returns the number
// of tasks created.
func (s *AvailabilityService) SchedulePushes(ctx context.Context, prop *model.ChannelProperty, from, to time.Time, roomType string) (int, error) {
	if to.Before(from) {
		return 0, syncerrors.Validation("availability range end before start", map[string]any{
			"from": from.Format(dayFormat),
			"to":   to.Format(dayFormat),
		})
	}

	now := time.Now().UTC()
	created := 0
	for day := dateOnly(from); !day.After(dateOnly(to)); day = day.AddDate(0, 0, 1) {
		for _, mapping := range prop.RoomTypeMappings {
			if !mapping.Active {
				continue
			}
			if roomType != "" && mapping.ExternalCode != roomType {
				continue
			}

			params := map[string]string{
				paramPropertyID: prop.ID,
				paramRoomType:   mapping.ExternalCode,
				paramDay:        day.Format(dayFormat),
			}
			exists, err := s.tasks.PendingExists(ctx, model.TaskAvailabilityPush, params)
			if err != nil {
				return created, err
			}
			if exists {
				continue
			}

			task := &model.ScheduledTask{
				Name:   model.TaskAvailabilityPush,
				RunAt:  now.Add(s.cfg.AvailabilityBaseDelay + time.Duration(created)*s.cfg.AvailabilityStagger),
				Params: params,
			}
			if err := s.tasks.Create(ctx, task); err != nil {
				return created, err
			}
			created++
		}
	}

	s.logger.Info("availability pushes scheduled",
		"property", prop.ExternalID,
		"from", dateOnly(from).Format(dayFormat),
		"to", dateOnly(to).Format(dayFormat),
		"created", created,
	)
	return created, nil
}

// ScheduleHorizon keeps the far edge of the channel's bookable window
// populated: for every active property it schedules the single day that just
// entered the horizon. Run daily, the rolling window stays fully covered.
func (s *AvailabilityService) ScheduleHorizon(ctx context.Context) error {
	props, err := s.properties.FindActive(ctx)
	if err != nil {
		return syncerrors.Internal("failed to load active properties", err)
	}

	edge := dateOnly(time.Now().UTC()).
		AddDate(s.cfg.AvailabilityHorizonYears, 0, -s.cfg.AvailabilityHorizonMargin)
	for _, prop := range props {
		if _, err := s.SchedulePushes(ctx, prop, edge, edge, ""); err != nil {
			s.logger.Error("failed to schedule horizon pushes",
				"property", prop.ExternalID,
				"error", err,
			)
		}
	}
	return nil
}

// ExecuteDue drains availability push tasks whose run time has passed.
// Other task names in the queue, like the PSP detail fetches consumed by the
// payments system, are left untouched. Push failures are not retried inline;
// the task is rescheduled one stagger interval out so a transient channel
// outage does not silently drop a day.
func (s *AvailabilityService) ExecuteDue(ctx context.Context, now time.Time, limit int) (int, error) {
	due, err := s.tasks.FindDue(ctx, model.TaskAvailabilityPush, now, limit)
	if err != nil {
		return 0, err
	}

	executed := 0
	for _, task := range due {
		if err := s.executePush(ctx, task); err != nil {
			s.logger.Warn("task failed, rescheduled", "task", task.ID, "error", err)
			if err := s.tasks.Reschedule(ctx, task.ID, now.Add(s.cfg.AvailabilityStagger)); err != nil {
				s.logger.Error("failed to reschedule task", "task", task.ID, "error", err)
			}
			continue
		}
		if err := s.tasks.MarkDone(ctx, task.ID); err != nil {
			s.logger.Error("failed to complete task", "task", task.ID, "error", err)
			continue
		}
		executed++
	}
	return executed, nil
}

func (s *AvailabilityService) executePush(ctx context.Context, task *model.ScheduledTask) error {
	day, err := time.Parse(dayFormat, task.Params[paramDay])
	if err != nil {
		return syncerrors.Validation("task carries an unparsable day", map[string]any{
			"task": task.ID,
			"day":  task.Params[paramDay],
		})
	}
	roomType := task.Params[paramRoomType]

	prop, err := s.properties.FindByID(ctx, task.Params[paramPropertyID])
	if err != nil {
		return err
	}
	mapping := prop.RoomTypeMapping(roomType)
	if mapping == nil || !mapping.Active {
		return syncerrors.NotFoundWithID("active room type mapping", roomType)
	}

	free, err := s.freeUnits(ctx, mapping, day)
	if err != nil {
		return err
	}
	return s.channel.PushAvailability(ctx, prop, roomType, day, free)
}

// freeUnits counts units of the mapping with no consumption touching the
// night starting on day.
func (s *AvailabilityService) freeUnits(ctx context.Context, mapping *model.RoomTypeMapping, day time.Time) (int, error) {
	if len(mapping.UnitIDs) == 0 {
		return 0, nil
	}

	overlapping, err := s.sojourns.OverlappingConsumptions(ctx, mapping.UnitIDs, day, day.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}

	busy := make(map[string]bool, len(overlapping))
	for _, c := range overlapping {
		busy[c.UnitID] = true
	}
	free := 0
	for _, id := range mapping.UnitIDs {
		if !busy[id] {
			free++
		}
	}
	return free, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
