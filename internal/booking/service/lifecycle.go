// Package service implements the booking lifecycle operations the sync
// engine collaborates with: cancellation, confirmation and consumption
// rebuilds. Guards are pure functions of origin and status.
package service

import (
	"context"

	"staysync/internal/sync/repository"
	syncerrors "staysync/pkg/errors"
	"staysync/pkg/logger"
	"staysync/pkg/model"
)

type Lifecycle interface {
	Cancel(ctx context.Context, bookingID, reason string) error
	Confirm(ctx context.Context, bookingID string, instantPayment bool) error
	RecreateConsumptions(ctx context.Context, bookingID string) error
}

type lifecycleService struct {
	bookings repository.BookingRepository
	sojourns repository.SojournRepository
	finance  repository.FinanceRepository
	logger   *logger.Logger
}

func NewLifecycle(
	bookings repository.BookingRepository,
	sojourns repository.SojournRepository,
	finance repository.FinanceRepository,
	log *logger.Logger,
) Lifecycle {
	return &lifecycleService{
		bookings: bookings,
		sojourns: sojourns,
		finance:  finance,
		logger:   log,
	}
}

// Cancel moves the booking to cancelled and frees its occupancy. The
// calendar is released; financial records stay for audit.
func (s *lifecycleService) Cancel(ctx context.Context, bookingID, reason string) error {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !booking.Cancellable() {
		return syncerrors.Conflict("booking cannot be cancelled in status " + string(booking.Status))
	}

	if err := s.bookings.SetStatus(ctx, bookingID, model.StatusCancelled); err != nil {
		return err
	}
	if err := s.sojourns.DeleteConsumptionsByBooking(ctx, bookingID); err != nil {
		return err
	}

	s.logger.Info("booking cancelled", "booking", bookingID, "reason", reason)
	return nil
}

// Confirm advances an option to confirmed. With instant-payment semantics
// the amount still due is materialized as a funding so the money owed is
// visible immediately; callers that already booked channel payments prune
// the redundant zero-payment funding afterwards.
func (s *lifecycleService) Confirm(ctx context.Context, bookingID string, instantPayment bool) error {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	switch booking.Status {
	case model.StatusDraft, model.StatusOption:
	default:
		return syncerrors.Conflict("booking cannot be confirmed in status " + string(booking.Status))
	}

	if err := s.bookings.SetStatus(ctx, bookingID, model.StatusConfirmed); err != nil {
		return err
	}

	// Confirmation issues the legal contract unless one is already active.
	if _, err := s.bookings.ActiveContractByBooking(ctx, bookingID); err != nil {
		if !syncerrors.IsNotFound(err) {
			return err
		}
		contract := &model.Contract{BookingID: bookingID, Status: model.ContractActive}
		if err := s.bookings.CreateContract(ctx, contract); err != nil {
			return err
		}
	}

	if instantPayment {
		fundings, err := s.finance.FundingsByBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		var funded float64
		for _, funding := range fundings {
			funded += funding.Amount
		}
		if remainder := booking.Total - funded; remainder > 0 {
			funding := &model.Funding{
				BookingID: bookingID,
				Amount:    remainder,
				Origin:    model.OriginInternal,
			}
			if err := s.finance.CreateFunding(ctx, funding); err != nil {
				return err
			}
		}
	}

	s.logger.Info("booking confirmed", "booking", bookingID, "instant_payment", instantPayment)
	return nil
}

// RecreateConsumptions rebuilds the occupancy records from the sojourn
// groups that carry a unit assignment.
func (s *lifecycleService) RecreateConsumptions(ctx context.Context, bookingID string) error {
	if err := s.sojourns.DeleteConsumptionsByBooking(ctx, bookingID); err != nil {
		return err
	}

	groups, err := s.sojourns.GroupsByBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	for _, group := range groups {
		if group.UnitID == "" {
			continue
		}
		consumption := &model.Consumption{
			BookingID: bookingID,
			GroupID:   group.ID,
			UnitID:    group.UnitID,
			Start:     group.Start,
			End:       group.End,
			Quantity:  1,
		}
		if err := s.sojourns.CreateConsumption(ctx, consumption); err != nil {
			return err
		}
	}
	return nil
}
