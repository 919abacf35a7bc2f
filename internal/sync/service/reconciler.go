package service

import (
	"context"
	"fmt"
	"time"

	bookingservice "staysync/internal/booking/service"
	"staysync/internal/channel/codec"
	"staysync/internal/sync/repository"
	"staysync/internal/sync/validator"
	"staysync/pkg/config"
	syncerrors "staysync/pkg/errors"
	"staysync/pkg/logger"
	"staysync/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const cancelReasonExternal = "external-origin"

// OverbookingAlert names the persistent alert raised when no free rental
// unit could be resolved for a room stay.
const OverbookingAlert = "overbooking"

// Outcome is the result of reconciling one reservation. Ack admission is
// strict: true only when no uncaught failure occurred; warnings are fine.
type Outcome struct {
	Ack    bool
	Report RunReport
}

// Reconciler applies one external reservation to local booking state:
// create, update or cancel, with full unwind of partially built new
// bookings on failure.
type Reconciler struct {
	cfg       *config.Config
	logger    *logger.Logger
	bookings  repository.BookingRepository
	sojourns  repository.SojournRepository
	finance   repository.FinanceRepository
	rates     repository.RateRepository
	tasks     repository.TaskRepository
	alerts    repository.AlertRepository
	units     *UnitResolver
	customers *CustomerResolver
	lifecycle bookingservice.Lifecycle
	validator *validator.SyncValidator
}

func NewReconciler(
	cfg *config.Config,
	log *logger.Logger,
	bookings repository.BookingRepository,
	sojourns repository.SojournRepository,
	finance repository.FinanceRepository,
	rates repository.RateRepository,
	tasks repository.TaskRepository,
	alerts repository.AlertRepository,
	units *UnitResolver,
	customers *CustomerResolver,
	lifecycle bookingservice.Lifecycle,
) *Reconciler {
	return &Reconciler{
		cfg:       cfg,
		logger:    log,
		bookings:  bookings,
		sojourns:  sojourns,
		finance:   finance,
		rates:     rates,
		tasks:     tasks,
		alerts:    alerts,
		units:     units,
		customers: customers,
		lifecycle: lifecycle,
		validator: validator.NewSyncValidator(log),
	}
}

// Reconcile runs the per-reservation state machine.
func (r *Reconciler) Reconcile(ctx context.Context, prop *model.ChannelProperty, res *model.ExternalReservation) Outcome {
	var report RunReport
	log := r.logger.WithProperty(prop.ExternalID)

	if err := r.validator.ValidateReservation(res); err != nil {
		report.Errorf(prop.BackOffice, "reservation %s rejected: %v", res.ID, err)
		return Outcome{Ack: false, Report: report}
	}

	existing, err := r.bookings.FindByChannelRef(ctx, prop.ID, res.ID)
	if err != nil && !syncerrors.IsNotFound(err) {
		report.Errorf(prop.BackOffice, "reservation %s: booking lookup failed: %v", res.ID, err)
		return Outcome{Ack: false, Report: report}
	}

	if res.Cancelled() {
		r.reconcileCancellation(ctx, prop, res, existing, &report, log)
		return Outcome{Ack: true, Report: report}
	}

	return r.reconcileActive(ctx, prop, res, existing, log)
}

func (r *Reconciler) reconcileCancellation(ctx context.Context, prop *model.ChannelProperty, res *model.ExternalReservation, existing *model.Booking, report *RunReport, log *logger.Logger) {
	if existing == nil {
		report.Skipped++
		report.Warnf(prop.BackOffice, "reservation %s: cancellation received for unknown reservation", res.ID)
		log.Warn("cannot cancel unknown reservation", "reservation", res.ID)
		return
	}

	if err := r.lifecycle.Cancel(ctx, existing.ID, cancelReasonExternal); err != nil {
		report.Warnf(prop.BackOffice, "reservation %s: cancellation failed: %v", res.ID, err)
		log.Warn("booking cancellation failed", "reservation", res.ID, "booking", existing.ID, "error", err)
		return
	}

	if err := r.alerts.Resolve(ctx, OverbookingAlert, existing.ID); err != nil {
		log.Warn("failed to resolve overbooking alert", "booking", existing.ID, "error", err)
	}

	report.Cancelled++
	log.Info("booking cancelled from channel", "reservation", res.ID, "booking", existing.ID)
}

func (r *Reconciler) reconcileActive(ctx context.Context, prop *model.ChannelProperty, res *model.ExternalReservation, existing *model.Booking, log *logger.Logger) Outcome {
	var report RunReport

	start, end := r.stayWindow(prop, res)
	isNew := existing == nil

	if !isNew && !existing.Modifiable() {
		// Staff own the booking past validation; the channel's change is
		// dropped but still acknowledged so it stops being re-delivered.
		report.Skipped++
		report.Warnf(prop.BackOffice, "reservation %s: booking %s in status %s cannot be modified", res.ID, existing.ID, existing.Status)
		log.Warn("incompatible booking status for modification", "reservation", res.ID, "status", existing.Status)
		return Outcome{Ack: true, Report: report}
	}

	customer, identity, err := r.customers.Resolve(ctx, res.Customer)
	if err != nil {
		report.Errorf(prop.BackOffice, "reservation %s: customer resolution failed: %v", res.ID, err)
		return Outcome{Ack: false, Report: report}
	}

	var booking *model.Booking
	if isNew {
		booking = &model.Booking{
			PropertyID:  prop.ID,
			ChannelRef:  res.ID,
			Origin:      model.OriginChannel,
			Status:      model.StatusDraft,
			BookingType: model.BookingTypeOTA,
			CustomerID:  customer.ID,
			Start:       start,
			End:         end,
			Total:       res.Total,
		}
		if r.cfg.IsOTAPartner(res.PartnerID) {
			booking.TourOperatorRef = res.PartnerID
		}
		if err := r.bookings.Create(ctx, booking); err != nil {
			report.Errorf(prop.BackOffice, "reservation %s: booking creation failed: %v", res.ID, err)
			return Outcome{Ack: false, Report: report}
		}
	} else {
		booking = existing
		if err := r.resetToEditable(ctx, booking); err != nil {
			report.Errorf(prop.BackOffice, "reservation %s: booking reset failed: %v", res.ID, err)
			return Outcome{Ack: false, Report: report}
		}
		booking.CustomerID = customer.ID
		booking.Start, booking.End = start, end
		booking.Total = res.Total
		booking.Overbooked = false
	}

	var claimed []string
	if err := r.build(ctx, prop, res, booking, identity, &report, &claimed); err != nil {
		if isNew {
			r.unwind(ctx, booking.ID, log)
			r.units.Release(claimed)
		}
		report.Errorf(prop.BackOffice, "reservation %s: reconciliation failed: %v", res.ID, err)
		log.Error("reconciliation failed", "reservation", res.ID, "new_booking", isNew, "error", err)
		return Outcome{Ack: false, Report: report}
	}

	if isNew {
		report.Created++
	} else {
		report.Updated++
	}

	// A fresh booking whose every room stay arrived cancel-flagged is kept
	// for audit but immediately cancelled.
	if isNew && activeStays(res) == 0 {
		if err := r.lifecycle.Cancel(ctx, booking.ID, cancelReasonExternal); err != nil {
			report.Warnf(prop.BackOffice, "reservation %s: post-creation cancellation failed: %v", res.ID, err)
		} else {
			report.Created--
			report.Cancelled++
		}
	}

	log.Info("reservation reconciled", "reservation", res.ID, "booking", booking.ID, "new", isNew)
	return Outcome{Ack: true, Report: report}
}

// resetToEditable rewinds a confirmed or validated booking so the inbound
// modification can be applied as a rebuild: status back to draft, contract
// voided for audit, derived sub-objects deleted. Payments and fundings
// created by staff are kept; only channel-originated ones go. The cascade
// spans four collections, so it runs in one transaction.
func (r *Reconciler) resetToEditable(ctx context.Context, booking *model.Booking) error {
	err := r.bookings.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := r.bookings.SetStatus(sc, booking.ID, model.StatusDraft); err != nil {
			return err
		}
		if err := r.bookings.VoidContractsByBooking(sc, booking.ID); err != nil {
			return err
		}
		if err := r.sojourns.DeleteLinesByBooking(sc, booking.ID); err != nil {
			return err
		}
		if err := r.sojourns.DeleteGroupsByBooking(sc, booking.ID); err != nil {
			return err
		}
		if err := r.customers.DeleteContactsByBooking(sc, booking.ID); err != nil {
			return err
		}
		if err := r.sojourns.DeleteConsumptionsByBooking(sc, booking.ID); err != nil {
			return err
		}
		if err := r.finance.DeleteChannelPaymentsByBooking(sc, booking.ID); err != nil {
			return err
		}
		return r.finance.DeleteChannelFundingsByBooking(sc, booking.ID)
	})
	if err != nil {
		return err
	}
	booking.Status = model.StatusDraft
	return nil
}

// build creates the booking's sub-objects and walks it forward through the
// lifecycle. Any returned error is an uncaught reconciliation failure; the
// caller unwinds new bookings.
func (r *Reconciler) build(ctx context.Context, prop *model.ChannelProperty, res *model.ExternalReservation, booking *model.Booking, identity *model.Identity, report *RunReport, claimed *[]string) error {
	overbooked, err := r.buildRoomStays(ctx, prop, res, booking, claimed)
	if err != nil {
		return err
	}
	booking.Overbooked = overbooked

	if err := r.buildExtras(ctx, prop, res, booking); err != nil {
		return err
	}
	if err := r.ensureCityTax(ctx, prop, res, booking); err != nil {
		return err
	}
	if err := r.buildFinance(ctx, res, booking); err != nil {
		return err
	}

	extraContacts, err := r.buildContacts(ctx, res, booking, identity)
	if err != nil {
		return err
	}

	if err := r.bookings.Update(ctx, booking); err != nil {
		return err
	}

	if err := r.advance(ctx, prop, res, booking, report); err != nil {
		return err
	}

	if extraContacts > 0 {
		// Advisory only: a stale manifest never fails a reservation.
		r.logger.Info("regenerating stay manifest", "booking", booking.ID, "extra_contacts", extraContacts)
	}

	if booking.Overbooked {
		alert := &model.Alert{
			Name:       OverbookingAlert,
			Scope:      booking.ID,
			BackOffice: prop.BackOffice,
			Message:    "no free rental unit for reservation " + res.ID,
		}
		if err := r.alerts.Raise(ctx, alert); err != nil {
			return err
		}
		report.Warnf(prop.BackOffice, "reservation %s: overbooked, sojourn kept without rental unit", res.ID)
	} else if err := r.alerts.Resolve(ctx, OverbookingAlert, booking.ID); err != nil {
		return err
	}

	if err := r.pruneRedundantFundings(ctx, res, booking); err != nil {
		return err
	}
	return r.applyGuarantee(ctx, res, booking)
}

func (r *Reconciler) buildRoomStays(ctx context.Context, prop *model.ChannelProperty, res *model.ExternalReservation, booking *model.Booking, claimed *[]string) (bool, error) {
	overbooked := false

	for i := range res.RoomStays {
		stay := &res.RoomStays[i]
		if stay.Cancelled {
			continue
		}

		mapping := prop.RoomTypeMapping(stay.RoomTypeCode)
		if mapping == nil || !mapping.Active {
			return false, syncerrors.Reconciliation("no active room type mapping for "+stay.RoomTypeCode, nil)
		}

		unit, err := r.units.Resolve(ctx, mapping, booking.Start, booking.End, stay.Guests())
		if err != nil {
			return false, err
		}
		unitID := ""
		if unit == nil {
			overbooked = true
		} else {
			unitID = unit.ID
			*claimed = append(*claimed, unit.ID)
		}

		group := &model.SojournGroup{
			BookingID: booking.ID,
			ProductID: mapping.ProductID,
			UnitID:    unitID,
			Start:     booking.Start,
			End:       booking.End,
			Adults:    stay.Adults,
			Children:  stay.Children,
			Babies:    stay.Babies,
			Total:     stay.Total,
		}
		if err := r.sojourns.CreateGroup(ctx, group); err != nil {
			return false, err
		}

		vatRate, err := r.vatRate(ctx, prop, mapping.ProductID, group)
		if err != nil {
			return false, err
		}

		nights := group.Nights()
		if nights < 1 {
			nights = 1
		}
		line := &model.ServiceLine{
			BookingID:    booking.ID,
			GroupID:      group.ID,
			ProductID:    mapping.ProductID,
			Kind:         model.LineAccommodation,
			Label:        stay.RoomTypeCode,
			Quantity:     nights,
			TotalInclTax: stay.Total,
			TotalExclTax: exclTax(stay.Total, vatRate),
			VATRate:      vatRate,
		}
		if err := r.sojourns.CreateLine(ctx, line); err != nil {
			return false, err
		}

		// Breakfast rides along at zero amount when the property maps it;
		// the channel folds its price into the accommodation total.
		if breakfast := prop.ExtraServiceMapping(r.cfg.BreakfastCode); breakfast != nil {
			breakfastLine := &model.ServiceLine{
				BookingID: booking.ID,
				GroupID:   group.ID,
				ProductID: breakfast.ProductID,
				Kind:      model.LineBreakfast,
				Label:     r.cfg.BreakfastCode,
				Quantity:  group.Guests() * nights,
				VATRate:   vatRate,
			}
			if err := r.sojourns.CreateLine(ctx, breakfastLine); err != nil {
				return false, err
			}
		}
	}

	return overbooked, nil
}

// vatRate picks the applicable rate list for the stay; prices come from the
// channel, only the VAT rate is read locally.
func (r *Reconciler) vatRate(ctx context.Context, prop *model.ChannelProperty, productID string, group *model.SojournGroup) (float64, error) {
	lists, err := r.rates.ListsForStay(ctx, prop.ID, productID, group.Start, group.End)
	if err != nil {
		return 0, err
	}
	nights := group.Nights()
	for _, list := range lists {
		if list.Covers(group.Start, group.End, nights) {
			return list.VATRate, nil
		}
	}
	return 0, syncerrors.Reconciliation("no rate list covers the stay for product "+productID, nil)
}

func (r *Reconciler) buildExtras(ctx context.Context, prop *model.ChannelProperty, res *model.ExternalReservation, booking *model.Booking) error {
	for _, svc := range res.Services {
		kind := model.LineExtra
		if svc.Code == r.cfg.CityTaxProductCode {
			kind = model.LineCityTax
		}

		productID := r.cfg.CityTaxProductCode
		mapping := prop.ExtraServiceMapping(svc.Code)
		if mapping != nil {
			productID = mapping.ProductID
		} else if kind == model.LineExtra {
			// Extras are not best-effort: an unmapped service aborts the
			// whole reservation. City tax is the one code priced without a
			// property-level mapping.
			return syncerrors.Reconciliation("no extra service mapping for "+svc.Code, nil)
		}

		vatRate := 0.0
		if kind == model.LineExtra {
			lists, err := r.rates.ListsForStay(ctx, booking.PropertyID, productID, booking.Start, booking.End)
			if err != nil {
				return err
			}
			if len(lists) == 0 {
				return syncerrors.Reconciliation("no rate list for extra service "+svc.Code, nil)
			}
			vatRate = lists[0].VATRate
		}

		line := &model.ServiceLine{
			BookingID:    booking.ID,
			ProductID:    productID,
			Kind:         kind,
			Label:        svc.Code,
			Quantity:     svc.Quantity,
			TotalInclTax: svc.Amount,
			TotalExclTax: exclTax(svc.Amount, vatRate),
			VATRate:      vatRate,
		}
		if err := r.sojourns.CreateLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// ensureCityTax synthesizes the mandatory city-tax line when the channel
// omitted it and adds the amount to the booking total.
func (r *Reconciler) ensureCityTax(ctx context.Context, prop *model.ChannelProperty, res *model.ExternalReservation, booking *model.Booking) error {
	for _, svc := range res.Services {
		if svc.Code == r.cfg.CityTaxProductCode {
			return nil
		}
	}

	occupancy := 0
	nights := 0
	for _, stay := range res.RoomStays {
		if stay.Cancelled {
			continue
		}
		occupancy += stay.Guests()
	}
	if occupancy == 0 {
		return nil
	}
	nights = int(booking.End.Sub(booking.Start).Hours() / 24)
	if nights < 1 {
		nights = 1
	}

	amount := r.cfg.CityTaxRate * float64(occupancy) * float64(nights)
	line := &model.ServiceLine{
		BookingID:    booking.ID,
		ProductID:    r.cfg.CityTaxProductCode,
		Kind:         model.LineCityTax,
		Label:        r.cfg.CityTaxProductCode,
		Quantity:     occupancy * nights,
		TotalInclTax: amount,
		TotalExclTax: amount,
	}
	if err := r.sojourns.CreateLine(ctx, line); err != nil {
		return err
	}

	booking.Total += amount
	return nil
}

func (r *Reconciler) buildFinance(ctx context.Context, res *model.ExternalReservation, booking *model.Booking) error {
	funding := &model.Funding{
		BookingID: booking.ID,
		Amount:    booking.Total,
		Origin:    model.OriginChannel,
	}
	if err := r.finance.CreateFunding(ctx, funding); err != nil {
		return err
	}

	for _, payment := range res.Payments {
		record := &model.Payment{
			BookingID:         booking.ID,
			FundingID:         funding.ID,
			Amount:            payment.Amount,
			Method:            payment.Method,
			Origin:            model.OriginChannel,
			ChannelPaymentRef: payment.Ref,
			PaidAt:            payment.At,
		}
		if err := r.finance.CreatePayment(ctx, record); err != nil {
			return err
		}

		if payment.Ref != "" {
			task := &model.ScheduledTask{
				Name:  model.TaskPSPDetailFetch,
				RunAt: time.Now().UTC().Add(r.cfg.PSPDetailDelay),
				Params: map[string]string{
					paramPaymentID:  record.ID,
					paramPaymentRef: payment.Ref,
				},
			}
			if err := r.tasks.Create(ctx, task); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Reconciler) buildContacts(ctx context.Context, res *model.ExternalReservation, booking *model.Booking, identity *model.Identity) (int, error) {
	primary := &model.Contact{
		BookingID:  booking.ID,
		IdentityID: identity.ID,
		Role:       model.ContactPrimary,
	}
	if err := r.customers.CreateContact(ctx, primary); err != nil {
		return 0, err
	}

	extra := 0
	for _, profile := range res.Profiles {
		if r.customers.SameName(profile, identity) {
			continue
		}
		secondary, err := r.customers.CreateSecondary(ctx, profile)
		if err != nil {
			return extra, err
		}
		contact := &model.Contact{
			BookingID:  booking.ID,
			IdentityID: secondary.ID,
			Role:       model.ContactSecondary,
		}
		if err := r.customers.CreateContact(ctx, contact); err != nil {
			return extra, err
		}
		extra++
	}
	return extra, nil
}

// advance walks the rebuilt booking forward: occupancy, option, confirmed
// with instant payment, validated when fully paid, contract signed.
func (r *Reconciler) advance(ctx context.Context, prop *model.ChannelProperty, res *model.ExternalReservation, booking *model.Booking, report *RunReport) error {
	if err := r.lifecycle.RecreateConsumptions(ctx, booking.ID); err != nil {
		return err
	}
	if err := r.bookings.SetStatus(ctx, booking.ID, model.StatusOption); err != nil {
		return err
	}
	booking.Status = model.StatusOption

	if err := r.lifecycle.Confirm(ctx, booking.ID, true); err != nil {
		// Manual fallback: the operator finishes confirmation by hand.
		if setErr := r.bookings.SetStatus(ctx, booking.ID, model.StatusConfirmed); setErr != nil {
			return setErr
		}
		report.Warnf(prop.BackOffice, "reservation %s: confirmation failed, status forced to confirmed: %v", res.ID, err)
	}
	booking.Status = model.StatusConfirmed

	var paid float64
	for _, payment := range res.Payments {
		paid += payment.Amount
	}
	if paid > 0 && paid >= booking.Total {
		if err := r.bookings.SetStatus(ctx, booking.ID, model.StatusValidated); err != nil {
			return err
		}
		booking.Status = model.StatusValidated
	}

	if err := r.bookings.SignActiveContract(ctx, booking.ID); err != nil && !syncerrors.IsNotFound(err) {
		return err
	}
	return nil
}

// pruneRedundantFundings removes the zero-payment fundings the confirmation
// step creates when the channel already reported real payments.
func (r *Reconciler) pruneRedundantFundings(ctx context.Context, res *model.ExternalReservation, booking *model.Booking) error {
	if len(res.Payments) == 0 {
		return nil
	}

	fundings, err := r.finance.FundingsByBooking(ctx, booking.ID)
	if err != nil {
		return err
	}
	payments, err := r.finance.PaymentsByBooking(ctx, booking.ID)
	if err != nil {
		return err
	}

	funded := make(map[string]bool, len(payments))
	for _, payment := range payments {
		funded[payment.FundingID] = true
	}

	for _, funding := range fundings {
		if funded[funding.ID] || funding.ManuallyPaid {
			continue
		}
		if err := r.finance.DeleteFunding(ctx, funding.ID); err != nil {
			return err
		}
	}
	return nil
}

// applyGuarantee keeps at most one card guarantee per booking, taken from
// the first channel-supplied entry.
func (r *Reconciler) applyGuarantee(ctx context.Context, res *model.ExternalReservation, booking *model.Booking) error {
	if err := r.finance.DeleteGuaranteesByBooking(ctx, booking.ID); err != nil {
		return err
	}
	if len(res.Guarantees) == 0 {
		return nil
	}

	first := res.Guarantees[0]
	guarantee := &model.Guarantee{
		BookingID:  booking.ID,
		CardType:   first.CardType,
		CardNumber: first.CardNumber,
		ExpiryDate: first.ExpiryDate,
		HolderName: first.HolderName,
	}
	return r.finance.CreateGuarantee(ctx, guarantee)
}

// unwind erases everything built for a new booking that failed mid-way. The
// cascade runs in one transaction so a half-deleted booking never survives;
// a failed unwind is logged and never masks the original error, and the
// unacknowledged reservation is retried next run.
func (r *Reconciler) unwind(ctx context.Context, bookingID string, log *logger.Logger) {
	steps := []struct {
		name string
		fn   func(context.Context, string) error
	}{
		{"consumptions", r.sojourns.DeleteConsumptionsByBooking},
		{"service lines", r.sojourns.DeleteLinesByBooking},
		{"sojourn groups", r.sojourns.DeleteGroupsByBooking},
		{"contacts", r.customers.DeleteContactsByBooking},
		{"fundings", r.finance.DeleteChannelFundingsByBooking},
		{"payments", r.finance.DeleteChannelPaymentsByBooking},
		{"guarantees", r.finance.DeleteGuaranteesByBooking},
		{"booking", r.bookings.MarkDeleted},
	}
	err := r.bookings.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		for _, step := range steps {
			if err := step.fn(sc, bookingID); err != nil && !syncerrors.IsNotFound(err) {
				return fmt.Errorf("%s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("unwind failed, booking left for manual cleanup", "booking", bookingID, "error", err)
	}
}

// stayWindow applies the property's default check-in and check-out times to
// bare dates and shifts local wall-clock times to UTC.
func (r *Reconciler) stayWindow(prop *model.ChannelProperty, res *model.ExternalReservation) (time.Time, time.Time) {
	start, end := res.Start, res.End
	if res.StartType == codec.TimeKindDate {
		start = atLocalTime(start, firstNonEmpty(prop.CheckinTime, r.cfg.DefaultCheckinTime), prop.UTCOffset)
	}
	if res.EndType == codec.TimeKindDate {
		end = atLocalTime(end, firstNonEmpty(prop.CheckoutTime, r.cfg.DefaultCheckoutTime), prop.UTCOffset)
	}
	return start, end
}

func atLocalTime(day time.Time, hhmm string, utcOffset int) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return day
	}
	local := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return local.Add(-time.Duration(utcOffset) * time.Hour)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func activeStays(res *model.ExternalReservation) int {
	n := 0
	for _, stay := range res.RoomStays {
		if !stay.Cancelled {
			n++
		}
	}
	return n
}

func exclTax(inclTax, vatRate float64) float64 {
	if vatRate <= 0 {
		return inclTax
	}
	return inclTax / (1 + vatRate)
}
