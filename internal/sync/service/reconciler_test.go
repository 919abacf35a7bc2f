package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingservice "staysync/internal/booking/service"
	"staysync/pkg/model"
)

type reconcilerEnv struct {
	bookings   *memBookings
	sojourns   *memSojourns
	finance    *memFinance
	customers  *memCustomers
	rates      *memRates
	tasks      *memTasks
	alerts     *memAlerts
	properties *memProperties
	units      *UnitResolver
	reconciler *Reconciler
	prop       *model.ChannelProperty
}

func newReconcilerEnv() *reconcilerEnv {
	cfg := testConfig()
	log := testLogger()

	bookings := newMemBookings()
	sojourns := &memSojourns{}
	finance := &memFinance{}
	customers := &memCustomers{}
	tasks := &memTasks{}
	alerts := &memAlerts{}

	prop := testProperty()
	properties := &memProperties{
		props: []*model.ChannelProperty{prop},
		units: map[string]*model.RentalUnit{
			"u1": {ID: "u1", PropertyID: prop.ID, Name: "Room 101", Capacity: 2},
			"u2": {ID: "u2", PropertyID: prop.ID, Name: "Room 102", Capacity: 2},
		},
	}
	rates := &memRates{
		lists: []*model.RateList{
			{
				ID:         "rl-dbl",
				PropertyID: prop.ID,
				ProductID:  "prod-dbl",
				Start:      date(2026, 1, 1),
				End:        date(2027, 1, 1),
				VATRate:    0.10,
			},
			{
				ID:         "rl-parking",
				PropertyID: prop.ID,
				ProductID:  "prod-parking",
				Start:      date(2026, 1, 1),
				End:        date(2027, 1, 1),
				VATRate:    0.20,
			},
		},
	}

	units := NewUnitResolver(properties, sojourns)
	resolver := NewCustomerResolver(customers, log)
	lifecycle := bookingservice.NewLifecycle(bookings, sojourns, finance, log)

	return &reconcilerEnv{
		bookings:   bookings,
		sojourns:   sojourns,
		finance:    finance,
		customers:  customers,
		rates:      rates,
		tasks:      tasks,
		alerts:     alerts,
		properties: properties,
		units:      units,
		prop:       prop,
		reconciler: NewReconciler(cfg, log, bookings, sojourns, finance, rates, tasks, alerts, units, resolver, lifecycle),
	}
}

func testProperty() *model.ChannelProperty {
	return &model.ChannelProperty{
		ID:             "prop-1",
		Name:           "Hotel du Lac",
		ExternalID:     "HOTEL42",
		Username:       "hotel42",
		SealedPassword: "sealed",
		APIKey:         "key-42",
		Active:         true,
		BackOffice:     "paris",
		CheckinTime:    "15:00",
		CheckoutTime:   "10:00",
		UTCOffset:      1,
		RoomTypeMappings: []model.RoomTypeMapping{
			{ExternalCode: "DBL", ProductID: "prod-dbl", UnitIDs: []string{"u1", "u2"}, Active: true},
		},
		ExtraServiceMappings: []model.ExtraServiceMapping{
			{ExternalCode: "BREAKFAST", ProductID: "prod-breakfast"},
			{ExternalCode: "PARKING", ProductID: "prod-parking"},
		},
	}
}

func testReservation() *model.ExternalReservation {
	return &model.ExternalReservation{
		ID:         "RES-1001",
		Status:     model.ResStatusReserved,
		PropertyID: "HOTEL42",
		PartnerID:  "PARTNER-9",
		Start:      date(2026, 9, 10),
		End:        date(2026, 9, 12),
		Customer: model.GuestProfile{
			FirstName: "Jean",
			LastName:  "Dupont",
			Email:     "jean.dupont@example.com",
			Country:   "FR",
		},
		RoomStays: []model.ExternalRoomStay{
			{RoomTypeCode: "DBL", Adults: 2, Total: 240},
		},
		Guarantees: []model.ExternalGuarantee{
			{CardType: "VI", CardNumber: "4111111111111111", ExpiryDate: "1227", HolderName: "Jean Dupont"},
		},
		Total: 240,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestReconcile_NewReservationCreatesBooking(t *testing.T) {
	env := newReconcilerEnv()
	res := testReservation()

	outcome := env.reconciler.Reconcile(context.Background(), env.prop, res)

	assert.True(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.Created)
	assert.Equal(t, 0, outcome.Report.ErrorCount)

	booking, err := env.bookings.FindByChannelRef(context.Background(), "prop-1", "RES-1001")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, booking.Status)
	assert.Equal(t, model.OriginChannel, booking.Origin)
	assert.Equal(t, model.BookingTypeOTA, booking.BookingType)
	assert.Equal(t, "PARTNER-9", booking.TourOperatorRef)
	assert.False(t, booking.Overbooked)

	// City tax: 2 guests x 2 nights x 2.50 on top of the channel total.
	assert.InDelta(t, 250.0, booking.Total, 0.001)

	groups, _ := env.sojourns.GroupsByBooking(context.Background(), booking.ID)
	require.Len(t, groups, 1)
	assert.Equal(t, "u1", groups[0].UnitID)
	assert.Equal(t, "prod-dbl", groups[0].ProductID)

	lines, _ := env.sojourns.LinesByBooking(context.Background(), booking.ID)
	require.Len(t, lines, 3)
	kinds := map[model.ServiceLineKind]int{}
	for _, line := range lines {
		kinds[line.Kind]++
	}
	assert.Equal(t, 1, kinds[model.LineAccommodation])
	assert.Equal(t, 1, kinds[model.LineBreakfast])
	assert.Equal(t, 1, kinds[model.LineCityTax])

	consumptions, _ := env.sojourns.ConsumptionsByBooking(context.Background(), booking.ID)
	require.Len(t, consumptions, 1)
	assert.Equal(t, "u1", consumptions[0].UnitID)

	fundings, _ := env.finance.FundingsByBooking(context.Background(), booking.ID)
	require.Len(t, fundings, 1)
	assert.Equal(t, model.OriginChannel, fundings[0].Origin)
	assert.InDelta(t, 250.0, fundings[0].Amount, 0.001)

	contract, err := env.bookings.ActiveContractByBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.True(t, contract.Signed)

	contacts, _ := env.customers.ContactsByBooking(context.Background(), booking.ID)
	require.Len(t, contacts, 1)
	assert.Equal(t, model.ContactPrimary, contacts[0].Role)

	guarantee, err := env.finance.GuaranteeByBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "VI", guarantee.CardType)
}

func TestReconcile_AccommodationLineCarriesVAT(t *testing.T) {
	env := newReconcilerEnv()

	outcome := env.reconciler.Reconcile(context.Background(), env.prop, testReservation())
	require.True(t, outcome.Ack)

	booking, _ := env.bookings.FindByChannelRef(context.Background(), "prop-1", "RES-1001")
	lines, _ := env.sojourns.LinesByBooking(context.Background(), booking.ID)
	for _, line := range lines {
		if line.Kind != model.LineAccommodation {
			continue
		}
		assert.InDelta(t, 0.10, line.VATRate, 0.001)
		assert.InDelta(t, 240.0, line.TotalInclTax, 0.001)
		assert.InDelta(t, 240.0/1.10, line.TotalExclTax, 0.001)
		assert.Equal(t, 2, line.Quantity) // nights
	}
}

func TestReconcile_FullyPaidReservationValidated(t *testing.T) {
	env := newReconcilerEnv()
	res := testReservation()
	res.Payments = []model.ExternalPayment{
		{Ref: "TX-1", Amount: 250, Method: "card", At: date(2026, 9, 1)},
	}

	outcome := env.reconciler.Reconcile(context.Background(), env.prop, res)
	require.True(t, outcome.Ack)

	booking, _ := env.bookings.FindByChannelRef(context.Background(), "prop-1", "RES-1001")
	assert.Equal(t, model.StatusValidated, booking.Status)

	payments, _ := env.finance.PaymentsByBooking(context.Background(), booking.ID)
	require.Len(t, payments, 1)
	assert.Equal(t, "TX-1", payments[0].ChannelPaymentRef)

	// The payment reference queues a PSP detail fetch.
	pspTasks := env.tasks.byName(model.TaskPSPDetailFetch)
	require.Len(t, pspTasks, 1)
	assert.Equal(t, "TX-1", pspTasks[0].Params[paramPaymentRef])
	assert.Equal(t, payments[0].ID, pspTasks[0].Params[paramPaymentID])
}

func TestReconcile_RerunDoesNotDuplicate(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	first := env.reconciler.Reconcile(ctx, env.prop, testReservation())
	require.True(t, first.Ack)
	require.Equal(t, 1, first.Report.Created)

	env.units.Reset()
	second := env.reconciler.Reconcile(ctx, env.prop, testReservation())
	require.True(t, second.Ack)
	assert.Equal(t, 0, second.Report.Created)
	assert.Equal(t, 1, second.Report.Updated)
	assert.Equal(t, 0, second.Report.ErrorCount)

	assert.Len(t, env.bookings.activeBookings(), 1)

	booking, _ := env.bookings.FindByChannelRef(ctx, "prop-1", "RES-1001")
	groups, _ := env.sojourns.GroupsByBooking(ctx, booking.ID)
	assert.Len(t, groups, 1)
	lines, _ := env.sojourns.LinesByBooking(ctx, booking.ID)
	assert.Len(t, lines, 3)
	fundings, _ := env.finance.FundingsByBooking(ctx, booking.ID)
	assert.Len(t, fundings, 1)
	consumptions, _ := env.sojourns.ConsumptionsByBooking(ctx, booking.ID)
	assert.Len(t, consumptions, 1)
	contacts, _ := env.customers.ContactsByBooking(ctx, booking.ID)
	assert.Len(t, contacts, 1)

	// The rerun re-resolves the same guest instead of minting a new one.
	assert.Len(t, env.customers.customers, 1)

	active := 0
	for _, contract := range env.bookings.contracts {
		if contract.Status == model.ContractActive {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestReconcile_CancellationForUnknownReservation(t *testing.T) {
	env := newReconcilerEnv()
	res := testReservation()
	res.Status = model.ResStatusCancelled

	outcome := env.reconciler.Reconcile(context.Background(), env.prop, res)

	assert.True(t, outcome.Ack, "cancellation of an unknown reservation is still acknowledged")
	assert.Equal(t, 1, outcome.Report.Skipped)
	assert.Equal(t, 1, outcome.Report.WarningCount)
	assert.Equal(t, 0, outcome.Report.ErrorCount)
	assert.Empty(t, env.bookings.activeBookings())
}

func TestReconcile_CancellationOfExistingBooking(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	require.True(t, env.reconciler.Reconcile(ctx, env.prop, testReservation()).Ack)
	booking, _ := env.bookings.FindByChannelRef(ctx, "prop-1", "RES-1001")

	cancel := testReservation()
	cancel.Status = model.ResStatusCancelled
	outcome := env.reconciler.Reconcile(ctx, env.prop, cancel)

	assert.True(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.Cancelled)

	cancelled, err := env.bookings.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	consumptions, _ := env.sojourns.ConsumptionsByBooking(ctx, booking.ID)
	assert.Empty(t, consumptions, "cancellation frees the occupancy")

	fundings, _ := env.finance.FundingsByBooking(ctx, booking.ID)
	assert.NotEmpty(t, fundings, "financial records survive cancellation")
}

func TestReconcile_RequestDeniedHandledAsCancellation(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	require.True(t, env.reconciler.Reconcile(ctx, env.prop, testReservation()).Ack)

	denied := testReservation()
	denied.Status = model.ResStatusDenied
	outcome := env.reconciler.Reconcile(ctx, env.prop, denied)

	assert.True(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.Cancelled)

	booking, _ := env.bookings.FindByChannelRef(ctx, "prop-1", "RES-1001")
	assert.Equal(t, model.StatusCancelled, booking.Status)
}

func TestReconcile_IncompatibleStatusSkipsModification(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	seeded := &model.Booking{
		PropertyID: "prop-1",
		ChannelRef: "RES-1001",
		Origin:     model.OriginChannel,
		Status:     model.StatusCheckedIn,
		Total:      100,
	}
	require.NoError(t, env.bookings.Create(ctx, seeded))

	outcome := env.reconciler.Reconcile(ctx, env.prop, testReservation())

	assert.True(t, outcome.Ack, "the change is dropped but still acknowledged")
	assert.Equal(t, 1, outcome.Report.Skipped)
	assert.Equal(t, 1, outcome.Report.WarningCount)

	booking, _ := env.bookings.FindByID(ctx, seeded.ID)
	assert.Equal(t, model.StatusCheckedIn, booking.Status)
	assert.InDelta(t, 100.0, booking.Total, 0.001)
}

func TestReconcile_OverbookingKeepsSojournWithoutUnit(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	// Both mapped units already carry overlapping occupancy.
	for _, unitID := range []string{"u1", "u2"} {
		require.NoError(t, env.sojourns.CreateConsumption(ctx, &model.Consumption{
			BookingID: "bk-other",
			GroupID:   "grp-other",
			UnitID:    unitID,
			Start:     date(2026, 9, 9),
			End:       date(2026, 9, 13),
			Quantity:  1,
		}))
	}

	outcome := env.reconciler.Reconcile(ctx, env.prop, testReservation())

	assert.True(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.Created)
	assert.Equal(t, 1, outcome.Report.WarningCount)

	booking, _ := env.bookings.FindByChannelRef(ctx, "prop-1", "RES-1001")
	assert.True(t, booking.Overbooked)

	groups, _ := env.sojourns.GroupsByBooking(ctx, booking.ID)
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0].UnitID)

	consumptions, _ := env.sojourns.ConsumptionsByBooking(ctx, booking.ID)
	assert.Empty(t, consumptions, "no occupancy without a unit")

	alerts, _ := env.alerts.FindActive(ctx, "paris")
	require.Len(t, alerts, 1)
	assert.Equal(t, OverbookingAlert, alerts[0].Name)
	assert.Equal(t, booking.ID, alerts[0].Scope)
}

func TestReconcile_OverbookingAlertResolvedWhenUnitFreed(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	for _, unitID := range []string{"u1", "u2"} {
		require.NoError(t, env.sojourns.CreateConsumption(ctx, &model.Consumption{
			BookingID: "bk-other",
			GroupID:   "grp-other",
			UnitID:    unitID,
			Start:     date(2026, 9, 9),
			End:       date(2026, 9, 13),
			Quantity:  1,
		}))
	}

	require.True(t, env.reconciler.Reconcile(ctx, env.prop, testReservation()).Ack)
	alerts, _ := env.alerts.FindActive(ctx, "paris")
	require.Len(t, alerts, 1)

	// The blocking occupancy goes away; the next modification finds a unit.
	require.NoError(t, env.sojourns.DeleteConsumptionsByBooking(ctx, "bk-other"))
	env.units.Reset()

	outcome := env.reconciler.Reconcile(ctx, env.prop, testReservation())
	require.True(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.Updated)

	booking, _ := env.bookings.FindByChannelRef(ctx, "prop-1", "RES-1001")
	assert.False(t, booking.Overbooked)
	groups, _ := env.sojourns.GroupsByBooking(ctx, booking.ID)
	require.Len(t, groups, 1)
	assert.NotEmpty(t, groups[0].UnitID)

	alerts, _ = env.alerts.FindActive(ctx, "paris")
	assert.Empty(t, alerts, "the overbooking alert is resolved once a unit is assigned")
}

func TestReconcile_OverbookingAlertResolvedOnCancellation(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	for _, unitID := range []string{"u1", "u2"} {
		require.NoError(t, env.sojourns.CreateConsumption(ctx, &model.Consumption{
			BookingID: "bk-other",
			GroupID:   "grp-other",
			UnitID:    unitID,
			Start:     date(2026, 9, 9),
			End:       date(2026, 9, 13),
			Quantity:  1,
		}))
	}

	require.True(t, env.reconciler.Reconcile(ctx, env.prop, testReservation()).Ack)
	alerts, _ := env.alerts.FindActive(ctx, "paris")
	require.Len(t, alerts, 1)

	cancel := testReservation()
	cancel.Status = model.ResStatusCancelled
	outcome := env.reconciler.Reconcile(ctx, env.prop, cancel)
	require.True(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.Cancelled)

	alerts, _ = env.alerts.FindActive(ctx, "paris")
	assert.Empty(t, alerts, "cancellation resolves the overbooking alert")
}

func TestReconcile_ResetCascadeRunsInTransaction(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	require.True(t, env.reconciler.Reconcile(ctx, env.prop, testReservation()).Ack)
	require.Equal(t, 0, env.bookings.txCalls, "the create path needs no reset")

	env.units.Reset()
	outcome := env.reconciler.Reconcile(ctx, env.prop, testReservation())
	require.True(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.Updated)
	assert.Equal(t, 1, env.bookings.txCalls, "the reset cascade runs as one transaction")
}

func TestReconcile_NewBookingRolledBackOnFailure(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	res := testReservation()
	res.Services = []model.ExternalService{
		{Code: "SPA", Quantity: 1, Amount: 30}, // not mapped
	}

	outcome := env.reconciler.Reconcile(ctx, env.prop, res)

	assert.False(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.ErrorCount)
	assert.Equal(t, 0, outcome.Report.Created)

	// The booking row survives soft-deleted only; every sub-object is gone
	// and the idempotency slot is free.
	assert.Empty(t, env.bookings.activeBookings())
	assert.Empty(t, env.sojourns.groups)
	assert.Empty(t, env.sojourns.lines)
	assert.Empty(t, env.sojourns.consumptions)
	assert.Empty(t, env.customers.contacts)
	assert.Empty(t, env.finance.fundings)
	assert.Empty(t, env.finance.payments)
	assert.Empty(t, env.units.claimed, "claimed units are released for the rest of the run")
	assert.Equal(t, 1, env.bookings.txCalls, "the unwind cascade runs as one transaction")
}

func TestReconcile_UpdateFailureDoesNotDeleteBooking(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	require.True(t, env.reconciler.Reconcile(ctx, env.prop, testReservation()).Ack)

	env.units.Reset()
	broken := testReservation()
	broken.Services = []model.ExternalService{{Code: "SPA", Quantity: 1, Amount: 30}}
	outcome := env.reconciler.Reconcile(ctx, env.prop, broken)

	assert.False(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.ErrorCount)
	assert.Len(t, env.bookings.activeBookings(), 1, "modifications are never rolled back")
}

func TestReconcile_AllStaysCancelledCreatesThenCancels(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	res := testReservation()
	res.RoomStays[0].Cancelled = true

	outcome := env.reconciler.Reconcile(ctx, env.prop, res)

	assert.True(t, outcome.Ack)
	assert.Equal(t, 0, outcome.Report.Created)
	assert.Equal(t, 1, outcome.Report.Cancelled)

	booking, err := env.bookings.FindByChannelRef(ctx, "prop-1", "RES-1001")
	require.NoError(t, err, "the booking is kept for audit")
	assert.Equal(t, model.StatusCancelled, booking.Status)

	groups, _ := env.sojourns.GroupsByBooking(ctx, booking.ID)
	assert.Empty(t, groups)
}

func TestReconcile_ChannelSuppliedCityTaxNotSynthesized(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	res := testReservation()
	res.Services = []model.ExternalService{
		{Code: "CITYTAX", Quantity: 4, Amount: 12},
	}

	outcome := env.reconciler.Reconcile(ctx, env.prop, res)
	require.True(t, outcome.Ack)

	booking, _ := env.bookings.FindByChannelRef(ctx, "prop-1", "RES-1001")
	assert.InDelta(t, 240.0, booking.Total, 0.001, "no synthesized amount on top")

	lines, _ := env.sojourns.LinesByBooking(ctx, booking.ID)
	cityTax := 0
	for _, line := range lines {
		if line.Kind == model.LineCityTax {
			cityTax++
			assert.InDelta(t, 12.0, line.TotalInclTax, 0.001)
		}
	}
	assert.Equal(t, 1, cityTax)
}

func TestReconcile_MappedExtraServiceBilled(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	res := testReservation()
	res.Services = []model.ExternalService{
		{Code: "PARKING", Quantity: 2, Amount: 30},
	}

	outcome := env.reconciler.Reconcile(ctx, env.prop, res)
	require.True(t, outcome.Ack)

	booking, _ := env.bookings.FindByChannelRef(ctx, "prop-1", "RES-1001")
	lines, _ := env.sojourns.LinesByBooking(ctx, booking.ID)
	found := false
	for _, line := range lines {
		if line.Kind == model.LineExtra {
			found = true
			assert.Equal(t, "prod-parking", line.ProductID)
			assert.InDelta(t, 0.20, line.VATRate, 0.001)
			assert.InDelta(t, 30.0, line.TotalInclTax, 0.001)
		}
	}
	assert.True(t, found)
}

func TestReconcile_NoRateListRejectsReservation(t *testing.T) {
	env := newReconcilerEnv()
	env.rates.lists = nil

	outcome := env.reconciler.Reconcile(context.Background(), env.prop, testReservation())

	assert.False(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.ErrorCount)
	assert.Empty(t, env.bookings.activeBookings())
}

func TestReconcile_UnmappedRoomTypeRejectsReservation(t *testing.T) {
	env := newReconcilerEnv()
	res := testReservation()
	res.RoomStays[0].RoomTypeCode = "SUITE"

	outcome := env.reconciler.Reconcile(context.Background(), env.prop, res)

	assert.False(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.ErrorCount)
	assert.Empty(t, env.bookings.activeBookings())
}

func TestReconcile_InvalidReservationRejected(t *testing.T) {
	env := newReconcilerEnv()
	res := testReservation()
	res.Customer.LastName = ""

	outcome := env.reconciler.Reconcile(context.Background(), env.prop, res)

	assert.False(t, outcome.Ack)
	assert.Equal(t, 1, outcome.Report.ErrorCount)
	assert.Equal(t, 0, outcome.Report.Skipped, "a rejected reservation is an error, not a skip")
	assert.Empty(t, env.bookings.activeBookings())
}

func TestReconcile_SecondaryProfilesBecomeContacts(t *testing.T) {
	env := newReconcilerEnv()
	ctx := context.Background()

	res := testReservation()
	res.Profiles = []model.GuestProfile{
		{FirstName: "Jean", LastName: "Dupont"}, // duplicate of the primary
		{FirstName: "Marie", LastName: "Curie"},
	}

	outcome := env.reconciler.Reconcile(ctx, env.prop, res)
	require.True(t, outcome.Ack)

	booking, _ := env.bookings.FindByChannelRef(ctx, "prop-1", "RES-1001")
	contacts, _ := env.customers.ContactsByBooking(ctx, booking.ID)
	require.Len(t, contacts, 2)

	roles := map[model.ContactRole]int{}
	for _, contact := range contacts {
		roles[contact.Role]++
	}
	assert.Equal(t, 1, roles[model.ContactPrimary])
	assert.Equal(t, 1, roles[model.ContactSecondary])
}
