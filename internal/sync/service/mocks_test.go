package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"staysync/internal/sync/repository"
	"staysync/pkg/config"
	mongotx "staysync/pkg/db/mongo"
	syncerrors "staysync/pkg/errors"
	"staysync/pkg/logger"
	"staysync/pkg/model"
)

// In-memory repository fakes shared by the service tests. Function fields
// override single methods to inject failures; everything else behaves like
// the real store.

type memBookings struct {
	seq       int
	bookings  map[string]*model.Booking
	contracts []*model.Contract
	txCalls   int

	createFunc func(ctx context.Context, booking *model.Booking) error
}

var _ repository.BookingRepository = (*memBookings)(nil)

func newMemBookings() *memBookings {
	return &memBookings{bookings: make(map[string]*model.Booking)}
}

func (m *memBookings) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	m.seq++
	booking.ID = fmt.Sprintf("bk-%d", m.seq)
	stored := *booking
	m.bookings[booking.ID] = &stored
	return nil
}

func (m *memBookings) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, ok := m.bookings[id]
	if !ok || booking.Deleted {
		return nil, syncerrors.NotFoundWithID("booking", id)
	}
	copied := *booking
	return &copied, nil
}

func (m *memBookings) FindByChannelRef(ctx context.Context, propertyID, channelRef string) (*model.Booking, error) {
	for _, booking := range m.bookings {
		if booking.PropertyID == propertyID && booking.ChannelRef == channelRef && !booking.Deleted {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, syncerrors.NotFoundWithID("booking", channelRef)
}

func (m *memBookings) Update(ctx context.Context, booking *model.Booking) error {
	stored, ok := m.bookings[booking.ID]
	if !ok {
		return syncerrors.NotFoundWithID("booking", booking.ID)
	}
	stored.Status = booking.Status
	stored.CustomerID = booking.CustomerID
	stored.TourOperatorRef = booking.TourOperatorRef
	stored.Start = booking.Start
	stored.End = booking.End
	stored.Total = booking.Total
	stored.Overbooked = booking.Overbooked
	return nil
}

func (m *memBookings) SetStatus(ctx context.Context, id string, status model.BookingStatus) error {
	booking, ok := m.bookings[id]
	if !ok {
		return syncerrors.NotFoundWithID("booking", id)
	}
	booking.Status = status
	return nil
}

func (m *memBookings) MarkDeleted(ctx context.Context, id string) error {
	booking, ok := m.bookings[id]
	if !ok {
		return syncerrors.NotFoundWithID("booking", id)
	}
	booking.Deleted = true
	return nil
}

func (m *memBookings) CreateContract(ctx context.Context, contract *model.Contract) error {
	m.seq++
	contract.ID = fmt.Sprintf("ct-%d", m.seq)
	stored := *contract
	m.contracts = append(m.contracts, &stored)
	return nil
}

func (m *memBookings) VoidContractsByBooking(ctx context.Context, bookingID string) error {
	for _, contract := range m.contracts {
		if contract.BookingID == bookingID {
			contract.Status = model.ContractVoid
		}
	}
	return nil
}

func (m *memBookings) ActiveContractByBooking(ctx context.Context, bookingID string) (*model.Contract, error) {
	for _, contract := range m.contracts {
		if contract.BookingID == bookingID && contract.Status == model.ContractActive {
			copied := *contract
			return &copied, nil
		}
	}
	return nil, syncerrors.NotFound("contract")
}

func (m *memBookings) SignActiveContract(ctx context.Context, bookingID string) error {
	for _, contract := range m.contracts {
		if contract.BookingID == bookingID && contract.Status == model.ContractActive {
			contract.Signed = true
			return nil
		}
	}
	return syncerrors.NotFound("contract")
}

func (m *memBookings) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.txCalls++
	return fn(mongo.NewSessionContext(ctx, nil))
}

// activeBookings counts non-deleted bookings.
func (m *memBookings) activeBookings() []*model.Booking {
	var active []*model.Booking
	for _, booking := range m.bookings {
		if !booking.Deleted {
			active = append(active, booking)
		}
	}
	return active
}

type memSojourns struct {
	seq          int
	groups       []*model.SojournGroup
	lines        []*model.ServiceLine
	consumptions []*model.Consumption

	createLineFunc  func(ctx context.Context, line *model.ServiceLine) error
	createGroupFunc func(ctx context.Context, group *model.SojournGroup) error
}

var _ repository.SojournRepository = (*memSojourns)(nil)

func (m *memSojourns) CreateGroup(ctx context.Context, group *model.SojournGroup) error {
	if m.createGroupFunc != nil {
		return m.createGroupFunc(ctx, group)
	}
	m.seq++
	group.ID = fmt.Sprintf("grp-%d", m.seq)
	stored := *group
	m.groups = append(m.groups, &stored)
	return nil
}

func (m *memSojourns) GroupsByBooking(ctx context.Context, bookingID string) ([]*model.SojournGroup, error) {
	var out []*model.SojournGroup
	for _, group := range m.groups {
		if group.BookingID == bookingID {
			copied := *group
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memSojourns) DeleteGroupsByBooking(ctx context.Context, bookingID string) error {
	kept := m.groups[:0]
	for _, group := range m.groups {
		if group.BookingID != bookingID {
			kept = append(kept, group)
		}
	}
	m.groups = kept
	return nil
}

func (m *memSojourns) CreateLine(ctx context.Context, line *model.ServiceLine) error {
	if m.createLineFunc != nil {
		if err := m.createLineFunc(ctx, line); err != nil {
			return err
		}
	}
	m.seq++
	line.ID = fmt.Sprintf("ln-%d", m.seq)
	stored := *line
	m.lines = append(m.lines, &stored)
	return nil
}

func (m *memSojourns) LinesByBooking(ctx context.Context, bookingID string) ([]*model.ServiceLine, error) {
	var out []*model.ServiceLine
	for _, line := range m.lines {
		if line.BookingID == bookingID {
			copied := *line
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memSojourns) DeleteLinesByBooking(ctx context.Context, bookingID string) error {
	kept := m.lines[:0]
	for _, line := range m.lines {
		if line.BookingID != bookingID {
			kept = append(kept, line)
		}
	}
	m.lines = kept
	return nil
}

func (m *memSojourns) CreateConsumption(ctx context.Context, consumption *model.Consumption) error {
	m.seq++
	consumption.ID = fmt.Sprintf("cons-%d", m.seq)
	stored := *consumption
	m.consumptions = append(m.consumptions, &stored)
	return nil
}

func (m *memSojourns) ConsumptionsByBooking(ctx context.Context, bookingID string) ([]*model.Consumption, error) {
	var out []*model.Consumption
	for _, consumption := range m.consumptions {
		if consumption.BookingID == bookingID {
			copied := *consumption
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memSojourns) DeleteConsumptionsByBooking(ctx context.Context, bookingID string) error {
	kept := m.consumptions[:0]
	for _, consumption := range m.consumptions {
		if consumption.BookingID != bookingID {
			kept = append(kept, consumption)
		}
	}
	m.consumptions = kept
	return nil
}

func (m *memSojourns) OverlappingConsumptions(ctx context.Context, unitIDs []string, start, end time.Time) ([]*model.Consumption, error) {
	wanted := make(map[string]bool, len(unitIDs))
	for _, id := range unitIDs {
		wanted[id] = true
	}
	var out []*model.Consumption
	for _, consumption := range m.consumptions {
		if wanted[consumption.UnitID] && consumption.Overlaps(start, end) {
			copied := *consumption
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memFinance struct {
	seq        int
	fundings   []*model.Funding
	payments   []*model.Payment
	guarantees []*model.Guarantee
}

var _ repository.FinanceRepository = (*memFinance)(nil)

func (m *memFinance) CreateFunding(ctx context.Context, funding *model.Funding) error {
	m.seq++
	funding.ID = fmt.Sprintf("fund-%d", m.seq)
	stored := *funding
	m.fundings = append(m.fundings, &stored)
	return nil
}

func (m *memFinance) FundingsByBooking(ctx context.Context, bookingID string) ([]*model.Funding, error) {
	var out []*model.Funding
	for _, funding := range m.fundings {
		if funding.BookingID == bookingID {
			copied := *funding
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memFinance) DeleteFunding(ctx context.Context, id string) error {
	kept := m.fundings[:0]
	for _, funding := range m.fundings {
		if funding.ID != id {
			kept = append(kept, funding)
		}
	}
	m.fundings = kept
	return nil
}

func (m *memFinance) DeleteChannelFundingsByBooking(ctx context.Context, bookingID string) error {
	kept := m.fundings[:0]
	for _, funding := range m.fundings {
		if funding.BookingID == bookingID && funding.Origin == model.OriginChannel {
			continue
		}
		kept = append(kept, funding)
	}
	m.fundings = kept
	return nil
}

func (m *memFinance) CreatePayment(ctx context.Context, payment *model.Payment) error {
	m.seq++
	payment.ID = fmt.Sprintf("pay-%d", m.seq)
	stored := *payment
	m.payments = append(m.payments, &stored)
	return nil
}

func (m *memFinance) PaymentsByBooking(ctx context.Context, bookingID string) ([]*model.Payment, error) {
	var out []*model.Payment
	for _, payment := range m.payments {
		if payment.BookingID == bookingID {
			copied := *payment
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memFinance) DeleteChannelPaymentsByBooking(ctx context.Context, bookingID string) error {
	kept := m.payments[:0]
	for _, payment := range m.payments {
		if payment.BookingID == bookingID && payment.Origin == model.OriginChannel {
			continue
		}
		kept = append(kept, payment)
	}
	m.payments = kept
	return nil
}

func (m *memFinance) CreateGuarantee(ctx context.Context, guarantee *model.Guarantee) error {
	m.seq++
	guarantee.ID = fmt.Sprintf("gr-%d", m.seq)
	stored := *guarantee
	m.guarantees = append(m.guarantees, &stored)
	return nil
}

func (m *memFinance) GuaranteeByBooking(ctx context.Context, bookingID string) (*model.Guarantee, error) {
	for _, guarantee := range m.guarantees {
		if guarantee.BookingID == bookingID {
			copied := *guarantee
			return &copied, nil
		}
	}
	return nil, syncerrors.NotFound("guarantee")
}

func (m *memFinance) DeleteGuaranteesByBooking(ctx context.Context, bookingID string) error {
	kept := m.guarantees[:0]
	for _, guarantee := range m.guarantees {
		if guarantee.BookingID != bookingID {
			kept = append(kept, guarantee)
		}
	}
	m.guarantees = kept
	return nil
}

type memCustomers struct {
	seq        int
	identities []*model.Identity
	customers  []*model.Customer
	contacts   []*model.Contact
}

var _ repository.CustomerRepository = (*memCustomers)(nil)

func (m *memCustomers) CreateIdentity(ctx context.Context, identity *model.Identity) error {
	m.seq++
	identity.ID = fmt.Sprintf("id-%d", m.seq)
	stored := *identity
	m.identities = append(m.identities, &stored)
	return nil
}

func (m *memCustomers) UpdateIdentity(ctx context.Context, identity *model.Identity) error {
	for i, stored := range m.identities {
		if stored.ID == identity.ID {
			copied := *identity
			m.identities[i] = &copied
			return nil
		}
	}
	return syncerrors.NotFoundWithID("identity", identity.ID)
}

func (m *memCustomers) FindIdentityByID(ctx context.Context, id string) (*model.Identity, error) {
	for _, identity := range m.identities {
		if identity.ID == id {
			copied := *identity
			return &copied, nil
		}
	}
	return nil, syncerrors.NotFoundWithID("identity", id)
}

func (m *memCustomers) FindIdentitiesByName(ctx context.Context, firstName, lastName string) ([]*model.Identity, error) {
	var out []*model.Identity
	for _, identity := range m.identities {
		if strings.EqualFold(identity.FirstName, firstName) && strings.EqualFold(identity.LastName, lastName) {
			copied := *identity
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memCustomers) CreateCustomer(ctx context.Context, customer *model.Customer) error {
	m.seq++
	customer.ID = fmt.Sprintf("cust-%d", m.seq)
	stored := *customer
	m.customers = append(m.customers, &stored)
	return nil
}

func (m *memCustomers) FindCustomerByIdentity(ctx context.Context, identityID string) (*model.Customer, error) {
	for _, customer := range m.customers {
		if customer.IdentityID == identityID {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, syncerrors.NotFound("customer")
}

func (m *memCustomers) CreateContact(ctx context.Context, contact *model.Contact) error {
	m.seq++
	contact.ID = fmt.Sprintf("ctc-%d", m.seq)
	stored := *contact
	m.contacts = append(m.contacts, &stored)
	return nil
}

func (m *memCustomers) ContactsByBooking(ctx context.Context, bookingID string) ([]*model.Contact, error) {
	var out []*model.Contact
	for _, contact := range m.contacts {
		if contact.BookingID == bookingID {
			copied := *contact
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memCustomers) DeleteContactsByBooking(ctx context.Context, bookingID string) error {
	kept := m.contacts[:0]
	for _, contact := range m.contacts {
		if contact.BookingID != bookingID {
			kept = append(kept, contact)
		}
	}
	m.contacts = kept
	return nil
}

type memRates struct {
	lists []*model.RateList
}

var _ repository.RateRepository = (*memRates)(nil)

func (m *memRates) ListsForStay(ctx context.Context, propertyID, productID string, start, end time.Time) ([]*model.RateList, error) {
	var out []*model.RateList
	for _, list := range m.lists {
		if list.PropertyID != propertyID || list.ProductID != productID {
			continue
		}
		if start.Before(list.Start) || end.After(list.End) {
			continue
		}
		copied := *list
		out = append(out, &copied)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].MinDuration < out[j-1].MinDuration; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

type memTasks struct {
	seq   int
	tasks []*model.ScheduledTask
}

var _ repository.TaskRepository = (*memTasks)(nil)

func (m *memTasks) Create(ctx context.Context, task *model.ScheduledTask) error {
	m.seq++
	task.ID = fmt.Sprintf("task-%d", m.seq)
	stored := *task
	m.tasks = append(m.tasks, &stored)
	return nil
}

func (m *memTasks) PendingExists(ctx context.Context, name string, params map[string]string) (bool, error) {
	for _, task := range m.tasks {
		if task.Name != name || task.Done {
			continue
		}
		match := true
		for key, value := range params {
			if task.Params[key] != value {
				match = false
				break
			}
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTasks) FindDue(ctx context.Context, name string, now time.Time, limit int) ([]*model.ScheduledTask, error) {
	var out []*model.ScheduledTask
	for _, task := range m.tasks {
		if task.Name != name || task.Done || task.RunAt.After(now) {
			continue
		}
		copied := *task
		out = append(out, &copied)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memTasks) MarkDone(ctx context.Context, id string) error {
	for _, task := range m.tasks {
		if task.ID == id {
			task.Done = true
			return nil
		}
	}
	return syncerrors.NotFoundWithID("task", id)
}

func (m *memTasks) Reschedule(ctx context.Context, id string, runAt time.Time) error {
	for _, task := range m.tasks {
		if task.ID == id {
			task.RunAt = runAt
			return nil
		}
	}
	return syncerrors.NotFoundWithID("task", id)
}

func (m *memTasks) byName(name string) []*model.ScheduledTask {
	var out []*model.ScheduledTask
	for _, task := range m.tasks {
		if task.Name == name {
			out = append(out, task)
		}
	}
	return out
}

type memAlerts struct {
	alerts []*model.Alert
}

var _ repository.AlertRepository = (*memAlerts)(nil)

func (m *memAlerts) Raise(ctx context.Context, alert *model.Alert) error {
	for _, existing := range m.alerts {
		if existing.Name == alert.Name && existing.Scope == alert.Scope && existing.Active {
			return nil
		}
	}
	alert.Active = true
	stored := *alert
	m.alerts = append(m.alerts, &stored)
	return nil
}

func (m *memAlerts) Resolve(ctx context.Context, name, scope string) error {
	for _, alert := range m.alerts {
		if alert.Name == name && alert.Scope == scope {
			alert.Active = false
		}
	}
	return nil
}

func (m *memAlerts) FindActive(ctx context.Context, backOffice string) ([]*model.Alert, error) {
	var out []*model.Alert
	for _, alert := range m.alerts {
		if alert.Active && (backOffice == "" || alert.BackOffice == backOffice) {
			copied := *alert
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memProperties struct {
	props []*model.ChannelProperty
	units map[string]*model.RentalUnit

	findActiveFunc func(ctx context.Context) ([]*model.ChannelProperty, error)
}

var _ repository.PropertyRepository = (*memProperties)(nil)

func (m *memProperties) FindActive(ctx context.Context) ([]*model.ChannelProperty, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx)
	}
	var out []*model.ChannelProperty
	for _, prop := range m.props {
		if prop.Active {
			out = append(out, prop)
		}
	}
	return out, nil
}

func (m *memProperties) FindByID(ctx context.Context, id string) (*model.ChannelProperty, error) {
	for _, prop := range m.props {
		if prop.ID == id {
			return prop, nil
		}
	}
	return nil, syncerrors.NotFoundWithID("channel property", id)
}

func (m *memProperties) FindByExternalID(ctx context.Context, externalID string) (*model.ChannelProperty, error) {
	for _, prop := range m.props {
		if prop.ExternalID == externalID {
			return prop, nil
		}
	}
	return nil, syncerrors.NotFoundWithID("channel property", externalID)
}

func (m *memProperties) UnitsByIDs(ctx context.Context, ids []string) ([]*model.RentalUnit, error) {
	var out []*model.RentalUnit
	for _, id := range ids {
		if unit, ok := m.units[id]; ok {
			out = append(out, unit)
		}
	}
	return out, nil
}

type mockChannel struct {
	fetchFunc func(ctx context.Context, prop *model.ChannelProperty) ([]model.ExternalReservation, error)
	pushFunc  func(ctx context.Context, prop *model.ChannelProperty, roomTypeCode string, day time.Time, bookingLimit int) error
	ackFunc   func(ctx context.Context, prop *model.ChannelProperty, reservationIDs []string) error

	pushed []pushedAvailability
	acked  map[string][]string
}

type pushedAvailability struct {
	propertyID string
	roomType   string
	day        time.Time
	limit      int
}

var _ ChannelClient = (*mockChannel)(nil)

func (m *mockChannel) FetchReservations(ctx context.Context, prop *model.ChannelProperty) ([]model.ExternalReservation, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, prop)
	}
	return nil, nil
}

func (m *mockChannel) PushAvailability(ctx context.Context, prop *model.ChannelProperty, roomTypeCode string, day time.Time, bookingLimit int) error {
	if m.pushFunc != nil {
		return m.pushFunc(ctx, prop, roomTypeCode, day, bookingLimit)
	}
	m.pushed = append(m.pushed, pushedAvailability{
		propertyID: prop.ID,
		roomType:   roomTypeCode,
		day:        day,
		limit:      bookingLimit,
	})
	return nil
}

func (m *mockChannel) AckReservations(ctx context.Context, prop *model.ChannelProperty, reservationIDs []string) error {
	if m.ackFunc != nil {
		return m.ackFunc(ctx, prop, reservationIDs)
	}
	if m.acked == nil {
		m.acked = make(map[string][]string)
	}
	m.acked[prop.ID] = append(m.acked[prop.ID], reservationIDs...)
	return nil
}

type mockNotifier struct {
	runIDs  []string
	reports []*RunReport
}

var _ Notifier = (*mockNotifier)(nil)

func (m *mockNotifier) PublishRunDigest(ctx context.Context, runID string, report *RunReport) error {
	m.runIDs = append(m.runIDs, runID)
	m.reports = append(m.reports, report)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard, Service: "test"})
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultCheckinTime:        "15:00",
		DefaultCheckoutTime:       "10:00",
		CityTaxProductCode:        "CITYTAX",
		CityTaxRate:               2.50,
		BreakfastCode:             "BREAKFAST",
		OTAPartnerIDs:             []string{"PARTNER-9"},
		PSPDetailDelay:            10 * time.Minute,
		AvailabilityBaseDelay:     5 * time.Minute,
		AvailabilityStagger:       time.Minute,
		AvailabilityHorizonYears:  2,
		AvailabilityHorizonMargin: 2,
	}
}
