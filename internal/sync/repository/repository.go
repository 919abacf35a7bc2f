// Package repository holds the Mongo persistence layer of the sync engine.
// Every repository is an interface over a mongo-backed struct so services
// can be tested with function-field mocks.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names.
const (
	PropertiesCollection    = "ChannelProperties"
	UnitsCollection         = "RentalUnits"
	BookingsCollection      = "Bookings"
	ContractsCollection     = "Contracts"
	SojournGroupsCollection = "SojournGroups"
	ServiceLinesCollection  = "ServiceLines"
	ConsumptionsCollection  = "Consumptions"
	FundingsCollection      = "Fundings"
	PaymentsCollection      = "Payments"
	GuaranteesCollection    = "Guarantees"
	IdentitiesCollection    = "Identities"
	CustomersCollection     = "Customers"
	ContactsCollection      = "Contacts"
	RateListsCollection     = "RateLists"
	TasksCollection         = "ScheduledTasks"
	AlertsCollection        = "Alerts"
)

// withTimeout wraps the context with a timeout unless it already is a
// transaction session context, which must pass through unwrapped.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}
