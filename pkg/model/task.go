package model

import (
	"time"
)

// Task names known to the executor.
const (
	TaskAvailabilityPush = "availability_push"
	TaskPSPDetailFetch   = "psp_detail_fetch"
)

// ScheduledTask is a durable deferred job: availability pushes staggered to
// respect channel rate limits, and PSP payment-detail fetches. The cron
// trigger that drains due tasks is external.
type ScheduledTask struct {
	ID     string            `json:"id,omitempty" bson:"_id,omitempty"`
	Name   string            `json:"name" bson:"name" validate:"required"`
	RunAt  time.Time         `json:"run_at" bson:"run_at" validate:"required"`
	Params map[string]string `json:"params" bson:"params"`

	Done      bool      `json:"done" bson:"done"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Alert is a persistent operator notification scoped to one entity and one
// back-office group, distinct from transient run-report warnings. Raising an
// already-active alert with the same name and scope is a no-op.
type Alert struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string    `json:"name" bson:"name" validate:"required"`
	Scope      string    `json:"scope" bson:"scope" validate:"required"`
	BackOffice string    `json:"back_office" bson:"back_office" validate:"required"`
	Message    string    `json:"message" bson:"message"`
	Active     bool      `json:"active" bson:"active"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
