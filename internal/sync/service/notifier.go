package service

import (
	"context"
	"fmt"
	"time"

	"staysync/pkg/kafka"
	"staysync/pkg/logger"
)

// Event types consumed by the mailer service.
const (
	EventRunDigest    = "sync.run.digest"
	EventOfficeDigest = "sync.office.digest"
)

// Notifier publishes the run outcome. A clean run publishes nothing
// office-scoped; offices only hear about lines addressed to them.
type Notifier interface {
	PublishRunDigest(ctx context.Context, runID string, report *RunReport) error
}

type runDigestPayload struct {
	RunID        string    `json:"run_id"`
	FinishedAt   time.Time `json:"finished_at"`
	Created      int       `json:"created"`
	Updated      int       `json:"updated"`
	Cancelled    int       `json:"cancelled"`
	Skipped      int       `json:"skipped"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	Lines        []string  `json:"lines,omitempty"`
}

type officeDigestPayload struct {
	RunID      string   `json:"run_id"`
	BackOffice string   `json:"back_office"`
	Lines      []string `json:"lines"`
}

type kafkaNotifier struct {
	producer *kafka.Producer
	logger   *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, log *logger.Logger) Notifier {
	return &kafkaNotifier{producer: producer, logger: log}
}

// PublishRunDigest emits the operator digest when the run carried any error
// or warning, then one event per back office with only that office's lines.
func (n *kafkaNotifier) PublishRunDigest(ctx context.Context, runID string, report *RunReport) error {
	if report.Clean() {
		n.logger.Debug("clean run, no digest published", "run_id", runID)
		return nil
	}

	payload := runDigestPayload{
		RunID:        runID,
		FinishedAt:   time.Now().UTC(),
		Created:      report.Created,
		Updated:      report.Updated,
		Cancelled:    report.Cancelled,
		Skipped:      report.Skipped,
		ErrorCount:   report.ErrorCount,
		WarningCount: report.WarningCount,
	}
	for _, line := range report.Lines {
		payload.Lines = append(payload.Lines, fmt.Sprintf("[%s] %s", line.Level, line.Message))
	}

	msg := kafka.NewMessage().
		WithKey(runID).
		WithEventType(EventRunDigest).
		WithSource("staysync").
		WithValue(payload).
		Build()
	if err := n.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish run digest: %w", err)
	}

	for office, lines := range report.OfficeLines() {
		msg := kafka.NewMessage().
			WithKey(office).
			WithEventType(EventOfficeDigest).
			WithSource("staysync").
			WithValue(officeDigestPayload{RunID: runID, BackOffice: office, Lines: lines}).
			Build()
		if err := n.producer.Publish(ctx, msg); err != nil {
			return fmt.Errorf("failed to publish office digest for %s: %w", office, err)
		}
	}
	return nil
}
