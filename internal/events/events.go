// Package events publishes best-effort notifications about new intake
// submissions to an external broker. Publishing never decides whether an
// intake succeeds; callers log and count failures and move on.
//
// Events carry the assessment outcome only. The questionnaire fields stay in
// the store.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tbourn/go-intake-backend/internal/config"
)

// TypeSubmissionCreated is the event type written for every new submission.
const TypeSubmissionCreated = "submission.created"

// SubmissionCreated describes a newly stored submission.
type SubmissionCreated struct {
	Type           string    `json:"type"`
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	RiskScore      int       `json:"riskScore"`
	RiskLevel      string    `json:"riskLevel"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Publisher delivers submission events.
type Publisher interface {
	Publish(ctx context.Context, ev SubmissionCreated) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, SubmissionCreated) error { return nil }
func (NopPublisher) Close() error                                    { return nil }

// New builds the publisher selected by cfg.Backend.
func New(ctx context.Context, cfg config.EventsConfig) (Publisher, error) {
	switch cfg.Backend {
	case config.EventsNone, "":
		return NopPublisher{}, nil
	case config.EventsKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Timeout)
	case config.EventsSQS:
		return NewSQSPublisher(ctx, cfg.SQSQueueName)
	default:
		return nil, fmt.Errorf("events: unsupported backend %q", cfg.Backend)
	}
}

func encode(ev SubmissionCreated) ([]byte, error) {
	if ev.Type == "" {
		ev.Type = TypeSubmissionCreated
	}
	return json.Marshal(ev)
}
