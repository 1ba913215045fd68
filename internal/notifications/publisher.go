// Package notifications dispatches fired visibility alerts to their
// delivery channels. A log publisher is always active; an SQS publisher
// hands alerts to downstream consumers when a queue is configured.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"auroracast/internal/types"
)

// Publisher delivers a fired alert to one channel. Implementations must be
// safe for concurrent use; the scheduler fans out to all publishers on each
// fired alert and logs (but does not retry) individual failures.
type Publisher interface {
	Publish(ctx context.Context, msg types.AlertMessage) error
}

// Compile-time assertions that both channels implement Publisher.
var (
	_ Publisher = (*LogPublisher)(nil)
	_ Publisher = (*SQSPublisher)(nil)
)

// LogPublisher writes fired alerts to the structured log. It is the
// fallback channel and is always registered.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher. A nil logger falls back to
// slog.Default().
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, msg types.AlertMessage) error {
	p.logger.InfoContext(ctx, "visibility alert fired",
		"alert_id", msg.ID,
		"score", msg.Score,
		"threshold_percent", msg.ThresholdPercent,
		"state", string(msg.State),
		"lat", msg.Lat,
		"lon", msg.Lon,
		"fired_at", msg.FiredAt,
	)
	return nil
}

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher serializes fired alerts to JSON and sends them to a single
// SQS queue for downstream delivery workers.
type SQSPublisher struct {
	client   SQSSender
	queueURL string
	logger   *slog.Logger
}

// NewSQSPublisher creates an SQSPublisher targeting the given queue URL.
func NewSQSPublisher(client SQSSender, queueURL string, logger *slog.Logger) *SQSPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQSPublisher{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
	}
}

func (p *SQSPublisher) Publish(ctx context.Context, msg types.AlertMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("notifications: failed to marshal alert %s: %w", msg.ID, err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"state": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(msg.State)),
			},
		},
	}

	if _, err := p.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("notifications: failed to send alert %s to %s: %w", msg.ID, p.queueURL, err)
	}

	p.logger.InfoContext(ctx, "alert message sent",
		"queue_url", p.queueURL,
		"alert_id", msg.ID,
		"score", msg.Score,
	)

	return nil
}
