package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auroracast/internal/types"
)

// mockSQSSender captures SendMessage calls for test assertions.
type mockSQSSender struct {
	calls []*sqs.SendMessageInput
	err   error
}

func (m *mockSQSSender) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sqs.SendMessageOutput{}, nil
}

const testQueueURL = "https://sqs.eu-north-1.amazonaws.com/123456789/aurora-alerts"

func testAlert() types.AlertMessage {
	return types.AlertMessage{
		ID:               "alert-1",
		Score:            72.5,
		ThresholdPercent: 50,
		State:            types.EvaluationFresh,
		Lat:              69.65,
		Lon:              18.96,
		FiredAt:          time.Date(2026, 1, 15, 22, 30, 0, 0, time.UTC),
	}
}

func TestSQSPublisher_SendsJSONBody(t *testing.T) {
	mock := &mockSQSSender{}
	pub := NewSQSPublisher(mock, testQueueURL, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := pub.Publish(context.Background(), testAlert())
	require.NoError(t, err)
	require.Len(t, mock.calls, 1)

	call := mock.calls[0]
	assert.Equal(t, testQueueURL, *call.QueueUrl)

	var got types.AlertMessage
	require.NoError(t, json.Unmarshal([]byte(*call.MessageBody), &got))
	assert.Equal(t, "alert-1", got.ID)
	assert.Equal(t, 72.5, got.Score)
	assert.Equal(t, types.EvaluationFresh, got.State)

	attr, ok := call.MessageAttributes["state"]
	require.True(t, ok)
	assert.Equal(t, "fresh", *attr.StringValue)
}

func TestSQSPublisher_SendFailure(t *testing.T) {
	mock := &mockSQSSender{err: errors.New("queue unavailable")}
	pub := NewSQSPublisher(mock, testQueueURL, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := pub.Publish(context.Background(), testAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alert-1")
}

func TestLogPublisher_NeverFails(t *testing.T) {
	pub := NewLogPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NoError(t, pub.Publish(context.Background(), testAlert()))
}
