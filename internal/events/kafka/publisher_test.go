package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledger-core-go/internal/events"
	"ledger-core-go/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func sampleEvent() events.EntryRecorded {
	payerBalance := int64(1000)
	payeeBalance := int64(9000)
	return events.EntryRecorded{
		EntryId:      "01JAB5VG3Y8Q2N4M6P8R0T2V4X",
		Kind:         models.EntryKindTransfer,
		PayerId:      "0b8c2d7e-4f1a-4c3b-9d2e-6a5f4e3d2c1b",
		PayeeId:      "9f8e7d6c-5b4a-4392-8170-6f5e4d3c2b1a",
		Amount:       3000,
		PayerBalance: &payerBalance,
		PayeeBalance: &payeeBalance,
		OccurredAt:   time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCanonicalPayload_SortedKeys(t *testing.T) {
	payload, err := canonicalPayload(sampleEvent())
	require.NoError(t, err)

	want := `{"amount":3000,"entry_id":"01JAB5VG3Y8Q2N4M6P8R0T2V4X","kind":"TRANSFER",` +
		`"occurred_at":"2024-10-01T12:00:00Z","payee_balance":9000,` +
		`"payee_id":"9f8e7d6c-5b4a-4392-8170-6f5e4d3c2b1a","payer_balance":1000,` +
		`"payer_id":"0b8c2d7e-4f1a-4c3b-9d2e-6a5f4e3d2c1b"}`
	assert.Equal(t, want, string(payload))
}

func TestPublishEntryRecorded(t *testing.T) {
	writer := &recordingWriter{}
	publisher := &Publisher{writer: writer, topic: "ledger.entries"}
	event := sampleEvent()

	require.NoError(t, publisher.PublishEntryRecorded(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, event.PayerId, string(msg.Key))
	assert.Equal(t, event.OccurredAt, msg.Time)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, events.TypeEntryRecorded, string(msg.Headers[0].Value))
	assert.Equal(t, event.EntryId, string(msg.Headers[1].Value))

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestPublishEntryRecorded_WriterFailure(t *testing.T) {
	brokerDown := errors.New("dial tcp: connection refused")
	publisher := &Publisher{writer: &recordingWriter{err: brokerDown}, topic: "ledger.entries"}

	err := publisher.PublishEntryRecorded(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, brokerDown)
	assert.Contains(t, err.Error(), "ledger.entries")
}
