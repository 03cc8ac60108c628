package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader serves queued messages and cancels the consume loop once the
// queue is drained.
type fakeReader struct {
	queue     []kafkago.Message
	fetched   int
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if r.fetched >= len(r.queue) {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.queue[r.fetched]
	r.fetched++
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func newTestConsumer(t *testing.T, offsets ...int64) (*Consumer, *fakeReader, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reader := &fakeReader{cancel: cancel}
	for _, off := range offsets {
		reader.queue = append(reader.queue, kafkago.Message{Offset: off, Value: []byte("{}")})
	}
	c := newConsumer(reader, zap.NewNop())
	c.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
	}
	return c, reader, ctx
}

func TestConsume_CommitsHandledMessages(t *testing.T) {
	c, reader, ctx := newTestConsumer(t, 1, 2, 3)

	var handled []int64
	err := c.Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		handled = append(handled, msg.Offset)
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{1, 2, 3}, handled)
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}

func TestConsume_RetriesFailedMessageInPlace(t *testing.T) {
	c, reader, ctx := newTestConsumer(t, 7, 8)

	var handled []int64
	failures := map[int64]int{7: 1}
	err := c.Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		handled = append(handled, msg.Offset)
		if failures[msg.Offset] > 0 {
			failures[msg.Offset]--
			return errors.New("connection reset")
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{7, 7, 8}, handled)
	assert.Equal(t, []int64{7, 8}, reader.committed)
}

func TestConsume_StopsWhenRetriesExhausted(t *testing.T) {
	c, reader, ctx := newTestConsumer(t, 7, 8)

	calls := 0
	err := c.Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		calls++
		return errors.New("database unavailable")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 7")
	assert.Contains(t, err.Error(), "database unavailable")
	assert.Equal(t, 3, calls, "first attempt plus two retries")
	assert.Equal(t, 1, reader.fetched, "the next message is not fetched")
	assert.Empty(t, reader.committed)
}

func TestConsume_CancelledDuringRetry(t *testing.T) {
	c, reader, ctx := newTestConsumer(t, 4)

	err := c.Consume(ctx, func(_ context.Context, _ kafkago.Message) error {
		reader.cancel()
		return errors.New("connection reset")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reader.committed)
}
