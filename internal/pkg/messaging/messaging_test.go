package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    int
	last     OutgoingMessage
	closed   bool
}

func (f *fakePublisher) Publish(_ context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.last = msg
	if f.calls <= f.failures {
		return PublishResult{}, f.err
	}
	return PublishResult{MessageID: "id-1", Topic: destination}, nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func TestNewFromDriver(t *testing.T) {
	t.Run("empty driver is noop", func(t *testing.T) {
		pub, err := NewFromDriver(context.Background(), "", FactoryOptions{})
		require.NoError(t, err)
		assert.IsType(t, &Noop{}, pub)
	})

	t.Run("none driver is noop", func(t *testing.T) {
		pub, err := NewFromDriver(context.Background(), " none ", FactoryOptions{})
		require.NoError(t, err)
		assert.IsType(t, &Noop{}, pub)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewFromDriver(context.Background(), "rabbitmq", FactoryOptions{})
		assert.ErrorIs(t, err, ErrUnknownDriver)
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := NewFromDriver(context.Background(), DriverNATS, FactoryOptions{})
		assert.ErrorIs(t, err, ErrNATSURLRequired)

		_, err = NewFromDriver(context.Background(), DriverKafka, FactoryOptions{})
		assert.ErrorIs(t, err, ErrKafkaBrokersRequired)

		_, err = NewFromDriver(context.Background(), DriverNSQ, FactoryOptions{})
		assert.ErrorIs(t, err, ErrNSQProducerAddrRequired)

		_, err = NewFromDriver(context.Background(), DriverGooglePubSub, FactoryOptions{})
		assert.ErrorIs(t, err, ErrPubSubProjectIDRequired)
	})
}

func TestNoop(t *testing.T) {
	pub := NewNoop()

	res, err := pub.Publish(context.Background(), "audit", OutgoingMessage{Body: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "audit", res.Topic)
	assert.False(t, res.Timestamp.IsZero())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pub.Publish(ctx, "audit", OutgoingMessage{})
	assert.ErrorIs(t, err, context.Canceled)

	assert.NoError(t, pub.Close())
}

func TestKafkaPublishValidation(t *testing.T) {
	k, err := NewKafka(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	_, err = k.Publish(context.Background(), "", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrKafkaTopicRequired)

	require.NoError(t, k.Close())
	require.NoError(t, k.Close())

	_, err = k.Publish(context.Background(), "audit", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRetrying(t *testing.T) {
	cfg := RetryConfig{Base: time.Millisecond, Cap: 2 * time.Millisecond, MaxRetries: 3}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		fake := &fakePublisher{failures: 2, err: errors.New("broker down")}
		pub := NewRetrying(fake, cfg)

		res, err := pub.Publish(context.Background(), "audit", OutgoingMessage{Body: []byte("v")})
		require.NoError(t, err)
		assert.Equal(t, "id-1", res.MessageID)
		assert.Equal(t, 3, fake.calls)
		assert.Equal(t, []byte("v"), fake.last.Body)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		boom := errors.New("broker down")
		fake := &fakePublisher{failures: 100, err: boom}
		pub := NewRetrying(fake, cfg)

		_, err := pub.Publish(context.Background(), "audit", OutgoingMessage{})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 4, fake.calls)
	})

	t.Run("does not retry closed publisher", func(t *testing.T) {
		fake := &fakePublisher{failures: 100, err: ErrClosed}
		pub := NewRetrying(fake, cfg)

		_, err := pub.Publish(context.Background(), "audit", OutgoingMessage{})
		assert.ErrorIs(t, err, ErrClosed)
		assert.Equal(t, 1, fake.calls)
	})

	t.Run("close is delegated", func(t *testing.T) {
		fake := &fakePublisher{}
		require.NoError(t, NewRetrying(fake, cfg).Close())
		assert.True(t, fake.closed)
	})
}

func TestHeaderMap(t *testing.T) {
	assert.Nil(t, headerMap(nil))
	assert.Equal(t,
		map[string]string{"x-correlation-id": "abc"},
		headerMap([]Header{{Key: "x-correlation-id", Value: []byte("abc")}, {Key: "", Value: []byte("drop")}}),
	)
}
