package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/NotCoffee418/smartcity_solar/pkg/livefeed"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUpdate() *livefeed.TickUpdate {
	return &livefeed.TickUpdate{
		TickID:  "0f8c7d1e-aaaa-bbbb-cccc-123456789abc",
		Season:  "summer",
		Weather: "sunny",
		Readings: []types.Reading{
			{Timestamp: "2025-01-10 12:00:00", HouseID: 1, ConsumptionKWh: 10, GenerationKWh: 24, SurplusKWh: 14},
			{Timestamp: "2025-01-10 12:00:00", HouseID: 2, ConsumptionKWh: 30, GenerationKWh: 24, SurplusKWh: -6},
		},
	}
}

func TestFormatTopic(t *testing.T) {
	assert.Equal(t, "smartcity/7/reading", formatTopic("smartcity/{house_id}/reading", 7))
	assert.Equal(t, "static", formatTopic("static", 7))
}

func TestBuildMessages(t *testing.T) {
	msgs := buildMessages(sampleUpdate())
	require.Len(t, msgs, 2)
	assert.Equal(t, ReadingMessage{
		TickID:         "0f8c7d1e-aaaa-bbbb-cccc-123456789abc",
		Timestamp:      "2025-01-10 12:00:00",
		HouseID:        2,
		ConsumptionKWh: 30,
		GenerationKWh:  24,
		SurplusKWh:     -6,
		Season:         "summer",
		Weather:        "sunny",
	}, msgs[1])

	paused := sampleUpdate()
	paused.Paused = true
	assert.Empty(t, buildMessages(paused))
	assert.Empty(t, buildMessages(nil))
}

type fakeWriter struct {
	written []kafka.Message
	err     error
	closed  bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisherKeysByHouse(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), sampleUpdate()))
	require.Len(t, w.written, 2)
	assert.Equal(t, "1", string(w.written[0].Key))
	assert.Equal(t, "2", string(w.written[1].Key))

	var msg ReadingMessage
	require.NoError(t, json.Unmarshal(w.written[1].Value, &msg))
	assert.Equal(t, -6.0, msg.SurplusKWh)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherSkipsPausedTick(t *testing.T) {
	w := &fakeWriter{err: errors.New("must not be called")}
	p := &KafkaPublisher{writer: w}

	update := sampleUpdate()
	update.Paused = true
	assert.NoError(t, p.Publish(context.Background(), update))
}

type recordingPublisher struct {
	calls int
	err   error
}

func (r *recordingPublisher) Publish(context.Context, *livefeed.TickUpdate) error {
	r.calls++
	return r.err
}

func (r *recordingPublisher) Close() error { return nil }

func TestMultiContinuesAfterFailure(t *testing.T) {
	broken := &recordingPublisher{err: errors.New("broker down")}
	healthy := &recordingPublisher{}

	err := Multi{broken, healthy}.Publish(context.Background(), sampleUpdate())
	assert.EqualError(t, err, "broker down")
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, healthy.calls)

	assert.NoError(t, Multi{}.Publish(context.Background(), sampleUpdate()))
}
