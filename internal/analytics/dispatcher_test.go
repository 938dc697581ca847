package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
	err    error
	closed bool
}

func (s *recordingSink) Send(_ context.Context, ev Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *recordingSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Name)
	}
	return out
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, nil, 8)
	d.Start()

	d.Track(TaskCreated("main"))
	d.Track(TaskToggled("t1", true))
	d.Track(TabDeleted("work"))
	d.Stop()

	assert.Equal(t, []string{EventTaskCreated, EventTaskToggled, EventTabDeleted}, sink.names())
	assert.True(t, sink.closed)
	assert.Zero(t, d.Dropped())
}

func TestDispatcherStampsTime(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, nil, 1)
	fixed := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }
	d.Start()
	d.Track(PremiumUpgraded())
	d.Stop()

	require.Len(t, sink.events, 1)
	assert.Equal(t, fixed, sink.events[0].At)
}

func TestDispatcherDropsWhenBufferFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	d := NewDispatcher(sink, nil, 1)
	d.Start()

	for i := 0; i < 25; i++ {
		d.Track(ButtonClicked("add", "tasks"))
	}
	assert.Greater(t, d.Dropped(), uint64(0))

	close(sink.block)
	d.Stop()
}

func TestDispatcherTrackAfterStopIsDropped(t *testing.T) {
	d := NewDispatcher(&recordingSink{}, nil, 4)
	d.Start()
	d.Stop()
	d.Stop()

	d.Track(TabViewed("main"))
	assert.Equal(t, uint64(1), d.Dropped())
}

func TestDispatcherLogsSinkErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	sink := &recordingSink{err: errors.New("broker down")}
	d := NewDispatcher(sink, logger, 2)
	d.Start()
	d.Track(ThemeChanged("nord"))
	d.Stop()

	assert.Contains(t, buf.String(), "broker down")
	assert.Contains(t, buf.String(), EventThemeChanged)
}

func TestNopTracker(t *testing.T) {
	var tr Tracker = Nop{}
	tr.Track(TaskCreated("main"))
}

func TestLogSinkWritesProperties(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: log.New(&buf)}
	require.NoError(t, sink.Send(context.Background(), PriorityChanged("t1", "P0")))
	out := buf.String()
	assert.Contains(t, out, EventPriorityChanged)
	assert.Contains(t, out, "taskId=t1")
	assert.Contains(t, out, "priority=P0")
}

func TestKafkaMessageEncoding(t *testing.T) {
	at := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	ev := TaskDeleted("t1", "main")
	ev.At = at

	msg, err := kafkaMessage(ev)
	require.NoError(t, err)
	assert.Equal(t, EventTaskDeleted, string(msg.Key))
	assert.Equal(t, at, msg.Time)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, EventTaskDeleted, decoded["name"])
	props := decoded["properties"].(map[string]any)
	assert.Equal(t, "t1", props["taskId"])
	assert.Equal(t, "main", props["tabId"])
}

func TestInteractionMergesDetails(t *testing.T) {
	ev := Interaction("premium_required", "priority_change", Properties{"taskId": "t1"})
	assert.Equal(t, EventInteraction, ev.Name)
	assert.Equal(t, "t1", ev.Properties["taskId"])
	assert.Equal(t, "priority_change", ev.Properties["context"])
}
