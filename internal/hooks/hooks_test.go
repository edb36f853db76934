package hooks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soyeahso/voli/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager(logging.New(nil, "silent"))
}

func TestManager_On_And_Emit(t *testing.T) {
	m := testManager()

	var called bool
	m.On(EventSessionStart, "test", func(_ context.Context, p Payload) error {
		called = true
		assert.Equal(t, EventSessionStart, p.Event)
		return nil
	})

	m.Emit(context.Background(), EventSessionStart, nil)
	assert.True(t, called)
}

func TestManager_Emit_OrderAndData(t *testing.T) {
	m := testManager()

	var order []string
	var got map[string]any
	m.On(EventMessageReceived, "first", func(_ context.Context, p Payload) error {
		order = append(order, "first")
		got = p.Data
		return nil
	})
	m.On(EventMessageReceived, "second", func(_ context.Context, _ Payload) error {
		order = append(order, "second")
		return nil
	})

	m.Emit(context.Background(), EventMessageReceived, map[string]any{"sessionId": "s1"})
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, "s1", got["sessionId"])
}

func TestManager_Emit_HandlerErrorDoesNotStopOthers(t *testing.T) {
	m := testManager()

	var secondCalled bool
	m.On(EventGenerationFailed, "failing", func(_ context.Context, _ Payload) error {
		return errors.New("handler broke")
	})
	m.On(EventGenerationFailed, "second", func(_ context.Context, _ Payload) error {
		secondCalled = true
		return nil
	})

	m.Emit(context.Background(), EventGenerationFailed, nil)
	assert.True(t, secondCalled)
}

func TestManager_NilIsNoop(t *testing.T) {
	var m *Manager
	m.Emit(context.Background(), EventGatewayStop, nil)
	m.EmitAsync(context.Background(), EventGatewayStop, nil)
	assert.Equal(t, 0, m.Count(EventGatewayStop))
	assert.Nil(t, m.Events())
}

func TestManager_EmitAsync(t *testing.T) {
	m := testManager()

	var count atomic.Int32
	var wg sync.WaitGroup
	wg.Add(2)
	for _, name := range []string{"a", "b"} {
		m.On(EventReplySent, name, func(_ context.Context, _ Payload) error {
			count.Add(1)
			wg.Done()
			return nil
		})
	}

	m.EmitAsync(context.Background(), EventReplySent, nil)

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handlers did not complete in time")
	}
	assert.Equal(t, int32(2), count.Load())
}

func TestManager_CountAndEvents(t *testing.T) {
	m := testManager()
	assert.Equal(t, 0, m.Count(EventSessionEnd))

	m.On(EventSessionEnd, "h1", func(_ context.Context, _ Payload) error { return nil })
	m.On(EventGatewayStart, "h2", func(_ context.Context, _ Payload) error { return nil })

	assert.Equal(t, 1, m.Count(EventSessionEnd))
	assert.ElementsMatch(t, []string{EventSessionEnd, EventGatewayStart}, m.Events())
}

func TestAllEvents(t *testing.T) {
	require.Len(t, AllEvents, 7)
	assert.Contains(t, AllEvents, EventGenerationFailed)
}
