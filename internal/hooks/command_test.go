package hooks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/soyeahso/voli/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandHandlerPipesPayload(t *testing.T) {
	out := filepath.Join(t.TempDir(), "payload.json")
	h := CommandHandler(config.HookEntry{Command: "cat > " + out})

	err := h(context.Background(), Payload{Event: EventSessionStart, Data: map[string]any{"sessionId": "abc"}})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var p Payload
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, EventSessionStart, p.Event)
	assert.Equal(t, "abc", p.Data["sessionId"])
}

func TestCommandHandlerFailure(t *testing.T) {
	h := CommandHandler(config.HookEntry{Command: "echo boom >&2; exit 3"})

	err := h(context.Background(), Payload{Event: EventSessionEnd})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCommandHandlerTimeout(t *testing.T) {
	h := CommandHandler(config.HookEntry{Command: "exec sleep 5", Timeout: 50})

	err := h(context.Background(), Payload{Event: EventSessionEnd})
	assert.Error(t, err)
}

func TestRegisterCommands(t *testing.T) {
	m := testManager()
	n := RegisterCommands(m, config.HooksConfig{
		SessionStart: []config.HookEntry{{Command: "true"}, {Command: "true"}},
		GatewayStop:  []config.HookEntry{{Command: "true"}},
	})

	assert.Equal(t, 3, n)
	assert.Equal(t, 2, m.Count(EventSessionStart))
	assert.Equal(t, 1, m.Count(EventGatewayStop))
	assert.Equal(t, 0, m.Count(EventReplySent))
}
