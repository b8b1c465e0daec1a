package router

import (
	"context"
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcphub-dev/mcphub/internal/activity"
	"github.com/mcphub-dev/mcphub/internal/domain"
	internalerrors "github.com/mcphub-dev/mcphub/internal/errors"
	"github.com/mcphub-dev/mcphub/internal/registry"
)

// fakeInvoker records the dispatch target and returns scripted outcomes.
type fakeInvoker struct {
	lastServer string
	lastName   string
	lastArgs   map[string]any

	toolPayload string
	toolErr     error

	promptResult *mcp.GetPromptResult
	promptErr    error
}

func (f *fakeInvoker) InvokeTool(_ context.Context, server, tool string, arguments map[string]any) (string, error) {
	f.lastServer = server
	f.lastName = tool
	f.lastArgs = arguments
	if f.toolErr != nil {
		return "", f.toolErr
	}
	return f.toolPayload, nil
}

func (f *fakeInvoker) RenderPrompt(_ context.Context, server, prompt string, _ map[string]string) (*mcp.GetPromptResult, error) {
	f.lastServer = server
	f.lastName = prompt
	if f.promptErr != nil {
		return nil, f.promptErr
	}
	return f.promptResult, nil
}

func newTestRouter(t *testing.T, reg *registry.Registry, invoker *fakeInvoker) (*Router, *activity.Log) {
	t.Helper()

	log := activity.NewLog(0)
	r, err := NewRouter(hclog.NewNullLogger(), reg, invoker, log)
	require.NoError(t, err)

	return r, log
}

func echoSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{"type": "string"},
		},
		"required": []string{"message"},
	}
}

func TestRouter_Invoke_Tool(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry()
	reg.Rebuild("weather", []domain.Capability{
		{Name: "get_forecast", Kind: domain.CapabilityKindTool},
	})

	invoker := &fakeInvoker{toolPayload: "sunny"}
	r, log := newTestRouter(t, reg, invoker)

	result, err := r.Invoke(context.Background(), "get_forecast", map[string]any{"city": "Berlin"})
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.Equal(t, "get_forecast", result.Capability)
	assert.Equal(t, "weather", result.Server)
	assert.Equal(t, "sunny", result.Payload)
	assert.Empty(t, result.Error)

	// The call is dispatched by bare name to the owning server.
	assert.Equal(t, "weather", invoker.lastServer)
	assert.Equal(t, "get_forecast", invoker.lastName)

	// Request and response appear in the activity log, in order.
	entries := log.Snapshot()
	require.Len(t, entries, 2)
	assert.Equal(t, domain.DirectionRequest, entries[0].Direction)
	assert.Equal(t, domain.DirectionResponse, entries[1].Direction)
	assert.Equal(t, "get_forecast", entries[0].Capability)
	assert.Equal(t, "sunny", entries[1].Payload)
}

func TestRouter_Invoke_QualifiedNameDispatchesBareName(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry()
	reg.Rebuild("weather", []domain.Capability{{Name: "search", Kind: domain.CapabilityKindTool}})
	reg.Rebuild("docs", []domain.Capability{{Name: "search", Kind: domain.CapabilityKindTool}})

	invoker := &fakeInvoker{toolPayload: "results"}
	r, _ := newTestRouter(t, reg, invoker)

	result, err := r.Invoke(context.Background(), "docs.search", nil)
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.Equal(t, "docs", invoker.lastServer)
	assert.Equal(t, "search", invoker.lastName)
	assert.Equal(t, "docs.search", result.Capability)
}

func TestRouter_Invoke_UnknownCapability(t *testing.T) {
	t.Parallel()

	r, log := newTestRouter(t, registry.NewRegistry(), &fakeInvoker{})

	_, err := r.Invoke(context.Background(), "missing", nil)
	require.ErrorIs(t, err, internalerrors.ErrCapabilityNotFound)

	// Resolution failures never reach the activity log.
	assert.Empty(t, log.Snapshot())
}

func TestRouter_Invoke_ArgumentValidation(t *testing.T) {
	t.Parallel()

	t.Run("rejects schema violation", func(t *testing.T) {
		t.Parallel()

		reg := registry.NewRegistry()
		reg.Rebuild("utils", []domain.Capability{
			{Name: "echo", Kind: domain.CapabilityKindTool, InputSchema: echoSchema()},
		})

		invoker := &fakeInvoker{}
		r, log := newTestRouter(t, reg, invoker)

		_, err := r.Invoke(context.Background(), "echo", map[string]any{"wrong_key": true})
		require.ErrorIs(t, err, internalerrors.ErrArgumentsInvalid)

		// Nothing is dispatched and nothing is logged for an invalid call.
		assert.Empty(t, invoker.lastName)
		assert.Empty(t, log.Snapshot())
	})

	t.Run("accepts valid arguments", func(t *testing.T) {
		t.Parallel()

		reg := registry.NewRegistry()
		reg.Rebuild("utils", []domain.Capability{
			{Name: "echo", Kind: domain.CapabilityKindTool, InputSchema: echoSchema()},
		})

		invoker := &fakeInvoker{toolPayload: "hi"}
		r, _ := newTestRouter(t, reg, invoker)

		result, err := r.Invoke(context.Background(), "echo", map[string]any{"message": "hi"})
		require.NoError(t, err)
		assert.True(t, result.OK)
	})

	t.Run("schemaless capability passes through", func(t *testing.T) {
		t.Parallel()

		reg := registry.NewRegistry()
		reg.Rebuild("utils", []domain.Capability{
			{Name: "free_form", Kind: domain.CapabilityKindTool},
		})

		invoker := &fakeInvoker{toolPayload: "ok"}
		r, _ := newTestRouter(t, reg, invoker)

		result, err := r.Invoke(context.Background(), "free_form", map[string]any{"anything": "goes"})
		require.NoError(t, err)
		assert.True(t, result.OK)
	})
}

func TestRouter_Invoke_RemoteFailureInResult(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry()
	reg.Rebuild("math", []domain.Capability{{Name: "divide", Kind: domain.CapabilityKindTool}})

	invoker := &fakeInvoker{
		toolErr: fmt.Errorf("%w: math/divide: division by zero", internalerrors.ErrRemoteCall),
	}
	r, log := newTestRouter(t, reg, invoker)

	result, err := r.Invoke(context.Background(), "divide", map[string]any{"b": 0})

	// Remote failures are reported inside the result, not as Go errors.
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "division by zero")
	assert.Nil(t, result.Payload)

	entries := log.Snapshot()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[1].Err, "division by zero")
}

func TestRouter_Invoke_Prompt(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry()
	reg.Rebuild("writing", []domain.Capability{
		{Name: "summarize", Kind: domain.CapabilityKindPrompt},
	})

	invoker := &fakeInvoker{
		promptResult: &mcp.GetPromptResult{Description: "a summary prompt"},
	}
	r, _ := newTestRouter(t, reg, invoker)

	result, err := r.Invoke(context.Background(), "summarize", map[string]any{"text": "long text"})
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.Equal(t, "writing", invoker.lastServer)
	assert.Equal(t, "summarize", invoker.lastName)

	rendered, ok := result.Payload.(*mcp.GetPromptResult)
	require.True(t, ok)
	assert.Equal(t, "a summary prompt", rendered.Description)
}

func TestNewRouter_Validation(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry()
	invoker := &fakeInvoker{}
	log := activity.NewLog(0)

	_, err := NewRouter(nil, reg, invoker, log)
	require.Error(t, err)

	_, err = NewRouter(hclog.NewNullLogger(), nil, invoker, log)
	require.Error(t, err)

	_, err = NewRouter(hclog.NewNullLogger(), reg, nil, log)
	require.Error(t, err)

	_, err = NewRouter(hclog.NewNullLogger(), reg, invoker, nil)
	require.Error(t, err)
}
