package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/openai/openai-go/v3/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clifton/internal/db"
	"clifton/internal/history"
)

// scriptedProvider returns canned responses in order, or generates them
// when a generator is set. Responses are built from JSON so the SDK's
// union accessors behave exactly as they do on live API output.
type scriptedProvider struct {
	scripts  []string
	generate func(call int) string
	calls    int
	err      error
}

func (p *scriptedProvider) ChatStream(ctx context.Context, input []responses.ResponseInputItemUnionParam, tools []responses.ToolUnionParam, onToken func(string)) (*responses.Response, error) {
	if p.err != nil {
		return nil, p.err
	}

	var raw string
	if p.generate != nil {
		raw = p.generate(p.calls)
	} else {
		if p.calls >= len(p.scripts) {
			return nil, fmt.Errorf("no scripted response for call %d", p.calls)
		}
		raw = p.scripts[p.calls]
	}
	p.calls++

	var resp responses.Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func toolCallResponse(id int, name, arguments string) string {
	b, _ := json.Marshal(map[string]any{
		"id":    fmt.Sprintf("resp_%d", id),
		"model": "test-model",
		"output": []map[string]any{
			{
				"type":      "function_call",
				"id":        fmt.Sprintf("fc_%d", id),
				"call_id":   fmt.Sprintf("call_%d", id),
				"name":      name,
				"arguments": arguments,
				"status":    "completed",
			},
		},
	})
	return string(b)
}

func twoToolCallResponse(id int, firstName, secondName string) string {
	b, _ := json.Marshal(map[string]any{
		"id":    fmt.Sprintf("resp_%d", id),
		"model": "test-model",
		"output": []map[string]any{
			{
				"type": "function_call", "id": fmt.Sprintf("fc_%d_a", id),
				"call_id": fmt.Sprintf("call_%d_a", id), "name": firstName,
				"arguments": "{}", "status": "completed",
			},
			{
				"type": "function_call", "id": fmt.Sprintf("fc_%d_b", id),
				"call_id": fmt.Sprintf("call_%d_b", id), "name": secondName,
				"arguments": "{}", "status": "completed",
			},
		},
	})
	return string(b)
}

func finalResponse(id int, text string) string {
	b, _ := json.Marshal(map[string]any{
		"id":    fmt.Sprintf("resp_%d", id),
		"model": "test-model",
		"output": []map[string]any{
			{
				"type":   "message",
				"id":     fmt.Sprintf("msg_%d", id),
				"role":   "assistant",
				"status": "completed",
				"content": []map[string]any{
					{"type": "output_text", "text": text, "annotations": []any{}},
				},
			},
		},
	})
	return string(b)
}

// fakeTool records its invocations into a shared log.
type fakeTool struct {
	name string
	log  *[]string
	err  error
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "test tool " + f.name }
func (f *fakeTool) InputSchema() any {
	return map[string]any{
		"type": "object", "properties": map[string]any{},
		"required": []string{}, "additionalProperties": false,
	}
}

func (f *fakeTool) Execute(ctx context.Context, input string) (string, error) {
	*f.log = append(*f.log, f.name)
	if f.err != nil {
		return "", f.err
	}
	return `{"success":true}`, nil
}

func newTestHistory(t *testing.T) *history.Store {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	t.Cleanup(func() { database.Close() })
	return history.NewStore(database)
}

func collectEvents(events *[]Event) func(Event) {
	return func(ev Event) { *events = append(*events, ev) }
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func TestRun_ToolCallThenAnswer(t *testing.T) {
	var log []string
	registry := NewRegistry()
	registry.Register(&fakeTool{name: "store_profile", log: &log})

	provider := &scriptedProvider{scripts: []string{
		toolCallResponse(1, "store_profile", `{"first_name":"Jane"}`),
		finalResponse(2, "Stored it."),
	}}

	store := newTestHistory(t)
	runner := NewReactRunner(provider, store, registry)

	var events []Event
	err := runner.Run(context.Background(), "sess-1", "store Jane's profile", collectEvents(&events))
	require.NoError(t, err)

	assert.Equal(t, []string{"store_profile"}, log)
	assert.Equal(t, 2, provider.calls)

	types := eventTypes(events)
	assert.Contains(t, types, EventToolCall)
	assert.Contains(t, types, EventToolResult)
	assert.Equal(t, EventDone, types[len(types)-1])

	// The turn was checkpointed.
	sessions, err := store.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sess-1", sessions[0].ID)

	items, err := store.LoadInputHistory(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.NotEmpty(t, items)
}

func TestRun_UnknownToolIsRejectedNotFatal(t *testing.T) {
	registry := NewRegistry()

	provider := &scriptedProvider{scripts: []string{
		toolCallResponse(1, "drop_tables", `{}`),
		finalResponse(2, "That tool does not exist."),
	}}

	runner := NewReactRunner(provider, newTestHistory(t), registry)

	var events []Event
	err := runner.Run(context.Background(), "sess-1", "do something odd", collectEvents(&events))
	require.NoError(t, err)

	var result string
	for _, ev := range events {
		if ev.Type == EventToolResult {
			result = ev.Data.(map[string]string)["content"]
		}
	}
	assert.Contains(t, result, "unknown tool")
	assert.Equal(t, EventDone, events[len(events)-1].Type)
}

func TestRun_ToolFailureFedBack(t *testing.T) {
	var log []string
	registry := NewRegistry()
	registry.Register(&fakeTool{name: "get_profile", log: &log, err: errors.New("boom")})

	provider := &scriptedProvider{scripts: []string{
		toolCallResponse(1, "get_profile", `{}`),
		finalResponse(2, "The lookup failed, sorry."),
	}}

	runner := NewReactRunner(provider, newTestHistory(t), registry)

	var events []Event
	err := runner.Run(context.Background(), "sess-1", "look up Jane", collectEvents(&events))
	require.NoError(t, err)

	var result string
	for _, ev := range events {
		if ev.Type == EventToolResult {
			result = ev.Data.(map[string]string)["content"]
		}
	}
	assert.Contains(t, result, "error: boom")
	assert.Equal(t, EventDone, events[len(events)-1].Type)
}

func TestRun_QueuedCallsRunInOrder(t *testing.T) {
	var log []string
	registry := NewRegistry()
	registry.Register(&fakeTool{name: "get_profile", log: &log})
	registry.Register(&fakeTool{name: "get_all_profiles", log: &log})

	provider := &scriptedProvider{scripts: []string{
		twoToolCallResponse(1, "get_profile", "get_all_profiles"),
		finalResponse(2, "Both done."),
	}}

	runner := NewReactRunner(provider, newTestHistory(t), registry)

	var events []Event
	err := runner.Run(context.Background(), "sess-1", "fetch things", collectEvents(&events))
	require.NoError(t, err)

	assert.Equal(t, []string{"get_profile", "get_all_profiles"}, log)
}

func TestRun_IterationCapAnswersWithApology(t *testing.T) {
	var log []string
	registry := NewRegistry()
	registry.Register(&fakeTool{name: "get_profile", log: &log})

	provider := &scriptedProvider{generate: func(call int) string {
		return toolCallResponse(call, "get_profile", `{}`)
	}}

	runner := NewReactRunner(provider, newTestHistory(t), registry, WithMaxIterations(3))

	var events []Event
	err := runner.Run(context.Background(), "sess-1", "loop forever", collectEvents(&events))
	require.NoError(t, err)

	assert.Equal(t, 3, provider.calls)

	var tokens []string
	for _, ev := range events {
		if ev.Type == EventToken {
			tokens = append(tokens, ev.Data.(string))
		}
	}
	require.NotEmpty(t, tokens)
	assert.Equal(t, giveUpAnswer, tokens[len(tokens)-1])
	assert.Equal(t, EventDone, events[len(events)-1].Type)
}

func TestRun_CappedTurnReplaysCleanly(t *testing.T) {
	var log []string
	registry := NewRegistry()
	registry.Register(&fakeTool{name: "get_profile", log: &log})

	provider := &scriptedProvider{generate: func(call int) string {
		return toolCallResponse(call, "get_profile", `{}`)
	}}

	store := newTestHistory(t)
	runner := NewReactRunner(provider, store, registry, WithMaxIterations(1))

	var events []Event
	err := runner.Run(context.Background(), "sess-1", "loop forever", collectEvents(&events))
	require.NoError(t, err)

	// The checkpointed turn must hold a plain answer: every replayed
	// function_call needs a matching output or the next call fails.
	items, err := store.LoadInputHistory(context.Background(), "sess-1")
	require.NoError(t, err)

	var calls, outputs, messages int
	for _, item := range items {
		switch {
		case item.OfFunctionCall != nil:
			calls++
		case item.OfFunctionCallOutput != nil:
			outputs++
		case item.OfOutputMessage != nil:
			messages++
		}
	}
	assert.Equal(t, calls, outputs, "replayed function_call without matching output")
	assert.Equal(t, 1, messages)

	last := items[len(items)-1]
	require.NotNil(t, last.OfOutputMessage)
	require.NotEmpty(t, last.OfOutputMessage.Content)
	assert.Equal(t, giveUpAnswer, last.OfOutputMessage.Content[0].OfOutputText.Text)
}

func TestRun_ProviderErrorPropagates(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("model offline")}
	runner := NewReactRunner(provider, newTestHistory(t), NewRegistry())

	var events []Event
	err := runner.Run(context.Background(), "sess-1", "hello", collectEvents(&events))
	require.Error(t, err)

	types := eventTypes(events)
	assert.Contains(t, types, EventError)
	assert.NotContains(t, types, EventDone)
}
