package agent

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"clifton/internal/history"
	"clifton/internal/llm"
	"clifton/internal/trace"
)

const defaultSystemPrompt = "You are a CliftonStrengths profile assistant. " +
	"Use the available tools to store and retrieve employee strengths profiles, " +
	"and answer in plain language once you have what you need."

// giveUpAnswer is the final message when the model still wants tools on
// the last permitted step.
const giveUpAnswer = "Sorry, I could not finish that request in the allowed number of steps."

const defaultMaxIterations = 25

type ReactOption func(*ReactRunner)

func WithSystemPrompt(s string) ReactOption {
	return func(r *ReactRunner) { r.systemPrompt = s }
}

func WithMaxIterations(n int) ReactOption {
	return func(r *ReactRunner) {
		if n > 0 {
			r.maxIterations = n
		}
	}
}

// ReactRunner cycles between a reasoning step (one LLM call) and a tool
// execution step until the model answers without requesting tools.
// Tool failures are fed back as results, never raised out of the loop.
type ReactRunner struct {
	provider      llm.Provider
	store         *history.Store
	registry      *Registry
	tools         []responses.ToolUnionParam
	systemPrompt  string
	maxIterations int
}

func NewReactRunner(provider llm.Provider, store *history.Store, registry *Registry, opts ...ReactOption) *ReactRunner {
	r := &ReactRunner{
		provider:      provider,
		store:         store,
		registry:      registry,
		systemPrompt:  defaultSystemPrompt,
		maxIterations: defaultMaxIterations,
	}

	for _, opt := range opts {
		opt(r)
	}

	for _, t := range registry.All() {
		schema, _ := t.InputSchema().(map[string]any)
		r.tools = append(r.tools, responses.ToolUnionParam{
			OfFunction: &responses.FunctionToolParam{
				Name:        t.Name(),
				Description: openai.String(t.Description()),
				Parameters:  schema,
				Strict:      openai.Bool(true),
			},
		})
	}

	return r
}

func (r *ReactRunner) Run(ctx context.Context, sessionID string, message string, emit func(Event)) error {
	ctx = ContextWithSessionID(ctx, sessionID)

	ctx, span := trace.Tracer().Start(ctx, "agent.run",
		oteltrace.WithAttributes(
			attribute.String("session.id", sessionID),
		),
	)
	defer span.End()

	if err := r.store.EnsureSession(ctx, sessionID, "default"); err != nil {
		slog.Warn("failed to ensure session", "session_id", sessionID, "error", err)
	}

	input, err := r.store.LoadInputHistory(ctx, sessionID)
	if err != nil {
		slog.Warn("failed to load history", "session_id", sessionID, "error", err)
		input = nil
	}

	input = append(input,
		responses.ResponseInputItemParamOfMessage(r.systemPrompt, "developer"),
		responses.ResponseInputItemParamOfMessage(message, "user"),
	)

	resp, err := r.loop(ctx, input, emit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := r.store.SaveTurn(ctx, sessionID, message, resp); err != nil {
		slog.Warn("failed to save turn", "session_id", sessionID, "error", err)
	}

	emit(Event{Type: EventDone})
	return nil
}

// loop is the reasoning/tool-execution cycle. Each iteration makes one
// LLM call; requested tool calls are executed and their results appended
// to the conversation before the next reasoning step. The loop ends when
// the model answers without tool calls, or the iteration cap is hit.
func (r *ReactRunner) loop(ctx context.Context, input []responses.ResponseInputItemUnionParam, emit func(Event)) (*responses.Response, error) {
	var resp *responses.Response

	for iteration := 0; ; iteration++ {
		if err := ctx.Err(); err != nil {
			emit(Event{Type: EventError, Data: "request cancelled"})
			return nil, err
		}

		llmCtx, llmSpan := trace.Tracer().Start(ctx, "agent.reason",
			oteltrace.WithAttributes(attribute.Int("llm.iteration", iteration)),
		)

		var err error
		resp, err = r.provider.ChatStream(llmCtx, input, r.tools, func(token string) {
			emit(Event{Type: EventToken, Data: token})
		})
		if err != nil {
			llmSpan.RecordError(err)
			llmSpan.SetStatus(codes.Error, err.Error())
			llmSpan.End()
			emit(Event{Type: EventError, Data: err.Error()})
			return nil, err
		}
		llmSpan.End()

		// Feed the model's own output back into the conversation.
		input = append(input, history.OutputToInput(resp.Output)...)

		var calls []responses.ResponseOutputItemUnion
		for _, item := range resp.Output {
			if item.Type == "function_call" {
				calls = append(calls, item)
			}
		}

		// No tool calls: the response content is the final answer.
		if len(calls) == 0 {
			return resp, nil
		}

		// Iteration cap: answer with a plain apology instead of the
		// response that still carries unanswered tool calls, so the
		// checkpointed turn replays cleanly on the next run.
		if iteration+1 >= r.maxIterations {
			slog.Warn("iteration cap reached with pending tool calls", "iterations", r.maxIterations)
			emit(Event{Type: EventToken, Data: giveUpAnswer})
			return giveUpResponse(string(resp.Model)), nil
		}

		input = append(input, r.act(ctx, calls, emit)...)
	}
}

// act runs the queued tool calls one at a time, in the order the model
// requested them, so each result is in place before the next call runs.
// Unknown tools and execution errors become structured results the model
// sees on its next reasoning step.
func (r *ReactRunner) act(ctx context.Context, calls []responses.ResponseOutputItemUnion, emit func(Event)) []responses.ResponseInputItemUnionParam {
	results := make([]responses.ResponseInputItemUnionParam, 0, len(calls))

	for _, call := range calls {
		fc := call.AsFunctionCall()
		emit(Event{Type: EventToolCall, Data: map[string]string{
			"name":      fc.Name,
			"arguments": fc.Arguments,
		}})

		content := r.execute(ctx, fc.Name, fc.Arguments)
		results = append(results, responses.ResponseInputItemParamOfFunctionCallOutput(fc.CallID, content))
		emit(Event{Type: EventToolResult, Data: map[string]string{
			"name":    fc.Name,
			"content": content,
		}})
	}

	return results
}

// giveUpResponse builds an assistant message holding giveUpAnswer and no
// tool calls. It goes through JSON because the SDK's union accessors and
// RawJSON only work on decoded values.
func giveUpResponse(model string) *responses.Response {
	payload, _ := json.Marshal(map[string]any{
		"model": model,
		"output": []map[string]any{{
			"type":   "message",
			"role":   "assistant",
			"status": "completed",
			"content": []map[string]any{{
				"type":        "output_text",
				"text":        giveUpAnswer,
				"annotations": []any{},
			}},
		}},
	})

	var resp responses.Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		slog.Error("building final answer failed", "error", err)
	}
	return &resp
}

func (r *ReactRunner) execute(ctx context.Context, name, arguments string) string {
	tool, ok := r.registry.Get(name)
	if !ok {
		slog.Warn("unknown tool call", "name", name)
		return "error: unknown tool " + name
	}

	result, err := withTrace(tool).Execute(ctx, arguments)
	if err != nil {
		slog.Warn("tool execution failed", "name", name, "error", err)
		return "error: " + err.Error()
	}
	return result
}
