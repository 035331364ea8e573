package llm

import (
	"context"

	"github.com/openai/openai-go/v3/responses"
)

// Provider is the reasoning collaborator: one blocking call per
// reasoning step, returning the model's full response.
type Provider interface {
	ChatStream(ctx context.Context, input []responses.ResponseInputItemUnionParam, tools []responses.ToolUnionParam, onToken func(string)) (*responses.Response, error)
}
