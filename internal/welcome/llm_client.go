package welcome

import "context"

// SchemaField is one string property of a JSON response object.
type SchemaField struct {
	Name        string
	Description string
	Required    bool
}

// ResponseSchema describes a flat JSON object of string properties.
type ResponseSchema struct {
	Fields []SchemaField
}

// RequiredNames returns the names of the required properties in order.
func (s *ResponseSchema) RequiredNames() []string {
	if s == nil {
		return nil
	}
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type LLMRequest struct {
	Model       string
	Prompt      string
	Schema      *ResponseSchema
	MaxTokens   int32
	Temperature float32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
	Provider   string
}

// Provider names reported in LLMResponse.Provider and in logs.
const (
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
)

// LLMClient is the remote text-generation boundary.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// namedProvider is implemented by clients that know which provider they call.
type namedProvider interface {
	ProviderName() string
}

func providerName(c LLMClient) string {
	if n, ok := c.(namedProvider); ok {
		return n.ProviderName()
	}
	return "unknown"
}
