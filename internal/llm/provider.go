package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/replyscore/internal/logging"
	"github.com/ppiankov/replyscore/internal/model"
)

// Provider defines the interface for LLM judges
type Provider interface {
	// Name returns the provider name
	Name() string

	// Judge asks the model which expected facts the candidate reply contains
	Judge(ctx context.Context, req JudgeRequest) (*JudgeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// JudgeRequest contains the input for one judge call
type JudgeRequest struct {
	// Candidate is the reply under evaluation
	Candidate string

	// Facts are the expected facts, in the order flags are reported
	Facts model.FactSet

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// JudgeResponse contains the parsed judge output
type JudgeResponse struct {
	// Verdict is the validated fact verdict
	Verdict model.FactVerdict

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int

	// Raw is the unparsed model output
	Raw string
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	// Logger receives availability diagnostics; nil discards them
	Logger logging.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 500,
	}
}

func (c Config) logger() logging.Logger {
	if c.Logger == nil {
		return logging.Nop()
	}
	return c.Logger
}

const systemPrompt = "You are a strict validator of chatbot replies. You only report which expected facts appear in a reply and answer with a single JSON object."

// BuildPrompt constructs the default judge prompt for a candidate reply
func BuildPrompt(candidate string, facts model.FactSet) string {
	var b strings.Builder

	b.WriteString("Check whether the reply below states each expected fact. A fact counts as present only if its value appears in the reply.\n\n")
	b.WriteString("Expected facts:\n")
	for _, f := range facts {
		fmt.Fprintf(&b, "- %s (%s): %s\n", f.Name, f.DisplayName(), f.Value)
	}

	fmt.Fprintf(&b, "\nReply:\n%q\n\n", candidate)

	b.WriteString("Answer with exactly this JSON object and nothing else:\n{\n")
	for _, f := range facts {
		fmt.Fprintf(&b, "  %q: true or false,\n", PresenceKey(f.Name))
	}
	fmt.Fprintf(&b, "  %q: true or false,\n", keyAllCorrect)
	fmt.Fprintf(&b, "  %q: a number between 0 and 1,\n", keyConfidence)
	fmt.Fprintf(&b, "  %q: a short explanation\n}\n", keyNotes)

	return b.String()
}

// resolve fills request defaults from provider configuration
func resolve(req JudgeRequest, config Config, defaultModel string) (prompt, model string, maxTokens int) {
	prompt = req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Candidate, req.Facts)
	}

	model = req.Model
	if model == "" {
		model = config.Model
	}
	if model == "" {
		model = defaultModel
	}

	maxTokens = req.MaxTokens
	if maxTokens == 0 {
		maxTokens = config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 500
	}

	return prompt, model, maxTokens
}
