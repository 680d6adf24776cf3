package generate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"codeport/pkg/validate"
)

const (
	geminiBackendName   = "Gemini"
	defaultGeminiModel  = "gemini-2.0-flash"
	generateTemperature = 0.1
	generateMaxTokens   = 16384
)

// GeminiBackend converts code through the Google GenAI API.
type GeminiBackend struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiBackend builds a Gemini-backed converter. An empty API key
// yields a backend that reports unavailable instead of an error, so the
// rest of the system can start without credentials.
func NewGeminiBackend(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == "" {
		model = defaultGeminiModel
	}

	backend := &GeminiBackend{model: model, logger: logger}
	if apiKey == "" {
		logger.Warn("No Gemini API key configured, conversion disabled")
		return backend, nil
	}
	if err := validate.APIKey(apiKey); err != nil {
		logger.Warn("Gemini API key failed shape check", zap.Error(err))
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	backend.client = client
	return backend, nil
}

func (g *GeminiBackend) Name() string {
	return geminiBackendName
}

// Available reports whether an API key was configured.
func (g *GeminiBackend) Available() bool {
	return g.client != nil
}

func (g *GeminiBackend) Convert(ctx context.Context, opts ConvertOptions) (string, error) {
	if !g.Available() {
		return "", &UnavailableError{Backend: geminiBackendName}
	}

	prompt := BuildPrompt(opts)
	g.logger.Debug("Requesting conversion",
		zap.String("model", g.model),
		zap.String("target", opts.TargetLanguage))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.generateConfig())
	if err != nil {
		return "", &CallError{Backend: geminiBackendName, Err: err}
	}
	return resp.Text(), nil
}

// ConvertStream accumulates the streamed chunks and invokes fn with the
// growing text after each one.
func (g *GeminiBackend) ConvertStream(ctx context.Context, opts ConvertOptions, fn StreamFunc) (string, error) {
	if !g.Available() {
		return "", &UnavailableError{Backend: geminiBackendName}
	}

	prompt := BuildPrompt(opts)
	accumulated := ""

	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), g.generateConfig()) {
		if err != nil {
			return accumulated, &CallError{Backend: geminiBackendName, Err: err}
		}
		accumulated += resp.Text()
		if fn != nil {
			fn(accumulated)
		}
	}
	return accumulated, nil
}

func (g *GeminiBackend) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](generateTemperature),
		MaxOutputTokens:   generateMaxTokens,
	}
}

// Close releases the underlying client, if one was created. The genai
// client holds no resources that need explicit release.
func (g *GeminiBackend) Close() error {
	return nil
}
