package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"querynotes-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

// Provider talks to any OpenAI-compatible chat completion API
// (SiliconFlow, DeepSeek, a local Ollama /v1 endpoint, ...).
type Provider struct {
	client *goopenai.Client
	name   string
	model  string
}

// Ensure Provider implements LLMProvider
var _ llm.LLMProvider = &Provider{}

func NewProvider(client *goopenai.Client, name, model string) *Provider {
	return &Provider{
		client: client,
		name:   name,
		model:  model,
	}
}

// NewConnector returns a connector that builds one client per descriptor.
// startTimeout bounds how long a provider may take to send response headers;
// it does not cap the duration of a stream.
func NewConnector(startTimeout time.Duration) llm.Connector {
	return func(desc llm.Descriptor) (llm.ClientFunc, error) {
		if desc.APIKey == "" {
			return nil, fmt.Errorf("missing api key for provider %s", desc.Name)
		}

		if desc.BaseURL == "" {
			return nil, fmt.Errorf("missing base url for provider %s", desc.Name)
		}

		cfg := goopenai.DefaultConfig(desc.APIKey)
		cfg.BaseURL = desc.BaseURL

		transport := http.DefaultTransport.(*http.Transport).Clone()
		if startTimeout > 0 {
			transport.ResponseHeaderTimeout = startTimeout
		}
		cfg.HTTPClient = &http.Client{Transport: transport}

		client := goopenai.NewClientWithConfig(cfg)
		return func(model string) llm.LLMProvider {
			return NewProvider(client, desc.Name, model)
		}, nil
	}
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) Model() string {
	return p.model
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	req := p.buildRequest(history, llm.NewOptions(opts...))

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", p.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", p.name)
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Stream(ctx context.Context, history []llm.Message, opts ...llm.Option) (llm.Stream, error) {
	req := p.buildRequest(history, llm.NewOptions(opts...))
	req.Stream = true

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, p.wrapError(err)
	}

	return &chatStream{stream: stream}, nil
}

func (p *Provider) buildRequest(history []llm.Message, options *llm.Options) goopenai.ChatCompletionRequest {
	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = goopenai.ChatMessageRoleAssistant
		}
		messages[i] = goopenai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	return goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
		MaxTokens:   options.MaxTokens,
	}
}

func (p *Provider) wrapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s api error (status %d): %w", p.name, apiErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("%s request failed: %w", p.name, err)
}

type chatStream struct {
	stream *goopenai.ChatCompletionStream
}

func (s *chatStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

func (s *chatStream) Close() error {
	s.stream.Close()
	return nil
}
