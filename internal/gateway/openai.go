package gateway

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

var _ Gateway = (*OpenAIGateway)(nil)

// OpenAIGateway drives an OpenAI-compatible chat completion API.
type OpenAIGateway struct {
	client *openai.Client
	model  string
}

// NewOpenAIGateway creates a gateway for the given API key and model.
// baseURL may be empty to use the default OpenAI endpoint, or point at any
// compatible server.
func NewOpenAIGateway(apiKey, model, baseURL string) *OpenAIGateway {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGateway{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (g *OpenAIGateway) request(prompt string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
}

// Complete issues one request and returns the full completion.
func (g *OpenAIGateway) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, g.request(prompt))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream issues one request and returns the completion as incremental fragments.
func (g *OpenAIGateway) Stream(ctx context.Context, prompt string) (Stream, error) {
	req := g.request(prompt)
	req.Stream = true

	stream, err := g.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion stream failed: %w", err)
	}
	return &openaiStream{stream: stream}, nil
}

type openaiStream struct {
	stream *openai.ChatCompletionStream
}

// Recv returns the next non-empty fragment, skipping role-only deltas.
func (s *openaiStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if err == io.EOF {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("stream receive failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

func (s *openaiStream) Close() error {
	return s.stream.Close()
}
