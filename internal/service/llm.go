package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"

	"github.com/katakuxiko/paperrelay/internal/config"
)

// FragmentStream yields generated text in arrival order.
// Next returns io.EOF once the upstream stream is complete.
type FragmentStream interface {
	Next() (string, error)
	Close() error
}

// ChatStreamer opens a streaming chat completion.
type ChatStreamer interface {
	Stream(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (FragmentStream, error)
}

// LLMClient: client for the Ark / OpenAI compatible chat API
type LLMClient struct {
	client *openai.Client
}

// NewLLMClient creates the shared client from config
func NewLLMClient(cfg *config.Config) *LLMClient {
	oaiCfg := openai.DefaultConfig(cfg.APIKey)
	oaiCfg.BaseURL = cfg.BaseURL
	client := openai.NewClientWithConfig(oaiCfg)

	return &LLMClient{client: client}
}

// Stream opens a chat completion with stream=true. Errors establishing the
// stream (auth, network, non-2xx status) are returned here.
func (l *LLMClient) Stream(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (FragmentStream, error) {
	stream, err := l.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("open completion stream (%s): %w", model, err)
	}
	return &completionStream{stream: stream}, nil
}

type completionStream struct {
	stream *openai.ChatCompletionStream
}

func (s *completionStream) Next() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("receive completion chunk: %w", err)
		}
		// chunks without content (role preamble, usage, finish) are skipped
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		return resp.Choices[0].Delta.Content, nil
	}
}

func (s *completionStream) Close() error {
	return s.stream.Close()
}
