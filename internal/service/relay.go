package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sashabaranov/go-openai"

	"github.com/katakuxiko/paperrelay/internal/model"
	"github.com/katakuxiko/paperrelay/internal/util"
)

// RelayService forwards a user message to the upstream model and hands the
// generated fragments back to the caller.
type RelayService struct {
	llm     ChatStreamer
	prompts *Prompts
}

func NewRelayService(llm ChatStreamer, prompts *Prompts) *RelayService {
	return &RelayService{llm: llm, prompts: prompts}
}

// Messages builds the system + user pair sent upstream for a variant.
func Messages(v model.Variant, text string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: v.Instruction},
		{Role: openai.ChatMessageRoleUser, Content: text},
	}
}

// Open selects the variant for req.Label and opens the upstream stream.
// Cancelling ctx aborts the upstream request.
func (s *RelayService) Open(ctx context.Context, req model.MessageRequest) (FragmentStream, model.Variant, error) {
	v := s.prompts.Select(req.Label)
	log.Debugw("relay request",
		"label", req.Label,
		"variant", v.Label,
		"model", v.Model,
		"text", util.TruncateRunes(req.Text, 80),
	)

	stream, err := s.llm.Stream(ctx, v.Model, Messages(v, req.Text))
	if err != nil {
		return nil, v, fmt.Errorf("relay %s: %w", v.Label, err)
	}
	return stream, v, nil
}

// Pump copies fragments from stream to w until the stream ends, calling
// flush after every write. It returns the number of bytes written.
// A nil error means the upstream completed normally.
func (s *RelayService) Pump(stream FragmentStream, w io.Writer, flush func() error) (int, error) {
	written := 0
	for {
		frag, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, err
		}

		n, err := io.WriteString(w, frag)
		written += n
		if err != nil {
			return written, fmt.Errorf("write fragment: %w", err)
		}
		if flush != nil {
			if err := flush(); err != nil {
				return written, fmt.Errorf("flush fragment: %w", err)
			}
		}
	}
}
