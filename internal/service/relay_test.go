package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katakuxiko/paperrelay/internal/config"
	"github.com/katakuxiko/paperrelay/internal/model"
)

type sliceStream struct {
	frags  []string
	err    error
	closed bool
}

func (s *sliceStream) Next() (string, error) {
	if len(s.frags) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	f := s.frags[0]
	s.frags = s.frags[1:]
	return f, nil
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

type fakeStreamer struct {
	model    string
	messages []openai.ChatCompletionMessage
	stream   FragmentStream
	err      error
}

func (f *fakeStreamer) Stream(_ context.Context, model string, messages []openai.ChatCompletionMessage) (FragmentStream, error) {
	f.model = model
	f.messages = messages
	return f.stream, f.err
}

func TestRelayOpenSelectsVariant(t *testing.T) {
	tests := []struct {
		name      string
		req       model.MessageRequest
		wantModel string
		wantSys   string
	}{
		{"translate", model.MessageRequest{Text: "Hello world", Label: "translate"}, config.DefaultTranslateModel, translateInstruction},
		{"explain", model.MessageRequest{Text: "Explain transformers", Label: "explain"}, config.DefaultExplainModel, explainInstruction},
		{"empty request", model.MessageRequest{}, config.DefaultExplainModel, explainInstruction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeStreamer{stream: &sliceStream{}}
			svc := NewRelayService(fs, NewPrompts(testConfig(), nil))

			_, v, err := svc.Open(context.Background(), tt.req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantModel, v.Model)
			assert.Equal(t, tt.wantModel, fs.model)
			require.Len(t, fs.messages, 2)
			assert.Equal(t, openai.ChatMessageRoleSystem, fs.messages[0].Role)
			assert.Equal(t, tt.wantSys, fs.messages[0].Content)
			assert.Equal(t, openai.ChatMessageRoleUser, fs.messages[1].Role)
			assert.Equal(t, tt.req.Text, fs.messages[1].Content)
		})
	}
}

func TestRelayOpenUpstreamError(t *testing.T) {
	fs := &fakeStreamer{err: errors.New("401 unauthorized")}
	svc := NewRelayService(fs, NewPrompts(testConfig(), nil))

	_, _, err := svc.Open(context.Background(), model.MessageRequest{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 unauthorized")
}

func TestRelayPumpPreservesOrder(t *testing.T) {
	svc := NewRelayService(&fakeStreamer{}, NewPrompts(testConfig(), nil))
	frags := []string{"你好", "，世界", "!", " ok"}

	var buf bytes.Buffer
	flushes := 0
	n, err := svc.Pump(&sliceStream{frags: append([]string(nil), frags...)}, &buf, func() error {
		flushes++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, strings.Join(frags, ""), buf.String())
	assert.Equal(t, buf.Len(), n)
	assert.Equal(t, len(frags), flushes)
}

func TestRelayPumpUpstreamFailure(t *testing.T) {
	svc := NewRelayService(&fakeStreamer{}, NewPrompts(testConfig(), nil))
	boom := errors.New("connection reset")

	var buf bytes.Buffer
	_, err := svc.Pump(&sliceStream{frags: []string{"partial"}, err: boom}, &buf, nil)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "partial", buf.String())
}

func TestRelayPumpStopsOnFlushError(t *testing.T) {
	svc := NewRelayService(&fakeStreamer{}, NewPrompts(testConfig(), nil))
	gone := errors.New("client gone")

	var buf bytes.Buffer
	stream := &sliceStream{frags: []string{"a", "b", "c"}}
	_, err := svc.Pump(stream, &buf, func() error { return gone })

	assert.ErrorIs(t, err, gone)
	assert.Equal(t, "a", buf.String())
	assert.Len(t, stream.frags, 2)
}
