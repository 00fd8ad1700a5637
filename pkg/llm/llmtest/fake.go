// Package llmtest provides scripted providers for exercising code that
// depends on pkg/llm without a network.
package llmtest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"querynotes-be/pkg/llm"
)

// Provider replies with Reply (or Chunks when streaming) unless Err is set,
// and records every call.
type Provider struct {
	Name   string
	Reply  string
	Chunks []string
	Err    error

	// StreamErr is returned from Recv after all chunks were delivered.
	StreamErr error

	mu      sync.Mutex
	calls   int
	history [][]llm.Message
	options []*llm.Options
}

var _ llm.LLMProvider = &Provider{}

func (p *Provider) record(history []llm.Message, opts []llm.Option) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.history = append(p.history, history)
	p.options = append(p.options, llm.NewOptions(opts...))
}

func (p *Provider) Chat(_ context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.record(history, opts)
	if p.Err != nil {
		return "", p.Err
	}
	return p.Reply, nil
}

func (p *Provider) Stream(_ context.Context, history []llm.Message, opts ...llm.Option) (llm.Stream, error) {
	p.record(history, opts)
	if p.Err != nil {
		return nil, p.Err
	}

	chunks := p.Chunks
	if chunks == nil && p.Reply != "" {
		chunks = []string{p.Reply}
	}
	return &Stream{chunks: chunks, err: p.StreamErr}, nil
}

func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// LastHistory returns the messages of the most recent call.
func (p *Provider) LastHistory() []llm.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.history) == 0 {
		return nil
	}
	return p.history[len(p.history)-1]
}

// LastOptions returns the resolved options of the most recent call.
func (p *Provider) LastOptions() *llm.Options {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.options) == 0 {
		return nil
	}
	return p.options[len(p.options)-1]
}

// Stream delivers fixed chunks, then err or io.EOF.
type Stream struct {
	chunks []string
	err    error
	pos    int
	Closed bool
}

func NewStream(chunks ...string) *Stream {
	return &Stream{chunks: chunks}
}

func (s *Stream) Recv() (string, error) {
	if s.pos < len(s.chunks) {
		s.pos++
		return s.chunks[s.pos-1], nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", io.EOF
}

func (s *Stream) Close() error {
	s.Closed = true
	return nil
}

var ErrNotScripted = errors.New("no scripted provider")

// Connector maps descriptor keys to scripted providers. Unknown keys fail to
// connect. Connects counts how many clients were built per key.
type Connector struct {
	Providers map[string]*Provider

	mu       sync.Mutex
	connects map[string]int
	models   map[string][]string
}

func (c *Connector) Connect(desc llm.Descriptor) (llm.ClientFunc, error) {
	c.mu.Lock()
	if c.connects == nil {
		c.connects = make(map[string]int)
	}
	c.connects[desc.Key]++
	c.mu.Unlock()

	p, ok := c.Providers[desc.Key]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNotScripted, desc.Key)
	}
	return func(model string) llm.LLMProvider {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.models == nil {
			c.models = make(map[string][]string)
		}
		c.models[desc.Key] = append(c.models[desc.Key], model)
		return p
	}, nil
}

// Models lists the model ids requested from the client for key.
func (c *Connector) Models(key string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.models[key]
}

func (c *Connector) Connects(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects[key]
}
