package factory

import (
	"fmt"
	"sync"

	"querynotes-be/pkg/llm"
)

// ModelResolver hands out model handles for the primary and the optional
// fallback provider.
type ModelResolver interface {
	Primary() llm.Descriptor
	Fallback() *llm.Descriptor
	GetModel(modelOverride string) (llm.LLMProvider, error)
	GetFallbackModel(modelOverride string) (llm.LLMProvider, error)
}

// InvalidModelError reports that no usable handle could be built for a role.
type InvalidModelError struct {
	Role string
	Err  error
}

func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("Invalid %s provider model.", e.Role)
}

func (e *InvalidModelError) Unwrap() error {
	return e.Err
}

type lazyClient struct {
	desc    llm.Descriptor
	once    sync.Once
	connect llm.Connector
	client  llm.ClientFunc
	err     error
}

func (l *lazyClient) get() (llm.ClientFunc, error) {
	l.once.Do(func() {
		l.client, l.err = l.connect(l.desc)
	})
	return l.client, l.err
}

// SmartProvider builds model handles for a resolved provider pair. Clients
// are connected on first use, so an unused fallback costs nothing.
type SmartProvider struct {
	primary  *lazyClient
	fallback *lazyClient
}

var _ ModelResolver = &SmartProvider{}

func NewSmartProvider(primary llm.Descriptor, fallback *llm.Descriptor, connect llm.Connector) *SmartProvider {
	sp := &SmartProvider{
		primary: &lazyClient{desc: primary, connect: connect},
	}
	if fallback != nil {
		sp.fallback = &lazyClient{desc: *fallback, connect: connect}
	}
	return sp
}

func (sp *SmartProvider) Primary() llm.Descriptor {
	return sp.primary.desc
}

func (sp *SmartProvider) Fallback() *llm.Descriptor {
	if sp.fallback == nil {
		return nil
	}
	desc := sp.fallback.desc
	return &desc
}

// GetModel returns a handle for the primary provider. An empty override
// selects the provider's configured model.
func (sp *SmartProvider) GetModel(modelOverride string) (llm.LLMProvider, error) {
	return sp.model(sp.primary, "primary", modelOverride)
}

// GetFallbackModel returns nil without error when no fallback is configured.
func (sp *SmartProvider) GetFallbackModel(modelOverride string) (llm.LLMProvider, error) {
	if sp.fallback == nil {
		return nil, nil
	}
	return sp.model(sp.fallback, "fallback", modelOverride)
}

func (sp *SmartProvider) model(l *lazyClient, role, modelOverride string) (llm.LLMProvider, error) {
	client, err := l.get()
	if err != nil {
		return nil, &InvalidModelError{Role: role, Err: err}
	}

	modelName := l.desc.ModelID
	if modelOverride != "" {
		modelName = modelOverride
	}

	model := client(modelName)
	if model == nil {
		return nil, &InvalidModelError{Role: role}
	}
	return model, nil
}
