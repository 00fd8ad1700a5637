package llm

import (
	"errors"
)

var ErrNoProviderAvailable = errors.New("No AI provider is available. At least one of SILICONFLOW_API_KEY or DEEPSEEK_API_KEY must be set")

// Descriptor identifies one OpenAI-compatible backend.
type Descriptor struct {
	Key     string // stable identifier, e.g. "siliconflow"
	Name    string // display name used in logs and telemetry
	BaseURL string
	ModelID string
	APIKey  string
}

func (d Descriptor) IsAvailable() bool {
	return d.APIKey != ""
}

// ResolveProviders picks the primary and fallback from candidates, which
// are given in preference order. The first available candidate is primary,
// the next available one is fallback.
func ResolveProviders(candidates []Descriptor) (Descriptor, *Descriptor, error) {
	var available []Descriptor
	for _, c := range candidates {
		if c.IsAvailable() {
			available = append(available, c)
		}
	}

	if len(available) == 0 {
		return Descriptor{}, nil, ErrNoProviderAvailable
	}

	primary := available[0]
	if len(available) == 1 {
		return primary, nil, nil
	}

	fallback := available[1]
	return primary, &fallback, nil
}
