package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProviders(t *testing.T) {
	siliconflow := Descriptor{Key: "siliconflow", Name: "SiliconFlow", ModelID: "Pro/deepseek-ai/DeepSeek-V3"}
	deepseek := Descriptor{Key: "deepseek", Name: "DeepSeek Official", ModelID: "deepseek-chat"}

	withKey := func(d Descriptor) Descriptor {
		d.APIKey = "sk-test"
		return d
	}

	tests := []struct {
		name         string
		candidates   []Descriptor
		wantPrimary  string
		wantFallback string
		wantErr      error
	}{
		{
			name:         "both configured",
			candidates:   []Descriptor{withKey(siliconflow), withKey(deepseek)},
			wantPrimary:  "siliconflow",
			wantFallback: "deepseek",
		},
		{
			name:        "only first configured",
			candidates:  []Descriptor{withKey(siliconflow), deepseek},
			wantPrimary: "siliconflow",
		},
		{
			name:        "only second configured",
			candidates:  []Descriptor{siliconflow, withKey(deepseek)},
			wantPrimary: "deepseek",
		},
		{
			name:       "none configured",
			candidates: []Descriptor{siliconflow, deepseek},
			wantErr:    ErrNoProviderAvailable,
		},
		{
			name:    "no candidates",
			wantErr: ErrNoProviderAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, fallback, err := ResolveProviders(tt.candidates)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPrimary, primary.Key)
			if tt.wantFallback == "" {
				assert.Nil(t, fallback)
				return
			}
			require.NotNil(t, fallback)
			assert.Equal(t, tt.wantFallback, fallback.Key)
		})
	}
}
