package config

import (
	"testing"
	"time"

	"querynotes-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SILICONFLOW_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "sk-deepseek")
	t.Setenv("STORE_DRIVER", StoreDriverMemory)
	t.Setenv("AI_RESPONSE_HEADER_TIMEOUT", "45")
	t.Setenv("REDIS_URL", "")
	t.Setenv("NOTE_CACHE_TTL", "")
	t.Setenv("DEEPSEEK_BASE_URL", "")
	t.Setenv("DEEPSEEK_MODEL", "")

	cfg := Load()

	assert.Equal(t, StoreDriverMemory, cfg.App.StoreDriver)
	assert.Equal(t, EventBusLocal, cfg.App.EventBus)
	assert.Equal(t, 45*time.Second, cfg.Ai.ResponseHeaderTimeout)
	assert.Equal(t, "deepseek-chat", cfg.Ai.DeepSeekModel)
	assert.Empty(t, cfg.App.RedisURL)
	assert.Equal(t, 30*time.Second, cfg.App.NoteCacheTTL)

	primary, fallback, err := llm.ResolveProviders(cfg.Ai.Providers())
	require.NoError(t, err)
	assert.Equal(t, "DeepSeek Official", primary.Name)
	assert.Equal(t, "https://api.deepseek.com/v1", primary.BaseURL)
	assert.Nil(t, fallback)
}

func TestAIConfig_ProvidersOrder(t *testing.T) {
	cfg := AIConfig{
		SiliconFlowAPIKey:  "sk-sf",
		SiliconFlowBaseURL: "https://api.siliconflow.cn/v1",
		SiliconFlowModel:   "Pro/deepseek-ai/DeepSeek-V3",
		DeepSeekAPIKey:     "sk-ds",
		DeepSeekModel:      "deepseek-chat",
	}

	primary, fallback, err := llm.ResolveProviders(cfg.Providers())
	require.NoError(t, err)
	assert.Equal(t, "siliconflow", primary.Key)
	assert.Equal(t, "Pro/deepseek-ai/DeepSeek-V3", primary.ModelID)
	require.NotNil(t, fallback)
	assert.Equal(t, "deepseek", fallback.Key)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "1m30s")
	t.Setenv("TEST_BAD", "soon")

	assert.True(t, getEnvAsBool("TEST_BOOL", false))
	assert.False(t, getEnvAsBool("TEST_BAD", false))
	assert.Equal(t, 90*time.Second, getEnvAsDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_BAD", time.Second))
	assert.Equal(t, 7, getEnvAsInt("TEST_MISSING_INT", 7))
}
