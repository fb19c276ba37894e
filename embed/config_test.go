package embed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, "document", cfg.InputType)
		assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
		assert.Empty(t, cfg.Endpoint)
		assert.Empty(t, cfg.Model)
		assert.Empty(t, cfg.APIKey)
	})

	t.Run("with custom endpoint and model", func(t *testing.T) {
		cfg := NewConfig(
			WithEndpoint("http://localhost:8080/v1/embeddings"),
			WithModel("voyage-code-3"),
		)
		assert.Equal(t, "http://localhost:8080/v1/embeddings", cfg.Endpoint)
		assert.Equal(t, "voyage-code-3", cfg.Model)
	})

	t.Run("with all options", func(t *testing.T) {
		cfg := NewConfig(
			WithEndpoint("https://api.voyageai.com/v1/embeddings"),
			WithModel("voyage-code-3"),
			WithInputType("query"),
			WithAPIKey("test-key"),
			WithRequestTimeout(30*time.Second),
		)
		assert.Equal(t, "https://api.voyageai.com/v1/embeddings", cfg.Endpoint)
		assert.Equal(t, "voyage-code-3", cfg.Model)
		assert.Equal(t, "query", cfg.InputType)
		assert.Equal(t, "test-key", cfg.APIKey)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return NewConfig(
			WithEndpoint("http://localhost:8080/v1/embeddings"),
			WithModel("voyage-code-3"),
		)
	}

	t.Run("valid config", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing endpoint", func(t *testing.T) {
		cfg := valid()
		cfg.Endpoint = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Endpoint")
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := valid()
		cfg.Model = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Model")
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := valid()
		cfg.RequestTimeout = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RequestTimeout")
	})

	t.Run("empty api key is allowed", func(t *testing.T) {
		cfg := valid()
		cfg.APIKey = ""
		require.NoError(t, cfg.Validate())
	})
}
