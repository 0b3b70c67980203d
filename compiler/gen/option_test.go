package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "Custom header", c.Header)
		assert.Equal(t, "Custom header", c.HeaderComment())
	})

	t.Run("empty header falls back to default", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
		assert.Equal(t, defaultHeader, c.HeaderComment())
	})
}

func TestRequiredStringOptions(t *testing.T) {
	tests := []struct {
		name   string
		opt    func(string) Option
		option string
		get    func(*Config) string
	}{
		{"namespace", WithNamespace, "Namespace", func(c *Config) string { return c.Namespace }},
		{"keyspace", WithKeyspace, "Keyspace", func(c *Config) string { return c.Keyspace }},
		{"target", WithTarget, "Target", func(c *Config) string { return c.Target }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			require.NoError(t, tt.opt("value")(c))
			assert.Equal(t, "value", tt.get(c))

			err := tt.opt("")(c)
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
			assert.Contains(t, err.Error(), tt.option)
		})
	}
}

func TestWithFeatures(t *testing.T) {
	t.Run("adds features once", func(t *testing.T) {
		c := &Config{}
		err := WithFeatures(FeatureJSONTags, FeatureJSONTags, FeatureStringer)(c)

		require.NoError(t, err)
		assert.Len(t, c.Features, 2)
		assert.True(t, c.HasFeature("jsontags"))
	})

	t.Run("by name", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithFeatureNames("jsontags", "schemacomments")(c))
		assert.True(t, c.HasFeature("schemacomments"))
	})

	t.Run("unknown names are all reported", func(t *testing.T) {
		c := &Config{}
		err := WithFeatureNames("nope", "jsontags", "other")(c)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "nope")
		assert.Contains(t, err.Error(), "other")
		assert.True(t, c.HasFeature("jsontags"))
	})

	t.Run("without", func(t *testing.T) {
		c := DefaultConfig()
		require.True(t, c.HasFeature("stringer"))
		require.NoError(t, WithoutFeatures("stringer")(c))
		assert.False(t, c.HasFeature("stringer"))
		assert.True(t, c.HasFeature("listbypartition"))
	})

	t.Run("without unknown", func(t *testing.T) {
		c := DefaultConfig()
		err := WithoutFeatures("nope", "stringer")(c)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.False(t, c.HasFeature("stringer"))
	})

	t.Run("without does not touch shared slices", func(t *testing.T) {
		all := append([]Feature(nil), AllFeatures...)
		c := &Config{Features: all}
		require.NoError(t, WithoutFeatures("jsontags")(c))
		assert.Equal(t, AllFeatures, all)
	})
}

func TestWithWorkers(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithWorkers(3)(c))
	assert.Equal(t, 3, c.NumWorkers())

	require.NoError(t, WithWorkers(0)(c))
	assert.Positive(t, c.NumWorkers())

	err := WithWorkers(-1)(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestConfigApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithNamespace("example.com/shop"),
			WithKeyspace(""),
			WithTarget("./out"),
		)

		require.Error(t, err)
		assert.Equal(t, "example.com/shop", c.Namespace)
		assert.Empty(t, c.Target)
	})
}

func TestConfigApplyAll(t *testing.T) {
	t.Run("collects all errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(
			WithNamespace(""),
			WithKeyspace(""),
			WithTarget("./out"),
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Namespace")
		assert.Contains(t, err.Error(), "Keyspace")
		assert.Equal(t, "./out", c.Target)
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("applies defaults and options", func(t *testing.T) {
		c, err := NewConfig(WithNamespace("example.com/shop"), WithKeyspace("shop"))

		require.NoError(t, err)
		assert.Equal(t, defaultHeader, c.Header)
		assert.True(t, c.HasFeature("stringer"))
		assert.True(t, c.HasFeature("listbypartition"))
		assert.False(t, c.HasFeature("jsontags"))
		assert.True(t, c.Preview())
		assert.NoError(t, c.Validate())
	})

	t.Run("returns option error", func(t *testing.T) {
		c, err := NewConfig(WithWorkers(-2))
		require.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestMustNewConfig(t *testing.T) {
	assert.NotPanics(t, func() { MustNewConfig(WithKeyspace("shop")) })
	assert.Panics(t, func() { MustNewConfig(WithKeyspace("")) })
}
