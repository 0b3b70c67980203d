package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPackage(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"github.com/acme/shop", "shop"},
		{"github.com/acme/shop/", "shop"},
		{"github.com/acme/shop-model", "shopmodel"},
		{"Shop", "shop"},
		{"github.com/acme/v2", "v2"},
		{"github.com/acme/2fa", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			c := &Config{Namespace: tt.namespace}
			assert.Equal(t, tt.expected, c.Package())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Namespace: "example.com/shop", Keyspace: "shop"}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		option string
	}{
		{"missing namespace", func(c *Config) { c.Namespace = "" }, "Namespace"},
		{"missing keyspace", func(c *Config) { c.Keyspace = "" }, "Keyspace"},
		{"bad package name", func(c *Config) { c.Namespace = "example.com/42" }, "Namespace"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "Workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingConfig)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}
}

func TestConfigFeatureEnabled(t *testing.T) {
	t.Run("returns true for enabled feature", func(t *testing.T) {
		c := &Config{Features: []Feature{FeatureJSONTags}}

		enabled, err := c.FeatureEnabled("jsontags")

		assert.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("returns false for disabled feature", func(t *testing.T) {
		c := &Config{Features: []Feature{FeatureJSONTags}}

		enabled, err := c.FeatureEnabled("stringer")

		assert.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("returns error for unknown feature", func(t *testing.T) {
		c := &Config{}

		_, err := c.FeatureEnabled("nonexistent")

		assert.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestConfigFeatureEnabled_AllFeatures(t *testing.T) {
	for _, f := range AllFeatures {
		t.Run(f.Name, func(t *testing.T) {
			c := &Config{Features: []Feature{f}}

			enabled, err := c.FeatureEnabled(f.Name)

			assert.NoError(t, err)
			assert.True(t, enabled)
			assert.NotEqual(t, "unknown", f.Stage.String())
			assert.NotEmpty(t, f.Description)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, defaultHeader, c.Header)
	for _, f := range AllFeatures {
		assert.Equal(t, f.Default, c.HasFeature(f.Name), f.Name)
	}
}
