package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ClientID:     "client",
		ClientSecret: "secret",
		LoginURL:     DefaultLoginURL,
		APIVersion:   DefaultAPIVersion,
		CallbackPort: DefaultCallbackPort,
		TokenFile:    "refresh_token.txt",
		CacheFile:    "cache_data.json",
		Output:       "json",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.Nil(t, validConfig().Validate())
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.ClientID = ""
	cfg.ClientSecret = ""

	err := cfg.Validate()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "ClientID is required")
	assert.Contains(t, err.Error(), "ClientSecret is required")
}

func TestValidateRejectsBadValues(t *testing.T) {
	items := []struct {
		mutate func(*Config)
	}{
		{func(c *Config) { c.LoginURL = "not a url" }},
		{func(c *Config) { c.CallbackPort = 0 }},
		{func(c *Config) { c.CallbackPort = 70000 }},
		{func(c *Config) { c.Output = "xml" }},
	}

	for i, item := range items {
		cfg := validConfig()
		item.mutate(cfg)
		assert.NotNil(t, cfg.Validate(), "case %d", i)
	}
}
