package sapi

import (
	"fmt"

	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment overrides, e.g. SAPI_CLIENT_ID.
const envPrefix = "SAPI"

// LoadConfig reads a Config from a file (any format viper understands,
// chosen by extension). Environment variables prefixed with SAPI_
// override file values. Validation happens in New, not here.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, ErrConfigFileRequired
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return &Config{
		ClientID:     v.GetString("client_id"),
		ClientSecret: v.GetString("client_secret"),
		RefreshToken: v.GetString("refresh_token"),
		TokenURL:     v.GetString("token_url"),
		UserAgent:    v.GetString("user_agent"),
		Debug:        v.GetBool("debug"),
		RetryMax:     v.GetInt("retry_max"),
		RetryWaitMin: v.GetDuration("retry_wait_min"),
		RetryWaitMax: v.GetDuration("retry_wait_max"),
		AuthRetryMax: v.GetInt("auth_retry_max"),
	}, nil
}
