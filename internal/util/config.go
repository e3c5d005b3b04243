package util

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultAPIURL is used when no api-url is configured
const DefaultAPIURL = "http://localhost:8000"

// GetAPIURL returns the Huapala API base URL without a trailing slash
func GetAPIURL() string {
	url := strings.TrimSpace(viper.GetString("api-url"))
	if url == "" {
		return DefaultAPIURL
	}
	return strings.TrimRight(url, "/")
}

// RequirePath returns the configured path for key or an ErrInvalidConfig
// naming the flag that should have been set
func RequirePath(key string) (string, error) {
	path := strings.TrimSpace(viper.GetString(key))
	if path == "" {
		return "", fmt.Errorf("%w: --%s is required (or HUAPALA_%s)",
			ErrInvalidConfig, key, strings.ToUpper(strings.ReplaceAll(key, "-", "_")))
	}
	return path, nil
}
