package credentials

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "mikrotik-chat"

type KeyType string

const (
	KeyGemini         KeyType = "gemini_api_key"
	KeyAnthropic      KeyType = "anthropic_api_key"
	KeyRouterPassword KeyType = "router_password"
)

var allKeys = []KeyType{KeyGemini, KeyAnthropic, KeyRouterPassword}

func Set(key KeyType, value string) error {
	return keyring.Set(serviceName, string(key), value)
}

func Get(key KeyType) (string, error) {
	return keyring.Get(serviceName, string(key))
}

func Delete(key KeyType) error {
	return keyring.Delete(serviceName, string(key))
}

// GetOrEnv prefers the environment value and falls back to the keychain.
func GetOrEnv(key KeyType, envValue string) string {
	if envValue != "" {
		return envValue
	}
	val, err := Get(key)
	if err != nil {
		return ""
	}
	return val
}

func ListConfigured() map[KeyType]bool {
	result := make(map[KeyType]bool)

	for _, k := range allKeys {
		_, err := Get(k)
		result[k] = err == nil
	}

	return result
}

func ClearAll() error {
	var lastErr error
	for _, k := range allKeys {
		if err := Delete(k); err != nil && err != keyring.ErrNotFound {
			lastErr = err
		}
	}
	return lastErr
}

func Setup(values map[KeyType]string) error {
	for _, k := range allKeys {
		v := values[k]
		if v == "" {
			continue
		}
		if err := Set(k, v); err != nil {
			return fmt.Errorf("failed to store %s: %w", k, err)
		}
	}
	return nil
}
