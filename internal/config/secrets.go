package config

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "ats-resume-expert"
	KeyringAccount = "gemini"
)

const (
	SourceEnvGemini = "env:GEMINI_API_KEY"
	SourceEnvGoogle = "env:GOOGLE_API_KEY"
	SourceKeyring   = "keyring"
)

// ResolveAPIKey returns the API key and where it came from, or two empty
// strings when no source has one.
func ResolveAPIKey() (string, string) {
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		return v, SourceEnvGemini
	}
	if v := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); v != "" {
		return v, SourceEnvGoogle
	}
	if v, err := GetAPIKeyFromKeyring(); err == nil {
		return v, SourceKeyring
	}
	return "", ""
}

func GetAPIKeyFromKeyring() (string, error) {
	key, err := keyring.Get(KeyringService, KeyringAccount)
	if err != nil {
		return "", err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("API key in keychain is empty")
	}
	return key, nil
}

func SetAPIKeyInKeyring(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(KeyringService, KeyringAccount, apiKey)
}

func DeleteAPIKeyFromKeyring() error {
	return keyring.Delete(KeyringService, KeyringAccount)
}
