// Package mconfig loads the client-local configuration described in spec §6
// ("Persisted state"): a clientMeta.json file plus optional environment
// overrides. It is grounded on the teacher's common.SetConfigFromEnvVars /
// GetenvOrDefault reflection-based env binding and common.InitLocalEnvConfig
// (godotenv) for local-dev .env loading.
package mconfig

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/screenworks/matcat/pkg/merrors"
)

// ClientMeta is the on-disk shape of clientMeta.json (spec §6).
type ClientMeta struct {
	KeyPath            string `json:"keyPath"`
	ServerSignaturePath string `json:"serverSignaturePath"`
	ServerAddress      string `json:"serverAddress"`
	ServerPort         int    `json:"serverPort"`
	RefreshRate        float64 `json:"refreshRate,omitempty"`
	RepeatTokenPath    string `json:"repeatTokenPath,omitempty"`
}

// DefaultRefreshRate is used when clientMeta.json omits refreshRate.
const DefaultRefreshRate = 60.0

var (
	envOnce sync.Once
)

// LoadLocalEnv loads a .env file once per process, mirroring the teacher's
// InitLocalEnvConfig. It is safe to call multiple times; only the first
// call has effect.
func LoadLocalEnv() {
	envOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// GetenvOrDefault returns os.Getenv(key), or defaultValue if unset/blank.
func GetenvOrDefault(key, defaultValue string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return defaultValue
	}

	return v
}

// GetenvFloatOrDefault returns os.Getenv(key) parsed as float64, or
// defaultValue if unset or unparseable.
func GetenvFloatOrDefault(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}

	return v
}

// LoadClientMeta reads and validates clientMeta.json at path. Missing
// required fields are a ConfigurationError, fatal at startup per spec §7.
func LoadClientMeta(path string) (*ClientMeta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, merrors.NewConfigurationError("clientMeta.json", err)
	}

	var meta ClientMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, merrors.NewConfigurationError("clientMeta.json", err)
	}

	if meta.KeyPath == "" {
		return nil, merrors.NewConfigurationError("keyPath", nil)
	}

	if meta.ServerSignaturePath == "" {
		return nil, merrors.NewConfigurationError("serverSignaturePath", nil)
	}

	if meta.ServerAddress == "" {
		return nil, merrors.NewConfigurationError("serverAddress", nil)
	}

	if meta.ServerPort <= 0 {
		return nil, merrors.NewConfigurationError("serverPort", nil)
	}

	if meta.RefreshRate <= 0 {
		meta.RefreshRate = DefaultRefreshRate
	}

	return &meta, nil
}
