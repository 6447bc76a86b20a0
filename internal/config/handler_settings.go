package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// HandlerSettings carries the external-service credentials and limits the
// action handlers need. Loaded once at startup from an optional YAML file; a
// missing file yields the zero value plus the default timeout, which is enough
// for workflows that only use webhook/delay/database/transform actions.
type HandlerSettings struct {
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		From     string `yaml:"from"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"smtp"`
	SMS struct {
		GatewayURL string `yaml:"gatewayUrl"`
		APIKey     string `yaml:"apiKey"`
	} `yaml:"sms"`
	DefaultTimeout time.Duration `yaml:"-"`
}

func LoadHandlerSettings() (*HandlerSettings, error) {
	settings := &HandlerSettings{}
	settings.DefaultTimeout = time.Duration(GetSystemSettingInteger(HANDLER_DEFAULT_TIMEOUT_MS)) * time.Millisecond

	path := GetSystemSettingString(HANDLER_SETTINGS_FILE)
	if path == "" {
		return settings, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read handler settings file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse handler settings file %s: %w", path, err)
	}
	if settings.SMTP.Port == 0 {
		settings.SMTP.Port = 587
	}
	return settings, nil
}
