package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// FileSettings mirrors the environment keys so a deployment can keep them in one TOML file.
type FileSettings struct {
	Port              string `toml:"port"`
	AppName           string `toml:"app_name"`
	Env               string `toml:"env"`
	BaseURL           string `toml:"base_url"`
	AllowedOrigins    string `toml:"allowed_origins"`
	GoogleClientID    string `toml:"google_client_id"`
	GoogleAPIKey      string `toml:"google_client_api_key"`
	GoogleSecret      string `toml:"google_client_secret"`
	TokenVerification string `toml:"token_verification"`
	DiscoveryURL      string `toml:"calendar_discovery_url"`
	CalendarEndpoint  string `toml:"calendar_endpoint"`
	BootstrapTimeout  string `toml:"bootstrap_timeout"`
	FetchTimeout      string `toml:"fetch_timeout"`
	SessionMaxAge     string `toml:"session_max_age"`
}

func (f FileSettings) envPairs() map[string]string {
	return map[string]string{
		portEnvVar:               f.Port,
		appNameVar:               f.AppName,
		environmentVar:           f.Env,
		baseURLVar:               f.BaseURL,
		"ALLOWED_ORIGINS":        f.AllowedOrigins,
		googleClientIDVar:        f.GoogleClientID,
		googleAPIKeyVar:          f.GoogleAPIKey,
		googleClientSecretVar:    f.GoogleSecret,
		"TOKEN_VERIFICATION":     f.TokenVerification,
		"CALENDAR_DISCOVERY_URL": f.DiscoveryURL,
		"CALENDAR_ENDPOINT":      f.CalendarEndpoint,
		"BOOTSTRAP_TIMEOUT":      f.BootstrapTimeout,
		"FETCH_TIMEOUT":          f.FetchTimeout,
		"SESSION_MAX_AGE":        f.SessionMaxAge,
	}
}

// Load seeds the process environment from an optional .env file and an optional TOML file.
// Variables already present in the environment always win. A missing .env file is skipped,
// but a TOML file that was named must exist.
func Load(envFile, tomlFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("[config Load] reading %s: %w", envFile, err)
		}
	}

	if tomlFile == "" {
		return nil
	}
	var settings FileSettings
	if _, err := toml.DecodeFile(tomlFile, &settings); err != nil {
		return fmt.Errorf("[config Load] decoding %s: %w", tomlFile, err)
	}
	for key, value := range settings.envPairs() {
		if value == "" {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("[config Load] setting %s: %w", key, err)
		}
	}
	return nil
}
