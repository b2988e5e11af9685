package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	CalendarConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type SecurityConfig interface {
	GetMaxSessionAge() time.Duration
	GetTokenVerification() TokenVerification
}

type CalendarConfig interface {
	GetGoogleClientID() string
	GetGoogleAPIKey() string
	GetGoogleClientSecret() string
	GetDiscoveryURL() string
	GetCalendarEndpoint() string
	GetBootstrapTimeout() time.Duration
	GetFetchTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Calendar
}

func New() Config {
	return mainConfig{}
}
