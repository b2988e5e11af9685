package config

import "time"

const (
	googleClientIDVar     = "GOOGLE_CLIENT_ID"
	googleAPIKeyVar       = "GOOGLE_CLIENT_API_KEY"
	googleClientSecretVar = "GOOGLE_CLIENT_SECRET"

	DefaultDiscoveryURL = "https://www.googleapis.com/discovery/v1/apis/calendar/v3/rest"
)

type Calendar struct{}

var _ CalendarConfig = Calendar{}

func (Calendar) GetGoogleClientID() string {
	return GetEnv(googleClientIDVar, "")
}

func (Calendar) GetGoogleAPIKey() string {
	return GetEnv(googleAPIKeyVar, "")
}

// GetGoogleClientSecret is optional. When empty the calendar consent flow is disabled
// and the API client relies on the API key alone.
func (Calendar) GetGoogleClientSecret() string {
	return GetEnv(googleClientSecretVar, "")
}

func (Calendar) GetDiscoveryURL() string {
	return GetEnv("CALENDAR_DISCOVERY_URL", DefaultDiscoveryURL)
}

// GetCalendarEndpoint overrides the Calendar API base path. Empty means the library default.
func (Calendar) GetCalendarEndpoint() string {
	return GetEnv("CALENDAR_ENDPOINT", "")
}

func (Calendar) GetBootstrapTimeout() time.Duration {
	return GetDuration("BOOTSTRAP_TIMEOUT", 15*time.Second)
}

func (Calendar) GetFetchTimeout() time.Duration {
	return GetDuration("FETCH_TIMEOUT", 20*time.Second)
}
