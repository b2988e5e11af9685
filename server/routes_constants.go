package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Auth Routes - identity widget sign-in and sign-out
	RouteAuthCredential = "/auth/credential"
	RouteAuthSignOut    = "/auth/signout"

	// Auth Routes - calendar consent (only when a client secret is configured)
	RouteCalendarConnect  = "/auth/calendar/connect"
	RouteCalendarCallback = "/auth/calendar/callback"

	// Event Routes
	RouteEventsFetch = "/events/fetch"
	RouteEventsICS   = "/events.ics"

	// API Routes
	RouteAPISession     = "/api/session"
	RouteAPIEvents      = "/api/events"
	RouteAPIEventsFetch = "/api/events/fetch"

	// Operational Routes
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
