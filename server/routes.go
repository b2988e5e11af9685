package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))

	// SIGN-IN
	s.RegisterRouteHandler("POST "+RouteAuthCredential, ChainMiddleware(s.CredentialHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAuthSignOut, ChainMiddleware(s.SignOutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteCalendarConnect, ChainMiddleware(s.CalendarConnectHandler(), s.HTMLMiddleWare(s.RequireSignedIn(signInFirst))...))
	s.RegisterRouteHandler("GET "+RouteCalendarCallback, ChainMiddleware(s.CalendarCallbackHandler(), s.HTMLMiddleWare()...))

	// EVENTS
	s.RegisterRouteHandler("POST "+RouteEventsFetch, ChainMiddleware(s.FetchEventsHandler(), s.HTMLMiddleWare(s.RequireSession(redirectHome))...))
	s.RegisterRouteHandler("GET "+RouteEventsICS, ChainMiddleware(s.EventsICSHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware, s.RequireSignedIn(notSignedInText), s.CompressionMiddleware)...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.APISessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIEvents, ChainMiddleware(s.APIEventsHandler(), append(s.APIMiddleware(), s.RequireSignedIn(notSignedInJSON))...))
	s.RegisterRouteHandler("POST "+RouteAPIEventsFetch, ChainMiddleware(s.APIFetchEventsHandler(), append(s.APIMiddleware(), s.RequireSession(notSignedInJSON))...))
	s.RegisterRouteHandler("OPTIONS /api/", ChainMiddleware(http.NotFound, s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare(s.CacheMiddleware, s.CompressionMiddleware)...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

func logError(method, path, error string) {
	var displayMethod string
	paddedMethod := " " + method
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Error().Msgf("[%-19s] %s %s", displayMethod, path, Red+error+ResetColor)
}
