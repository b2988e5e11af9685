package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
	"github.com/jrsteele09/go-calendar-viewer/orchestrator"
	"github.com/rs/zerolog/log"
)

// SessionResponse is the JSON view of a browser session.
type SessionResponse struct {
	SignedIn    bool   `json:"signedIn"`
	UserEmail   string `json:"userEmail,omitempty"`
	Verified    bool   `json:"verified"`
	ClientState string `json:"clientState"`
	FetchState  string `json:"fetchState"`
	Loading     bool   `json:"loading"`
	Error       string `json:"error,omitempty"`
}

type EventsResponse struct {
	Events []calendarapi.CalendarEvent `json:"events"`
	Error  string                      `json:"error,omitempty"`
}

func (s *Server) APISessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.lookupSession(r)
		if err != nil {
			writeJSON(w, http.StatusOK, SessionResponse{
				ClientState: orchestrator.ClientNotStarted.String(),
				FetchState:  orchestrator.FetchIdle.String(),
			})
			return
		}
		snap := session.Orchestrator.Snapshot()
		writeJSON(w, http.StatusOK, SessionResponse{
			SignedIn:    snap.SignedIn,
			UserEmail:   snap.UserEmail,
			Verified:    snap.Verified,
			ClientState: snap.ClientState.String(),
			FetchState:  snap.FetchState.String(),
			Loading:     snap.Loading,
			Error:       snap.ErrorMessage,
		})
	}
}

func (s *Server) APIEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := SessionFromContext(r.Context()).Orchestrator.Snapshot()
		writeJSON(w, http.StatusOK, EventsResponse{Events: snap.Events, Error: snap.ErrorMessage})
	}
}

// APIFetchEventsHandler fetches and returns the refreshed events.
func (s *Server) APIFetchEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if err := s.fetchEvents(r.Context(), session); err != nil {
			switch {
			case errors.Is(err, errors.ErrNotSignedIn):
				writeJSONError(w, "not_signed_in", err.Error(), http.StatusUnauthorized)
			case errors.Is(err, errors.ErrFetchInProgress):
				writeJSONError(w, "fetch_in_progress", err.Error(), http.StatusConflict)
			case errors.Is(err, errors.ErrFetchSuperseded):
				writeJSONError(w, "fetch_superseded", err.Error(), http.StatusConflict)
			case errors.Is(err, errors.ErrClientNotReady):
				writeJSONError(w, "client_not_ready", err.Error(), http.StatusServiceUnavailable)
			default:
				writeJSONError(w, "fetch_failed", session.Orchestrator.Snapshot().ErrorMessage, http.StatusBadGateway)
			}
			return
		}

		snap := session.Orchestrator.Snapshot()
		writeJSON(w, http.StatusOK, EventsResponse{Events: snap.Events})
	}
}

// EventsICSHandler downloads the session's current events as an iCalendar file
func (s *Server) EventsICSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := SessionFromContext(r.Context()).Orchestrator.Snapshot()
		if len(snap.Events) == 0 {
			http.Error(w, "No events to export", http.StatusNotFound)
			return
		}

		var buf bytes.Buffer
		if err := calendarapi.WriteICS(&buf, snap.Events, s.now()); err != nil {
			if errors.Is(err, calendarapi.ErrNoEvents) {
				http.Error(w, "No events to export", http.StatusNotFound)
				return
			}
			log.Err(err).Msg("Failed to write iCalendar export")
			http.Error(w, "Failed to export events", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
		_, _ = w.Write(buf.Bytes())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
