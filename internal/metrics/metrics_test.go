package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-calendar-viewer/internal/metrics"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.SignIn(metrics.OutcomeSuccess)
	m.SignIn(metrics.OutcomeFailure)
	m.SignOut()
	m.Bootstrap(metrics.OutcomeSuccess)
	m.Fetch(metrics.OutcomeSuccess, 0.2)
	m.Fetch(metrics.OutcomeRejected, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	require.Contains(t, text, `calendar_viewer_sign_ins_total{outcome="success"} 1`)
	require.Contains(t, text, `calendar_viewer_sign_ins_total{outcome="failure"} 1`)
	require.Contains(t, text, `calendar_viewer_sign_outs_total 1`)
	require.Contains(t, text, `calendar_viewer_client_bootstraps_total{outcome="success"} 1`)
	require.Contains(t, text, `calendar_viewer_event_fetches_total{outcome="rejected"} 1`)
	require.Contains(t, text, `calendar_viewer_event_fetch_duration_seconds_count 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.SignIn(metrics.OutcomeSuccess)
		m.SignOut()
		m.Bootstrap(metrics.OutcomeFailure)
		m.Fetch(metrics.OutcomeFailure, 1)
	})
}
