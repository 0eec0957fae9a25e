package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentCountsRequests(t *testing.T) {
	m := New()
	handler := m.Instrument("/api/rsvp", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/rsvp", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/rsvp", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/rsvp", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/rsvp", "POST", "201")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/rsvp", "GET", "200")))
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.RSVPSubmitted("hu")
	m.RSVPSubmitted("hu")
	m.RSVPSubmitted("en")
	m.ContentUpdated("theme", "hero")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rsvpSubmissions.WithLabelValues("hu")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.contentUpdates.WithLabelValues("hero")))

	m.WatcherOpened()
	m.WatcherOpened()
	m.WatcherClosed()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.liveWatchers))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.RSVPSubmitted("en")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wedding_rsvp_submissions_total{language="en"} 1`)
}
