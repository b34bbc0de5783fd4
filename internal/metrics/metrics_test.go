package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.RecordAuthResolution(SourceToken)
	m.RecordAuthResolution(SourceToken)
	m.RecordAuthResolution(SourceSession)
	m.RecordComboMutation("create", nil)
	m.RecordComboMutation("create", errors.New("boom"))
	m.RecordPasswordReset("delivered")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthResolutions.WithLabelValues(SourceToken)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthResolutions.WithLabelValues(SourceSession)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComboMutations.WithLabelValues("create", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PasswordResets.WithLabelValues("delivered")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordAuthResolution(SourceNone)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `vibeboxing_auth_resolutions_total{source="none"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAuthResolution(SourceToken)
		m.RecordComboMutation("delete", nil)
		m.RecordPasswordReset("failed")
	})
}
