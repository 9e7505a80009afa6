package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	r := New()
	r.GateDecision("redirect")
	r.GateDecision("redirect")
	r.GateDecision("allow")
	r.Login("success")
	r.Upload("rejected")
	r.ObserveRequest("GET", "/dashboard", "200", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.gateDecisions.WithLabelValues("redirect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gateDecisions.WithLabelValues("allow")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.logins.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploads.WithLabelValues("rejected")))

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "webapp_http_request_duration_seconds")
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.GateDecision("allow")
		r.Login("failure")
		r.Upload("ok")
		r.ObserveRequest("GET", "/", "200", time.Millisecond)
	})
}
