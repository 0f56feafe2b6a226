package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_RecordsRequests(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := New("scholarship-engine-test", WithRegisterer(reg))
	t.Cleanup(obs.Shutdown)

	ctx := context.Background()
	obs.RecordRequest(ctx, "http", "match", "success")
	obs.RecordRequestDuration(ctx, "http", "match", 120*time.Millisecond, "success")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["requests_processed_total"], "got %v", names)
	assert.True(t, names["requests_duration_milliseconds"], "got %v", names)
}

func TestObservability_Tracer(t *testing.T) {
	obs := New("scholarship-engine-test", WithRegisterer(promclient.NewRegistry()), WithSampleRatio(1))
	t.Cleanup(obs.Shutdown)

	_, span := obs.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	obs.RecordRequest(context.Background(), "cli", "essay", "error")
	obs.RecordRequestDuration(context.Background(), "cli", "essay", time.Second, "error")
	obs.Shutdown()
	assert.NotNil(t, obs.Tracer("x"))
}
