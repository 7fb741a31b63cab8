package http_probe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plugtree/modules/http_probe"
)

func newProbe(t *testing.T, cfg *http_probe.Config) *http_probe.Probe {
	t.Helper()
	instance, err := http_probe.Init(context.Background(), cfg, nil)
	require.NoError(t, err)
	return instance.(*http_probe.Probe)
}

func TestProbeCheck(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	probe := newProbe(t, &http_probe.Config{URL: srv.URL, Timeout: "2s", ExpectStatus: 204})
	assert.NoError(t, probe.Check(context.Background()))

	wrong := newProbe(t, &http_probe.Config{URL: srv.URL, Timeout: "2s", ExpectStatus: 200})
	err := wrong.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected status 200, got 204")
}

func TestInitDoesNotSendRequests(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	newProbe(t, &http_probe.Config{URL: srv.URL, Timeout: "1s", ExpectStatus: 200})
	assert.Zero(t, hits.Load())
}

func TestInitRejectsBadTimeout(t *testing.T) {
	t.Parallel()

	_, err := http_probe.Init(context.Background(), &http_probe.Config{URL: "http://localhost", Timeout: "soon"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout")
}
