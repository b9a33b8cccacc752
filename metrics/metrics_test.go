package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersExposed(t *testing.T) {
	before := testutil.ToFloat64(MessagesMalformed)
	MessagesMalformed.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(MessagesMalformed))

	SessionsFinished.WithLabelValues("forfeit").Inc()

	srv := httptest.NewServer(promhttp.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "pong_messages_malformed_total")
	assert.Contains(t, string(body), `pong_sessions_finished_total{reason="forfeit"}`)
}
