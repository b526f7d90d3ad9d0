package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordIntent("analyze")
	m.RecordToolRun("create_file", true)
	m.RecordGatewayRequest("default", "ok", time.Second)
	m.RecordSearch("success")
	m.RecordTurn()
}

func TestHandlerServesCollectors(t *testing.T) {
	m := NewMetrics()
	m.RecordIntent("analyze")
	m.RecordToolRun("create_file", false)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
}

func TestRecordToolRunOutcomes(t *testing.T) {
	m := NewMetrics()
	m.RecordToolRun("edit_file", true)
	m.RecordToolRun("edit_file", false)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "nova_tool_runs_total" {
			found = true
			require.Len(t, mf.GetMetric(), 2)
		}
	}
	require.True(t, found)
}
