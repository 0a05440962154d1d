package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := New()
	m.Observe(OutcomeOK, 0.1, 1000, 800)
	m.Observe(OutcomeOK, 0.2, 500, 400)
	m.Observe(OutcomeFailed, 0.05, 300, 0)
	m.Observe(OutcomeSkipped, 0, 0, 0)

	if got := testutil.ToFloat64(m.Invocations.WithLabelValues(OutcomeOK)); got != 2 {
		t.Errorf("ok invocations: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Invocations.WithLabelValues(OutcomeFailed)); got != 1 {
		t.Errorf("failed invocations: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.InputBytes); got != 1800 {
		t.Errorf("input bytes: got %v, want 1800", got)
	}
	if got := testutil.ToFloat64(m.OutputBytes); got != 1200 {
		t.Errorf("output bytes: got %v, want 1200", got)
	}
	if got := testutil.CollectAndCount(m.Duration); got != 1 {
		t.Errorf("duration collectors: got %d, want 1", got)
	}
}

func TestObserve_NilReceiver(t *testing.T) {
	var m *Metrics
	m.Observe(OutcomeOK, 1, 1, 1)
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Observe(OutcomeOK, 0.01, 10, 9)

	path := filepath.Join(t.TempDir(), "jpegtx.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `jpegtx_invocations_total{outcome="ok"} 1`) {
		t.Errorf("textfile missing counter:\n%s", data)
	}
}
