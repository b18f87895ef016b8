package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
)

func TestStartRecords(t *testing.T) {
	m := New()
	done := m.Start("feh-focus", "http")
	if got := testutil.ToFloat64(m.inflight); got != 1 {
		t.Fatalf("in flight = %v", got)
	}
	done(OutcomeOK, 250)
	m.Start("feh-focus", "grpc")(OutcomeUnreachable, 0)

	if got := testutil.ToFloat64(m.trials.WithLabelValues("feh-focus")); got != 250 {
		t.Fatalf("trials = %v", got)
	}
	if got := testutil.ToFloat64(m.simulations.WithLabelValues("feh-focus", "grpc", OutcomeUnreachable)); got != 1 {
		t.Fatalf("unreachable = %v", got)
	}
	if got := testutil.ToFloat64(m.inflight); got != 0 {
		t.Fatalf("in flight after done = %v", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Start("x", "cli")(OutcomeOK, 1)
	m.PresetReloaded()
}

func TestServerScrape(t *testing.T) {
	m := New()
	m.PresetReloaded()
	s := NewServer(m, 9999, "/metrics", logrus.New())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "orbsim_preset_reloads_total 1") {
		t.Fatalf("scrape missing reload counter:\n%s", body)
	}
}
