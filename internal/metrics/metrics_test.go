package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMutation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Mutation("join_group", nil)
	m.Mutation("join_group", errors.New("full"))
	m.Mutation("join_group", nil)

	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("join_group", "ok")); got != 2 {
		t.Errorf("ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("join_group", "error")); got != 1 {
		t.Errorf("error = %v, want 1", got)
	}
}

func TestRefresh(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Refreshed(3)
	m.RefreshFailed(errors.New("down"))

	if got := testutil.ToFloat64(m.Groups); got != 3 {
		t.Errorf("groups = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.Refreshes.WithLabelValues("error")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.CommentaryFailures.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "squadstats_commentary_failures_total 1") {
		t.Errorf("expected commentary counter in output:\n%s", body)
	}
}
