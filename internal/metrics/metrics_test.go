package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/eudoxa/internal/errors"
	"github.com/HendryAvila/eudoxa/internal/eudoxa"
)

func chainModel(t *testing.T) *eudoxa.Model {
	t.Helper()
	m := eudoxa.New()
	_, err := m.AddAspect("Size", eudoxa.KindText, "")
	require.NoError(t, err)
	for _, l := range []string{"S", "M", "L"} {
		_, err := m.AddLevel("Size", l, "")
		require.NoError(t, err)
	}
	_, err = m.SetLevelRelation("Size", "S", eudoxa.Better, "M")
	require.NoError(t, err)
	_, err = m.SetLevelRelation("Size", "M", eudoxa.Better, "L")
	require.NoError(t, err)
	return m
}

func TestObserveAssertion(t *testing.T) {
	m := New()

	m.ObserveAssertion("level_relation", eudoxa.Outcome{}, nil)
	m.ObserveAssertion("level_relation", eudoxa.Outcome{}, nil)
	m.ObserveAssertion("diff_relation", eudoxa.Outcome{}, errors.NewInvalidRequest("bad"))
	m.ObserveAssertion("level_relation", eudoxa.Outcome{
		Collisions: []eudoxa.Derivation{{Kind: eudoxa.KindCollision}, {Kind: eudoxa.KindCollision}},
	}, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.assertions.WithLabelValues("level_relation", OutcomeConsistent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assertions.WithLabelValues("diff_relation", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assertions.WithLabelValues("level_relation", OutcomeContradicted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.collisions.WithLabelValues("assertion")))
}

func TestObserveClosure(t *testing.T) {
	m := New()
	res := chainModel(t).Closure(eudoxa.ClosureOptions{})
	require.True(t, res.Converged)

	m.ObserveClosure(res, 3*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.closureRuns.WithLabelValues(ClosureConverged)))
	assert.Equal(t, float64(len(res.Adds)), testutil.ToFloat64(m.derived))
	assert.Greater(t, len(res.Adds), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.closureTime))
}

func TestObserveClosureTruncated(t *testing.T) {
	m := New()
	res := chainModel(t).Closure(eudoxa.ClosureOptions{MaxPasses: 1})
	require.False(t, res.Converged)

	m.ObserveClosure(res, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.closureRuns.WithLabelValues(ClosureTruncated)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAssertion("set", eudoxa.Outcome{}, nil)
	m.ObserveClosure(&eudoxa.ClosureResult{}, time.Second)
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveAssertion("set", eudoxa.Outcome{}, nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, `eudoxa_matrix_assertions_total{op="set",outcome="consistent"} 1`), text)
	assert.Contains(t, text, "go_goroutines")
}
