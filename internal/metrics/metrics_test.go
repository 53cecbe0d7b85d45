package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBeforeInitIsNoop(t *testing.T) {
	// Must not panic when Init has not run yet.
	if calculationTotal == nil {
		ObserveCalculation("Flat", nil, time.Millisecond)
		ObserveComparison(nil)
		AddImported("home", 1, 1)
		ObservePublish(nil)
		IncHTTPRequest("/api/compare", "200")
	}
}

func TestCounters(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(calculationTotal.WithLabelValues("TOU", resultError))
	ObserveCalculation("TOU", errors.New("boom"), time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(calculationTotal.WithLabelValues("TOU", resultError)))

	before = testutil.ToFloat64(readingsImported.WithLabelValues("home"))
	AddImported("home", 24, 0)
	assert.Equal(t, before+24, testutil.ToFloat64(readingsImported.WithLabelValues("home")))

	before = testutil.ToFloat64(comparisonTotal.WithLabelValues(resultSuccess))
	ObserveComparison(nil)
	assert.Equal(t, before+1, testutil.ToFloat64(comparisonTotal.WithLabelValues(resultSuccess)))

	before = testutil.ToFloat64(httpRequests.WithLabelValues("/healthz", "200"))
	IncHTTPRequest("/healthz", "200")
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/healthz", "200")))
}

func TestPush(t *testing.T) {
	Init()
	AddImported("cli", 3, 1)

	var (
		gotMethod string
		gotPath   string
		gotBody   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, Push(srv.URL, "gridtariff"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/metrics/job/gridtariff", gotPath)
	assert.Contains(t, gotBody, "gridtariff_readings_imported_total")
}

func TestPushError(t *testing.T) {
	Init()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.ErrorContains(t, Push(srv.URL, "gridtariff"), "pushing metrics")
}
