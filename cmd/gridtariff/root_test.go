package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jgoulah/gridtariff/internal/config"
	"github.com/jgoulah/gridtariff/internal/metrics"
)

func TestPushMetrics(t *testing.T) {
	metrics.Init()

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Metrics = config.MetricsConfig{PushgatewayURL: srv.URL, Job: "nightly"}

	pushMetrics(importCmd, cfg)
	assert.Equal(t, []string{"/metrics/job/nightly"}, paths)

	// serve is scraped, help-only runs execute nothing
	pushMetrics(serveCmd, cfg)
	pushMetrics(nil, cfg)
	assert.Len(t, paths, 1)

	pushMetrics(importCmd, config.Default())
	assert.Len(t, paths, 1)
}
