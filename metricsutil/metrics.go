// Package metricsutil serves VictoriaMetrics metrics over HTTP.
package metricsutil

import (
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi"
	"github.com/sirupsen/logrus"
)

// AddMetricsHandle adds a prometheus-format Handle at '/metrics' to the provided serve mux.
func AddMetricsHandle(mux *chi.Mux) {
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})
}

// ServeHTTP serves handler on addr in the background. A failure to serve is
// fatal.
func ServeHTTP(log logrus.FieldLogger, addr string, handler http.Handler) {
	if addr == "" {
		return
	}

	log.WithField("addr", addr).Info("Serving metrics...")
	go func() { log.Fatalln(http.ListenAndServe(addr, handler)) }()
}
