// Package httputil provides the HTTP helpers of the metrics and stats API.
package httputil

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON writes v as the JSON body of a response with status code.
func WriteJSON(w http.ResponseWriter, log logrus.FieldLogger, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.WithError(err).Warn("Failed to encode JSON response.")
	}
}

// MakeStatsHandler returns a handler answering with the JSON encoding of what
// grab returns at request time.
func MakeStatsHandler(log logrus.FieldLogger, grab func() interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, log, http.StatusOK, grab())
	}
}
