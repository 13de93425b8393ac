package adapter

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// requestCounter returns the counter of requests of the given type served by a backend
func requestCounter(op OpType, backend string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`dtree_adapter_requests_total{op=%q,backend=%q}`, op.String(), backend))
}

// errorCounter returns the counter of failed requests for the given return code
func errorCounter(code RetCode) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`dtree_adapter_errors_total{code=%q}`, code.String()))
}

// countError increments the error counter matching err
func countError(err error) {
	if e, ok := err.(*Error); ok {
		errorCounter(e.Code).Inc()
		return
	}
	errorCounter(RetCInternalError).Inc()
}
