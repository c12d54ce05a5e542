package servermetrics

import (
	"fmt"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
)

// VictoriaMetrics implements Metrics using VictoriaMetrics.
type VictoriaMetrics struct {
	activeTasks  int64
	pendingTasks int64

	activeTasksGauge  *metrics.Gauge
	pendingTasksGauge *metrics.Gauge
	acceptedConns     *metrics.Counter
	rejectedTasks     *metrics.Counter
	deliveredTasks    *metrics.Counter
	failedTasks       *metrics.Counter
	interruptedTasks  *metrics.Counter
}

// NewVictoriaMetrics returns the Victoria Metrics implementation of Metrics.
func NewVictoriaMetrics() *VictoriaMetrics {
	var m VictoriaMetrics

	m.activeTasksGauge = metrics.GetOrCreateGauge("tasks_active_count", func() float64 {
		return float64(m.ActiveTasks())
	})
	m.pendingTasksGauge = metrics.GetOrCreateGauge("tasks_pending_count", func() float64 {
		return float64(m.PendingTasks())
	})

	m.acceptedConns = metrics.GetOrCreateCounter("conns_accepted_total")
	m.rejectedTasks = metrics.GetOrCreateCounter("tasks_rejected_total")
	m.deliveredTasks = metrics.GetOrCreateCounter("tasks_delivered_total")
	m.failedTasks = metrics.GetOrCreateCounter("tasks_failed_total")
	m.interruptedTasks = metrics.GetOrCreateCounter("tasks_interrupted_total")

	return &m
}

// ActiveTasks gets the number of currently executing tasks.
func (m *VictoriaMetrics) ActiveTasks() int64 {
	return atomic.LoadInt64(&m.activeTasks)
}

// PendingTasks gets the number of tasks waiting for an execution slot.
func (m *VictoriaMetrics) PendingTasks() int64 {
	return atomic.LoadInt64(&m.pendingTasks)
}

// RecordAccept implements Metrics.
func (m *VictoriaMetrics) RecordAccept() {
	m.acceptedConns.Inc()
}

// RecordPending implements Metrics.
func (m *VictoriaMetrics) RecordPending(delta DeltaType) {
	switch delta {
	case DeltaConnect, DeltaDisconnect:
		atomic.AddInt64(&m.pendingTasks, int64(delta))
	default:
		panic(fmt.Errorf("invalid delta: %d", delta))
	}
}

// RecordTask implements Metrics.
func (m *VictoriaMetrics) RecordTask(delta DeltaType) {
	switch delta {
	case DeltaFailed:
		m.rejectedTasks.Inc()
	case DeltaConnect, DeltaDisconnect:
		atomic.AddInt64(&m.activeTasks, int64(delta))
	default:
		panic(fmt.Errorf("invalid delta: %d", delta))
	}
}

// RecordResult implements Metrics.
func (m *VictoriaMetrics) RecordResult(res TaskResult) {
	switch res {
	case TaskDelivered:
		m.deliveredTasks.Inc()
	case TaskFailed:
		m.failedTasks.Inc()
	case TaskInterrupted:
		m.interruptedTasks.Inc()
	default:
		panic(fmt.Errorf("invalid task result: %d", res))
	}
}
