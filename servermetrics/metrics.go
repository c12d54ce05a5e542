// Package servermetrics records what the date servers do with each
// connection.
package servermetrics

// DeltaType describes how a recorded event changes a gauge.
type DeltaType int

// Deltas.
const (
	// DeltaFailed records a failure without changing the gauge.
	DeltaFailed DeltaType = 0
	// DeltaConnect increments the gauge.
	DeltaConnect DeltaType = 1
	// DeltaDisconnect decrements the gauge.
	DeltaDisconnect DeltaType = -1
)

// TaskResult is the final outcome of a worker task.
type TaskResult int

// Task results.
const (
	TaskDelivered TaskResult = iota
	TaskFailed
	TaskInterrupted
)

// Metrics collects metrics for metrics tracking system.
type Metrics interface {
	// RecordAccept records an accepted connection.
	RecordAccept()
	// RecordPending records a task entering (1) or leaving (-1) the state of
	// waiting for an execution slot.
	RecordPending(delta DeltaType)
	// RecordTask records a task starting (1), finishing (-1) or being
	// rejected by its dispatcher (0).
	RecordTask(delta DeltaType)
	// RecordResult records how a task ended.
	RecordResult(res TaskResult)
}
