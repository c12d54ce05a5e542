package dateserver

import (
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skycoin/dateserver/servermetrics"
)

// FormatTimestamp formats t as sent on the wire, without the line terminator.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a line written by a worker. The zone abbreviation is
// resolved against loc.
func ParseTimestamp(line string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, line, loc)
}

// Worker answers connections with the current wall-clock time after a fixed
// delay. A Worker holds no per-connection state, so one value serves every
// connection of a server concurrently.
type Worker struct {
	log   logrus.FieldLogger
	m     servermetrics.Metrics
	delay time.Duration
	done  <-chan struct{}
	now   func() time.Time
}

// NewWorker creates a Worker. Closing done interrupts the delay of every
// connection still waiting.
func NewWorker(log logrus.FieldLogger, m servermetrics.Metrics, delay time.Duration, done <-chan struct{}) *Worker {
	if m == nil {
		m = servermetrics.NewEmpty()
	}
	return &Worker{
		log:   log,
		m:     m,
		delay: delay,
		done:  done,
		now:   time.Now,
	}
}

// Serve waits for the delay, writes one timestamp line to conn and closes it.
// conn is always closed, whether the delay was interrupted or the write failed.
// Nothing is ever read from conn. The returned result is also recorded to the
// worker metrics.
func (w *Worker) Serve(conn net.Conn) servermetrics.TaskResult {
	timer := time.NewTimer(w.delay)
	defer timer.Stop()

	log := w.log.WithField("remote_tcp", conn.RemoteAddr())

	defer func() {
		if err := conn.Close(); err != nil {
			log.WithError(err).Debug("Failed to close connection.")
		}
	}()

	select {
	case <-timer.C:
	case <-w.done:
		log.Warn("Delay interrupted, closing connection without a response.")
		w.m.RecordResult(servermetrics.TaskInterrupted)
		return servermetrics.TaskInterrupted
	}

	ts := FormatTimestamp(w.now())
	if _, err := io.WriteString(conn, ts+"\n"); err != nil {
		log.WithError(err).Warn("Failed to write timestamp.")
		w.m.RecordResult(servermetrics.TaskFailed)
		return servermetrics.TaskFailed
	}

	log.WithField("timestamp", ts).Debug("Sent timestamp.")
	w.m.RecordResult(servermetrics.TaskDelivered)
	return servermetrics.TaskDelivered
}
