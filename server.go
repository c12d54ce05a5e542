package dateserver

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skycoin/skycoin/src/util/logging"

	"github.com/skycoin/dateserver/servermetrics"
)

// Config configures a Server.
type Config struct {
	Strategy Strategy
	Delay    time.Duration
	PoolSize int
}

// DefaultConfig returns the configuration the date server binaries run with.
func DefaultConfig(strategy Strategy) Config {
	return Config{
		Strategy: strategy,
		Delay:    DefaultDelay,
		PoolSize: DefaultPoolSize,
	}
}

// Stats is a snapshot of the connections a Server is handling.
type Stats struct {
	Strategy   Strategy `json:"strategy"`
	PoolSize   int      `json:"pool_size,omitempty"`
	Accepted   int64    `json:"accepted"`
	Pending    int64    `json:"pending"`
	Active     int64    `json:"active"`
	PeakActive int64    `json:"peak_active"`

	Delivered   int64 `json:"delivered"`
	Failed      int64 `json:"failed"`
	Interrupted int64 `json:"interrupted"`
}

// Server accepts connections and dispatches a Worker for each of them.
type Server struct {
	log        logrus.FieldLogger
	conf       Config
	m          servermetrics.Metrics
	worker     *Worker
	dispatcher Dispatcher

	accepted   int64
	pending    int64
	active     int64
	peakActive int64

	delivered   int64
	failed      int64
	interrupted int64

	lis   net.Listener
	lisMx sync.Mutex
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// NewServer creates a Server. For StrategyBounded the worker pool is started
// here, before any connection is accepted. Zero Delay and PoolSize fields are
// replaced with the defaults.
func NewServer(conf *Config, m servermetrics.Metrics) (*Server, error) {
	c := DefaultConfig(StrategyUnbounded)
	if conf != nil {
		if conf.Strategy != "" {
			c.Strategy = conf.Strategy
		}
		if conf.Delay > 0 {
			c.Delay = conf.Delay
		}
		if conf.PoolSize > 0 {
			c.PoolSize = conf.PoolSize
		}
	}
	if m == nil {
		m = servermetrics.NewEmpty()
	}

	d, err := NewDispatcher(c.Strategy, c.PoolSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		log:        logging.MustGetLogger("dateserver"),
		conf:       c,
		m:          m,
		dispatcher: d,
		done:       make(chan struct{}),
	}
	s.worker = NewWorker(s.log, m, c.Delay, s.done)
	return s, nil
}

// SetLogger sets the logger. It must be called before Serve.
func (s *Server) SetLogger(log logrus.FieldLogger) {
	s.log = log
	s.worker.log = log
}

// Serve accepts connections from lis until lis fails or the server is
// closed. An accept error is returned as is, without any retry, and ends the
// server. Serve returns nil once Close is called.
func (s *Server) Serve(lis net.Listener) error {
	s.lisMx.Lock()
	if isClosed(s.done) {
		s.lisMx.Unlock()
		return ErrServerClosed
	}
	s.lis = lis
	s.wg.Add(1)
	s.lisMx.Unlock()
	defer s.wg.Done()

	log := s.log.
		WithField("local_addr", lis.Addr()).
		WithField("strategy", s.conf.Strategy)
	if s.conf.Strategy == StrategyBounded {
		log = log.WithField("pool_size", s.conf.PoolSize)
	}

	log.Info("Serving date server.")
	defer log.Info("Stopped date server.")

	for {
		conn, err := lis.Accept()
		if err != nil {
			// If server is closed, there is no error to report.
			if isClosed(s.done) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.dispatch(conn)
	}
}

func (s *Server) dispatch(conn net.Conn) {
	atomic.AddInt64(&s.accepted, 1)
	s.m.RecordAccept()

	atomic.AddInt64(&s.pending, 1)
	s.m.RecordPending(servermetrics.DeltaConnect)

	task := func() {
		atomic.AddInt64(&s.pending, -1)
		s.m.RecordPending(servermetrics.DeltaDisconnect)

		storeMax(&s.peakActive, atomic.AddInt64(&s.active, 1))
		s.m.RecordTask(servermetrics.DeltaConnect)

		defer func() {
			atomic.AddInt64(&s.active, -1)
			s.m.RecordTask(servermetrics.DeltaDisconnect)
		}()

		s.countResult(s.worker.Serve(conn))
	}

	if err := s.dispatcher.Dispatch(task); err != nil {
		atomic.AddInt64(&s.pending, -1)
		s.m.RecordPending(servermetrics.DeltaDisconnect)
		s.m.RecordTask(servermetrics.DeltaFailed)

		s.log.WithError(err).Warn("Failed to dispatch connection.")
		_ = conn.Close() //nolint:errcheck
	}
}

func (s *Server) countResult(res servermetrics.TaskResult) {
	switch res {
	case servermetrics.TaskDelivered:
		atomic.AddInt64(&s.delivered, 1)
	case servermetrics.TaskFailed:
		atomic.AddInt64(&s.failed, 1)
	case servermetrics.TaskInterrupted:
		atomic.AddInt64(&s.interrupted, 1)
	}
}

// Stats returns a snapshot of the server counters.
func (s *Server) Stats() Stats {
	st := Stats{
		Strategy:   s.conf.Strategy,
		Accepted:   atomic.LoadInt64(&s.accepted),
		Pending:    atomic.LoadInt64(&s.pending),
		Active:     atomic.LoadInt64(&s.active),
		PeakActive: atomic.LoadInt64(&s.peakActive),

		Delivered:   atomic.LoadInt64(&s.delivered),
		Failed:      atomic.LoadInt64(&s.failed),
		Interrupted: atomic.LoadInt64(&s.interrupted),
	}
	if s.conf.Strategy == StrategyBounded {
		st.PoolSize = s.conf.PoolSize
	}
	return st
}

// Close stops accepting, interrupts every worker that is still delaying and
// waits for dispatched tasks to return. Interrupted connections are closed
// without a response.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}

	var err error
	s.once.Do(func() {
		s.lisMx.Lock()
		close(s.done)
		if s.lis != nil {
			err = s.lis.Close()
		}
		s.lisMx.Unlock()

		s.wg.Wait()
		s.dispatcher.Close()
	})
	return err
}
