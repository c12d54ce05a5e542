package dateserver

import (
	"errors"
	"net"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"

	"github.com/skycoin/dateserver/servermetrics"
)

const serverDelay = time.Millisecond * 500

func TestNewServer(t *testing.T) {
	srv, err := NewServer(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(StrategyUnbounded), srv.conf)
	assert.Equal(t, Stats{Strategy: StrategyUnbounded}, srv.Stats())
	require.NoError(t, srv.Close())

	srv, err = NewServer(&Config{Strategy: StrategyBounded}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPoolSize, srv.Stats().PoolSize)
	assert.Equal(t, DefaultDelay, srv.conf.Delay)
	require.NoError(t, srv.Close())

	_, err = NewServer(&Config{Strategy: "fork"}, nil)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestServer_Serve(t *testing.T) {
	for _, strategy := range []Strategy{StrategyUnbounded, StrategyBounded} {
		strategy := strategy
		t.Run(string(strategy), func(t *testing.T) {
			m := newSpyMetrics()
			srv, addr := serveTestServer(t, Config{Strategy: strategy, Delay: serverDelay}, m, func(s *Server) {
				s.worker.now = func() time.Time { return time.Now().UTC() }
			})

			rep := fetch(addr)
			require.NoError(t, rep.err)
			assert.GreaterOrEqual(t, rep.took, serverDelay)

			// The timestamp reflects the time of the write, not of the accept.
			require.Equal(t, byte('\n'), rep.line[len(rep.line)-1])
			ts, err := ParseTimestamp(rep.line[:len(rep.line)-1], time.UTC)
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now(), ts, time.Second*2)

			require.Eventually(t, func() bool { return srv.Stats().Active == 0 }, time.Second, time.Millisecond*10)
			st := srv.Stats()
			assert.Equal(t, int64(1), st.Accepted)
			assert.Equal(t, int64(0), st.Pending)
			assert.Equal(t, int64(1), st.PeakActive)
			assert.Equal(t, int64(1), st.Delivered)
			assert.Equal(t, int64(0), st.Failed)
			assert.Equal(t, 1, m.count(servermetrics.TaskDelivered))
		})
	}
}

// TestServer_Unbounded ensures every connection is served at once, with no
// ceiling on concurrent tasks.
func TestServer_Unbounded(t *testing.T) {
	const conns = 100

	srv, addr := serveTestServer(t, Config{Strategy: StrategyUnbounded, Delay: serverDelay}, nil)

	for i, rep := range fetchAll(addr, conns) {
		require.NoError(t, rep.err, i)
		assert.GreaterOrEqual(t, rep.took, serverDelay, i)
		assert.Less(t, rep.took, serverDelay*2, i)
	}

	require.Eventually(t, func() bool { return srv.Stats().Delivered == conns }, time.Second, time.Millisecond*10)
	st := srv.Stats()
	assert.Equal(t, int64(conns), st.Accepted)
	assert.Greater(t, st.PeakActive, int64(DefaultPoolSize))
}

// TestServer_Bounded ensures at most PoolSize tasks run at once, and that the
// connections beyond it wait for a free slot.
func TestServer_Bounded(t *testing.T) {
	const conns = 25

	srv, addr := serveTestServer(t, Config{Strategy: StrategyBounded, Delay: serverDelay}, nil)

	replies := fetchAll(addr, conns)
	took := make([]time.Duration, 0, conns)
	for i, rep := range replies {
		require.NoError(t, rep.err, i)
		took = append(took, rep.took)
	}
	sort.Slice(took, func(i, j int) bool { return took[i] < took[j] })

	threshold := serverDelay * 3 / 2
	for i, d := range took {
		if i < DefaultPoolSize {
			assert.GreaterOrEqual(t, d, serverDelay, i)
			assert.Less(t, d, threshold, i)
		} else {
			assert.GreaterOrEqual(t, d, threshold, i)
		}
	}

	require.Eventually(t, func() bool { return srv.Stats().Delivered == conns }, time.Second, time.Millisecond*10)
	st := srv.Stats()
	assert.Equal(t, int64(conns), st.Accepted)
	assert.Equal(t, int64(DefaultPoolSize), st.PeakActive)
}

// TestServer_ClientDisconnect ensures a client that leaves early does not
// affect the server or other clients.
func TestServer_ClientDisconnect(t *testing.T) {
	srv, addr := serveTestServer(t, Config{Strategy: StrategyBounded, Delay: serverDelay}, nil)

	for i := 0; i < 5; i++ {
		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		require.NoError(t, conn.Close())
	}

	for _, rep := range fetchAll(addr, 3) {
		require.NoError(t, rep.err)
	}

	require.Eventually(t, func() bool { return srv.Stats().Active == 0 }, time.Second*2, time.Millisecond*10)
	assert.Equal(t, int64(8), srv.Stats().Accepted)

	// Still accepting.
	require.NoError(t, fetch(addr).err)
}

// TestServer_DefaultDelay checks the delay the binaries run with.
func TestServer_DefaultDelay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}

	_, addr := serveTestServer(t, DefaultConfig(StrategyBounded), nil)

	rep := fetch(addr)
	require.NoError(t, rep.err)
	assert.GreaterOrEqual(t, rep.took, DefaultDelay)
	assert.Less(t, rep.took, DefaultDelay+time.Second*2)
}

type failingListener struct {
	net.Listener
	err error
}

func (l *failingListener) Accept() (net.Conn, error) {
	return nil, l.err
}

// TestServer_AcceptError ensures an accept error ends Serve at once.
func TestServer_AcceptError(t *testing.T) {
	lis, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	t.Cleanup(func() { _ = lis.Close() }) //nolint:errcheck

	srv, err := NewServer(&Config{Strategy: StrategyBounded}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, srv.Close()) })

	acceptErr := errors.New("accept failed")
	err = srv.Serve(&failingListener{Listener: lis, err: acceptErr})
	assert.ErrorIs(t, err, acceptErr)
}

func TestServer_Close(t *testing.T) {
	m := newSpyMetrics()
	srv, addr := serveTestServer(t, Config{Strategy: StrategyBounded, Delay: time.Hour, PoolSize: 2}, m)

	// Two running, three queued.
	replies := make(chan reply, 5)
	for i := 0; i < 5; i++ {
		go func() { replies <- fetch(addr) }()
	}
	require.Eventually(t, func() bool {
		st := srv.Stats()
		return st.Active == 2 && st.Pending == 3
	}, time.Second*2, time.Millisecond*10)

	require.NoError(t, srv.Close())

	// Every connection is closed without a timestamp.
	for i := 0; i < 5; i++ {
		rep := <-replies
		assert.Error(t, rep.err)
		assert.Empty(t, rep.line)
	}
	assert.Equal(t, 5, m.count(servermetrics.TaskInterrupted))
	st := srv.Stats()
	assert.Equal(t, int64(0), st.Active)
	assert.Equal(t, int64(5), st.Interrupted)
	assert.Equal(t, int64(0), st.Delivered)

	// Closed servers do not serve again.
	lis, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	t.Cleanup(func() { _ = lis.Close() }) //nolint:errcheck
	assert.ErrorIs(t, srv.Serve(lis), ErrServerClosed)
}

// TestServer_StatsFailed ensures a write to a peer that already left is
// counted as failed, not delivered.
func TestServer_StatsFailed(t *testing.T) {
	srv, err := NewServer(&Config{Strategy: StrategyUnbounded, Delay: testDelay}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, srv.Close()) })

	srvConn, cliConn := net.Pipe()
	require.NoError(t, cliConn.Close())
	srv.dispatch(srvConn)

	require.Eventually(t, func() bool {
		st := srv.Stats()
		return st.Failed == 1 && st.Active == 0
	}, time.Second, time.Millisecond*10)
	st := srv.Stats()
	assert.Equal(t, int64(0), st.Delivered)
	assert.Equal(t, int64(0), st.Interrupted)
}

func TestServer_DispatchAfterClose(t *testing.T) {
	srv, err := NewServer(&Config{Strategy: StrategyBounded}, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Close())

	srvConn, cliConn := net.Pipe()
	srv.dispatch(srvConn)

	_, err = cliConn.Read(make([]byte, 1))
	assert.Error(t, err)

	st := srv.Stats()
	assert.Equal(t, int64(1), st.Accepted)
	assert.Equal(t, int64(0), st.Pending)
	assert.Equal(t, int64(0), st.Active)
}
