package servecmd

import (
	"net"
	"sync"
	"time"

	proxyproto "github.com/pires/go-proxyproto"
)

// ProxyHeaderTimeout bounds the wait for the PROXY protocol header of a
// connection. Past it the connection keeps its socket peer address.
const ProxyHeaderTimeout = time.Second * 5

// listen listens on addr. With proxy set, accepted connections report the
// client address carried in their PROXY protocol header.
func listen(addr string, proxy bool, headerTimeout time.Duration) (net.Listener, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if !proxy {
		return lis, nil
	}
	return &proxyListener{
		Listener: &proxyproto.Listener{Listener: lis},
		timeout:  headerTimeout,
	}, nil
}

type proxyListener struct {
	*proxyproto.Listener
	timeout time.Duration
}

func (l *proxyListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &proxyConn{Conn: conn, timeout: l.timeout}, nil
}

// proxyConn reads the header the first time its remote address is asked for,
// under a read deadline.
type proxyConn struct {
	net.Conn
	timeout time.Duration
	once    sync.Once
	addr    net.Addr
}

func (c *proxyConn) RemoteAddr() net.Addr {
	c.once.Do(func() {
		_ = c.Conn.SetReadDeadline(time.Now().Add(c.timeout)) //nolint:errcheck
		c.addr = c.Conn.RemoteAddr()
		_ = c.Conn.SetReadDeadline(time.Time{}) //nolint:errcheck
	})
	return c.addr
}
