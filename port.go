package dateserver

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPort is the largest valid TCP port.
const MaxPort = 65535

// ParsePort parses the port from the first positional argument.
func ParsePort(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrNoPort
	}

	port, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, args[0])
	}
	if port < 1 || port > MaxPort {
		return 0, fmt.Errorf("%w: %d is outside 1-%d", ErrPortOutOfRange, port, MaxPort)
	}
	return port, nil
}

// ListenAddr returns the address the date servers bind to for port.
func ListenAddr(port int) string {
	return ":" + strconv.Itoa(port)
}
