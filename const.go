package dateserver

import "time"

// Constants.
const (
	// DefaultDelay is how long a worker waits before answering a connection.
	DefaultDelay = time.Second * 5

	// DefaultPoolSize is the number of worker slots of the bounded strategy.
	DefaultPoolSize = 20

	// TimestampLayout formats the timestamp line, e.g. "Sun Dec 03 10:15:30 GMT 2023".
	TimestampLayout = "Mon Jan 02 15:04:05 MST 2006"
)
