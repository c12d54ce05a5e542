package dateserver

import "errors"

// Configuration errors.
var (
	ErrNoPort         = errors.New("no port provided")
	ErrInvalidPort    = errors.New("value provided is not a number")
	ErrPortOutOfRange = errors.New("port out of range")
)

// Server errors.
var (
	ErrUnknownStrategy = errors.New("unknown dispatch strategy")
	ErrServerClosed    = errors.New("server closed")
)
