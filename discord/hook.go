// Package discord reports error logs to a discord webhook.
package discord

import (
	"sync"
	"time"

	"github.com/kz/discordrus"
	"github.com/sirupsen/logrus"
)

// DefaultLimit is the minimum interval between two reports of one message.
const DefaultLimit = time.Minute

// Hook is a logrus hook that forwards error entries to discord, optionally
// dropping repeats of a message seen within the limit.
type Hook struct {
	parent     logrus.Hook
	limit      time.Duration
	mx         sync.Mutex
	timestamps map[string]time.Time
}

// Option configures a Hook.
type Option func(*Hook)

// WithLimit enables the rate limiter with the specified limit.
func WithLimit(limit time.Duration) Option {
	return func(h *Hook) {
		h.limit = limit
		h.timestamps = make(map[string]time.Time)
	}
}

// NewHook returns a new Hook posting as tag to webHookURL.
func NewHook(tag, webHookURL string, opts ...Option) logrus.Hook {
	hook := &Hook{
		parent: discordrus.NewHook(webHookURL, logrus.ErrorLevel, discordOpts(tag)),
	}
	for _, opt := range opts {
		opt(hook)
	}
	return hook
}

// Levels implements logrus.Hook.
func (h *Hook) Levels() []logrus.Level {
	return h.parent.Levels()
}

// Fire implements logrus.Hook.
func (h *Hook) Fire(entry *logrus.Entry) error {
	if h.shouldFire(entry) {
		return h.parent.Fire(entry)
	}
	return nil
}

func (h *Hook) shouldFire(entry *logrus.Entry) bool {
	if h.limit == 0 || h.timestamps == nil {
		return true
	}

	h.mx.Lock()
	defer h.mx.Unlock()

	if v, ok := h.timestamps[entry.Message]; ok && entry.Time.Sub(v) < h.limit {
		return false
	}
	h.timestamps[entry.Message] = entry.Time
	return true
}

func discordOpts(tag string) *discordrus.Opts {
	return &discordrus.Opts{
		Username:        tag,
		TimestampFormat: time.RFC3339,
		TimestampLocale: time.UTC,
	}
}
