package models

import (
	"time"

	"github.com/skycoin/dateserver"
)

// StatsResponse is the body of the /stats endpoint.
type StatsResponse struct {
	dateserver.Stats
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}

// NewStatsResponse creates a StatsResponse for a server started at startedAt.
func NewStatsResponse(st dateserver.Stats, startedAt time.Time) StatsResponse {
	return StatsResponse{
		Stats:     st,
		StartedAt: startedAt,
		Uptime:    time.Since(startedAt).Truncate(time.Second).String(),
	}
}
