package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Healthy reports whether the service can serve reads and writes.
func (s Status) Healthy() bool {
	return s.PostgreSQL
}

// Degraded reports a working service whose notifications are being buffered.
func (s Status) Degraded() bool {
	return s.PostgreSQL && (!s.Redis || s.BufferSize > 0)
}
