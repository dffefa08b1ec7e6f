package chat

import "time"

// StreamSpeed controls how fast responses are progressively rendered.
type StreamSpeed int

const (
	StreamInstant StreamSpeed = iota // show everything immediately
	StreamFast                       // 4x the configured chunk per tick
	StreamNormal                     // configured chunk per tick (default)
)

// String returns a human-readable label for the speed.
func (s StreamSpeed) String() string {
	switch s {
	case StreamInstant:
		return "instant"
	case StreamFast:
		return "fast"
	case StreamNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// StreamConfig holds streaming parameters. The normal preset comes from
// ui.stream_interval and ui.stream_chunk in config; fast multiplies the
// chunk, instant bypasses ticking entirely.
type StreamConfig struct {
	Speed     StreamSpeed
	ChunkSize int           // runes per tick (0 means instant)
	TickRate  time.Duration // delay between ticks

	baseChunk int
	baseRate  time.Duration
}

// NewStreamConfig builds the normal-speed config from the given base values.
func NewStreamConfig(interval time.Duration, chunk int) StreamConfig {
	if interval <= 0 {
		interval = 25 * time.Millisecond
	}
	if chunk <= 0 {
		chunk = 3
	}
	return StreamConfig{
		Speed:     StreamNormal,
		ChunkSize: chunk,
		TickRate:  interval,
		baseChunk: chunk,
		baseRate:  interval,
	}
}

// ForSpeed returns a copy of the config tuned to the given speed preset.
func (c StreamConfig) ForSpeed(s StreamSpeed) StreamConfig {
	out := c
	out.Speed = s
	switch s {
	case StreamInstant:
		out.ChunkSize = 0
		out.TickRate = 0
	case StreamFast:
		out.ChunkSize = c.baseChunk * 4
		out.TickRate = c.baseRate
	default: // StreamNormal
		out.ChunkSize = c.baseChunk
		out.TickRate = c.baseRate
	}
	return out
}

// CycleStreamSpeed cycles: normal → fast → instant → normal.
func CycleStreamSpeed(current StreamSpeed) StreamSpeed {
	switch current {
	case StreamNormal:
		return StreamFast
	case StreamFast:
		return StreamInstant
	case StreamInstant:
		return StreamNormal
	default:
		return StreamNormal
	}
}
