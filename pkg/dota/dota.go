// Package dota reconstructs DotA match statistics from a decoded Warcraft
// III replay.
//
// The DotA map broadcasts per-player counters and kill, assist and tower
// events through stored-integer sync actions keyed by slot color.
// Aggregate replays those updates in stream order: counters are
// overwritten by later broadcasts, events are appended to the logs of the
// players involved together with the absolute game time.
package dota

import (
	"context"

	"github.com/condor/w3g-dota/pkg/w3g"
)

// Analyze aggregates a decoded replay.
func Analyze(replay *w3g.Replay, units UnitLookup) *Match {
	return Aggregate(replay.Static, replay.Events, units)
}

// ParseFile decodes a replay file with p and aggregates it. No partial
// match is returned when decoding fails.
func ParseFile(ctx context.Context, p *w3g.Parser, filepath string, units UnitLookup) (*Match, error) {
	replay, err := p.ParseContext(ctx, filepath)
	if err != nil {
		return nil, err
	}
	return Analyze(replay, units), nil
}
