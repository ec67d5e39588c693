// Package w3g decodes Warcraft III replay (.w3g) files into the lobby
// information and the typed action log.
//
// Basic usage:
//
//	replay, err := w3g.Parse("my_replay.w3g")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Game: %s\n", replay.Static.GameName)
//	fmt.Printf("Duration: %s\n", w3g.FormatDuration(replay.Header.DurationMs))
//
//	for _, slot := range replay.TimeSlots() {
//	    for _, block := range slot.Blocks {
//	        fmt.Printf("%d: player %d issued %d actions\n",
//	            slot.TimeMs, block.PlayerID, len(block.Actions))
//	    }
//	}
//
// Decoding errors are typed (*MalformedHeaderError, *SizeMismatchError,
// *DecompressionError, *OutOfBoundsError, *UnexpectedTagError,
// *UnrecognizedActionError, *CommandBlockLengthError) and carry the byte
// offset at which decoding stopped. An unrecognised top-level block ends
// the action log without an error unless Parser.Strict is set.
package w3g

import "fmt"

// Parse is a convenience function to parse a replay file.
func Parse(filepath string) (*Replay, error) {
	return NewParser().Parse(filepath)
}

// ParseHeaderOnly is a convenience function to parse just the header.
func ParseHeaderOnly(filepath string) (*ReplayHeader, error) {
	return NewParser().ParseHeaderOnly(filepath)
}

// FormatDuration formats milliseconds as H:MM:SS or M:SS.
func FormatDuration(ms uint32) string {
	totalSeconds := ms / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
