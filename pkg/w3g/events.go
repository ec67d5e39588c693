package w3g

import (
	"fmt"
	"time"
)

// GameDataEvent is one top-level block of the action log. The concrete
// types are *ChatMessage, *TimeSlot, *LeaveGame, *ForceGameEnd, *Checksum
// and *UnknownBlock.
type GameDataEvent interface {
	BlockID() uint8
	gameDataEvent()
}

// ChatMessage represents an in-game chat message.
type ChatMessage struct {
	TimeMs     uint32 `json:"time_ms"`
	PlayerID   uint8  `json:"player_id"`
	PlayerName string `json:"player_name"`
	Flags      uint8  `json:"flags"`
	Mode       uint32 `json:"mode"`
	Text       string `json:"text"`
}

// IsStartup reports whether the message was sent before the game started.
func (c *ChatMessage) IsStartup() bool { return c.Flags == ChatFlagStartup }

// Timestamp returns message timestamp as time.Duration.
func (c *ChatMessage) Timestamp() time.Duration {
	return time.Duration(c.TimeMs) * time.Millisecond
}

// ModeName returns human-readable mode name.
func (c *ChatMessage) ModeName() string {
	switch c.Mode {
	case ChatModeAll:
		return "All"
	case ChatModeAllies:
		return "Allies"
	case ChatModeObservers:
		return "Observers"
	default:
		return fmt.Sprintf("Player %d", c.Mode-2)
	}
}

// TimeSlot carries the command blocks issued during one game tick.
type TimeSlot struct {
	TimeMs    uint32
	Increment uint16
	Blocks    []*CommandBlock
}

// CommandBlock is the span of actions one player issued in a time slot.
type CommandBlock struct {
	PlayerID uint8
	Length   uint16
	Actions  []ActionEvent
}

// LeaveGame records a player leaving.
type LeaveGame struct {
	TimeMs   uint32
	Reason   uint32
	PlayerID uint8
	Result   LeaveResult
	Unknown  uint32
}

// ForceGameEnd is the forced end countdown block.
type ForceGameEnd struct {
	Mode      uint32
	Countdown uint32
}

// Checksum is an opaque checksum block.
type Checksum struct {
	Data []byte
}

// UnknownBlock is a recognised but uninterpreted block such as the start
// markers.
type UnknownBlock struct {
	Tag     uint8
	Payload []byte
}

func (*ChatMessage) BlockID() uint8    { return BlockChat }
func (*TimeSlot) BlockID() uint8       { return BlockTimeSlot }
func (*LeaveGame) BlockID() uint8      { return BlockLeaveGame }
func (*ForceGameEnd) BlockID() uint8   { return BlockForcedEnd }
func (*Checksum) BlockID() uint8       { return BlockChecksum }
func (b *UnknownBlock) BlockID() uint8 { return b.Tag }

func (*ChatMessage) gameDataEvent()  {}
func (*TimeSlot) gameDataEvent()     {}
func (*LeaveGame) gameDataEvent()    {}
func (*ForceGameEnd) gameDataEvent() {}
func (*Checksum) gameDataEvent()     {}
func (*UnknownBlock) gameDataEvent() {}

// TimedAction is an action with the issuing player and absolute game time.
type TimedAction struct {
	TimeMs   uint32
	PlayerID uint8
	Action   ActionEvent
}

// Timestamp returns action timestamp as time.Duration.
func (a *TimedAction) Timestamp() time.Duration {
	return time.Duration(a.TimeMs) * time.Millisecond
}
