// Package w3gtest builds synthetic replay files for tests.
package w3gtest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/flate"
)

// Buffer is a little endian byte writer.
type Buffer struct {
	bytes.Buffer
}

func (b *Buffer) U8(v uint8) *Buffer {
	b.WriteByte(v)
	return b
}

func (b *Buffer) U16(v uint16) *Buffer {
	binary.Write(&b.Buffer, binary.LittleEndian, v)
	return b
}

func (b *Buffer) U32(v uint32) *Buffer {
	binary.Write(&b.Buffer, binary.LittleEndian, v)
	return b
}

func (b *Buffer) F32(v float32) *Buffer {
	return b.U32(math.Float32bits(v))
}

func (b *Buffer) Str(s string) *Buffer {
	b.WriteString(s)
	b.WriteByte(0)
	return b
}

func (b *Buffer) Raw(p ...byte) *Buffer {
	b.Write(p)
	return b
}

// Player is a player record of the lobby section.
type Player struct {
	ID   uint8
	Name string
	// Ladder selects the 8 byte trailer instead of the 1 byte custom one.
	Ladder bool
}

// Slot is a 9 byte slot record.
type Slot struct {
	PlayerID   uint8
	Status     uint8
	Computer   bool
	Team       uint8
	Color      uint8
	RaceFlags  uint8
	AIStrength uint8
	Handicap   uint8
}

// UsedSlot returns an occupied human slot.
func UsedSlot(playerID, team, color uint8) Slot {
	return Slot{PlayerID: playerID, Status: 2, Team: team, Color: color, RaceFlags: 0x20, Handicap: 100}
}

// Lobby describes the static section.
type Lobby struct {
	GameName string
	Settings []byte
	Players  []Player // Players[0] is the host
	Slots    []Slot
	Seed     uint32
}

func writePlayer(b *Buffer, record uint8, p Player) {
	b.U8(record).U8(p.ID).Str(p.Name)
	if p.Ladder {
		b.U8(0x08).U32(60000).U32(0x08)
	} else {
		b.U8(0x01).U8(0)
	}
}

// Static encodes the lobby section including the 4 byte preamble.
func Static(l Lobby) []byte {
	var b Buffer
	b.U32(0x110)
	writePlayer(&b, 0x00, l.Players[0])
	b.Str(l.GameName)
	b.U8(0)
	b.Raw(l.Settings...).U8(0)
	b.U32(uint32(len(l.Slots)))
	b.U8(0x09).U8(0).U16(0)
	b.U32(0x0809)
	for _, p := range l.Players[1:] {
		writePlayer(&b, 0x16, p)
		b.U32(0)
	}

	b.U8(0x19)
	b.U16(uint16(1 + 9*len(l.Slots) + 6))
	b.U8(uint8(len(l.Slots)))
	for _, s := range l.Slots {
		computer := uint8(0)
		if s.Computer {
			computer = 1
		}
		b.Raw(s.PlayerID, 100, s.Status, computer, s.Team, s.Color, s.RaceFlags, s.AIStrength, s.Handicap)
	}
	b.U32(l.Seed)
	b.U8(0) // select mode
	b.U8(uint8(len(l.Slots)))
	return b.Bytes()
}

// Action encodes one action.
type Action []byte

// DotaInfo encodes a stored-integer sync action with an integer value.
func DotaInfo(a, bKey, c string, value uint32) Action {
	var b Buffer
	b.U8(0x6B).Str(a).Str(bKey).Str(c).U32(value)
	return b.Bytes()
}

// DotaInfoRaw encodes a stored-integer sync action with raw trailing bytes.
func DotaInfoRaw(a, bKey, c string, raw [4]byte) Action {
	var b Buffer
	b.U8(0x6B).Str(a).Str(bKey).Str(c).Raw(raw[:]...)
	return b.Bytes()
}

// Command is the command block of one player.
type Command struct {
	PlayerID uint8
	Actions  []Action
	// Length overrides the declared length when non-zero.
	Length uint16
}

// TimeSlot encodes a 0x1F block.
func TimeSlot(increment uint16, cmds ...Command) []byte {
	var body Buffer
	for _, c := range cmds {
		var actions Buffer
		for _, a := range c.Actions {
			actions.Raw(a...)
		}
		n := c.Length
		if n == 0 {
			n = uint16(actions.Len())
		}
		body.U8(c.PlayerID).U16(n).Raw(actions.Bytes()...)
	}
	var b Buffer
	b.U8(0x1F).U16(uint16(2 + body.Len())).U16(increment).Raw(body.Bytes()...)
	return b.Bytes()
}

// Chat encodes a normal chat message block.
func Chat(playerID uint8, mode uint32, text string) []byte {
	var b Buffer
	b.U8(0x20).U8(playerID).U16(uint16(1 + 4 + len(text) + 1)).U8(0x20).U32(mode).Str(text)
	return b.Bytes()
}

// Leave encodes a LeaveGame block.
func Leave(playerID uint8, reason, result uint32) []byte {
	var b Buffer
	b.U8(0x17).U32(reason).U8(playerID).U32(result).U32(0)
	return b.Bytes()
}

// Deflate compresses p as raw deflate.
func Deflate(p []byte) []byte {
	var out bytes.Buffer
	w, err := flate.NewWriter(&out, flate.BestCompression)
	if err != nil {
		panic(err)
	}
	w.Write(p)
	w.Close()
	return out.Bytes()
}

// Block is one data block ready to be written after the header.
type Block struct {
	Payload      []byte
	Decompressed uint16
}

// Split cuts stream into deflated blocks of at most size bytes.
func Split(stream []byte, size int) []Block {
	var blocks []Block
	for len(stream) > 0 {
		n := size
		if n > len(stream) {
			n = len(stream)
		}
		blocks = append(blocks, Block{Payload: Deflate(stream[:n]), Decompressed: uint16(n)})
		stream = stream[n:]
	}
	return blocks
}

// MagicString is the replay file magic.
const MagicString = "Warcraft III recorded game\x1a\x00"

// File assembles a version 1 replay file (68 byte header).
func File(blocks []Block, version uint32, durationMs uint32) []byte {
	var body Buffer
	decompressed := 0
	for _, blk := range blocks {
		body.U16(uint16(len(blk.Payload))).U16(blk.Decompressed).U32(0).Raw(blk.Payload...)
		decompressed += int(blk.Decompressed)
	}

	var b Buffer
	b.WriteString(MagicString)
	b.U32(0x44)
	b.U32(uint32(0x44 + body.Len()))
	b.U32(1)
	b.U32(uint32(decompressed))
	b.U32(uint32(len(blocks)))
	b.Raw('P', 'X', '3', 'W')
	b.U32(version)
	b.U16(6059)
	b.U16(0x8000)
	b.U32(durationMs)
	b.U32(0)
	b.Raw(body.Bytes()...)
	return b.Bytes()
}

// Replay builds a complete file from a lobby and action log blocks, split
// into data blocks of blockSize bytes.
func Replay(l Lobby, blockSize int, log ...[]byte) []byte {
	stream := append([]byte(nil), Static(l)...)
	for _, blk := range log {
		stream = append(stream, blk...)
	}
	return File(Split(stream, blockSize), 26, 120000)
}
