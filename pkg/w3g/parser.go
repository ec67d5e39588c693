package w3g

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Parser is the main W3G replay parser. A Parser holds no per-replay state
// and may be used from several goroutines.
type Parser struct {
	Strict  bool // If true, fail on unknown blocks; otherwise stop and return what was decoded
	Workers int  // Block decompression goroutines; <= 0 means GOMAXPROCS
	Log     logrus.FieldLogger
}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{Log: logrus.StandardLogger()}
}

func (p *Parser) log() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

func (p *Parser) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Parse parses a complete replay file.
func (p *Parser) Parse(filepath string) (*Replay, error) {
	return p.ParseContext(context.Background(), filepath)
}

// ParseContext parses a complete replay file; ctx only bounds block
// decompression.
func (p *Parser) ParseContext(ctx context.Context, filepath string) (*Replay, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return p.ParseBytes(ctx, data)
}

// ParseStream parses a replay from an io.Reader.
func (p *Parser) ParseStream(r io.Reader) (*Replay, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.ParseBytes(context.Background(), data)
}

// ParseHeaderOnly parses just the header (for quick metadata access).
func (p *Parser) ParseHeaderOnly(filepath string) (*ReplayHeader, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, HeaderV1Total)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return parseHeaderFromBytes(buf[:n])
}

// ParseBytes parses a replay held in memory.
func (p *Parser) ParseBytes(ctx context.Context, data []byte) (*Replay, error) {
	c := NewCursor(data)

	// 1. Parse header
	header, err := parseHeader(c)
	if err != nil {
		return nil, err
	}
	if header.IsReforged() {
		p.log().WithField("version", header.Version).Warn("reforged replay, lobby metadata may not decode")
	}

	// 2. Decompress all blocks
	blocks, err := splitBlocks(c, header.NumBlocks)
	if err != nil {
		return nil, err
	}
	if c.Remaining() > 0 {
		p.log().WithFields(logrus.Fields{
			"offset": c.Pos(),
			"bytes":  c.Remaining(),
		}).Warn("trailing bytes after last data block")
	}
	stream, err := decompressBlocks(ctx, blocks, p.workers())
	if err != nil {
		return nil, err
	}

	// 3. Parse game data
	return p.parseGameData(header, stream)
}

// parseGameData parses the decompressed logical stream.
func (p *Parser) parseGameData(header *ReplayHeader, data []byte) (*Replay, error) {
	c := NewCursor(data)

	static, err := parseStaticInfo(c)
	if err != nil {
		return nil, err
	}

	events, err := p.parseEvents(c, static, header.Version)
	if err != nil {
		return nil, err
	}

	return &Replay{Header: header, Static: static, Events: events}, nil
}

// parseEvents walks the action log. The absolute game time is the sum of
// all time slot increments seen so far.
func (p *Parser) parseEvents(c *Cursor, static *StaticGameInfo, version uint32) ([]GameDataEvent, error) {
	var (
		events []GameDataEvent
		timeMs uint32
	)

	for c.Remaining() > 0 {
		offset := c.Pos()
		blockID, err := c.Uint8()
		if err != nil {
			return nil, err
		}

		var ev GameDataEvent
		switch blockID {
		case BlockLeaveGame:
			ev, err = parseLeaveGame(c, timeMs)

		case BlockFirstStart, BlockSecondStart, BlockThirdStart:
			// 1 dword, always 0x01
			ev, err = parseOpaqueBlock(c, blockID, 4)

		case BlockTimeSlot, BlockTimeSlotOld:
			var slot *TimeSlot
			slot, err = parseTimeSlot(c, timeMs, version)
			if err == nil {
				timeMs = slot.TimeMs
				ev = slot
			}

		case BlockChat:
			var msg *ChatMessage
			msg, err = parseChatMessage(c, static)
			if err == nil {
				msg.TimeMs = timeMs
				ev = msg
			}

		case BlockChecksum:
			// 1 byte length + data
			var n uint8
			if n, err = c.Uint8(); err == nil {
				var data []byte
				data, err = c.ReadBytes(int(n))
				ev = &Checksum{Data: data}
			}

		case BlockUnknown23:
			ev, err = parseOpaqueBlock(c, blockID, 10)

		case BlockForcedEnd:
			// mode (4) + countdown (4)
			end := &ForceGameEnd{}
			if end.Mode, err = c.Uint32(); err == nil {
				end.Countdown, err = c.Uint32()
			}
			ev = end

		default:
			if p.Strict {
				return nil, newUnknownBlockError(blockID, offset)
			}
			p.log().WithFields(logrus.Fields{
				"block":  blockID,
				"offset": offset,
				"time":   timeMs,
			}).Debug("unknown block, end of action log")
			return events, nil
		}

		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, nil
}

// parseLeaveGame parses a LeaveGame block: reason (4) + player_id (1) +
// result (4) + unknown (4).
func parseLeaveGame(c *Cursor, timeMs uint32) (*LeaveGame, error) {
	lv := &LeaveGame{TimeMs: timeMs}
	var err error
	if lv.Reason, err = c.Uint32(); err != nil {
		return nil, err
	}
	if lv.PlayerID, err = c.Uint8(); err != nil {
		return nil, err
	}
	result, err := c.Uint32()
	if err != nil {
		return nil, err
	}
	lv.Result = LeaveResult(result)
	if lv.Unknown, err = c.Uint32(); err != nil {
		return nil, err
	}
	return lv, nil
}

// parseTimeSlot parses a TimeSlot block:
//   - 1 word: Number of following bytes (n)
//   - 1 word: Time increment (ms)
//   - n-2 bytes: CommandData blocks
func parseTimeSlot(c *Cursor, timeMs uint32, version uint32) (*TimeSlot, error) {
	n, err := c.Uint16()
	if err != nil {
		return nil, err
	}
	body, err := c.Sub(int(n))
	if err != nil {
		return nil, err
	}
	increment, err := body.Uint16()
	if err != nil {
		return nil, err
	}
	blocks, err := parseCommandBlocks(body, version)
	if err != nil {
		return nil, err
	}
	return &TimeSlot{
		TimeMs:    timeMs + uint32(increment),
		Increment: increment,
		Blocks:    blocks,
	}, nil
}

func parseOpaqueBlock(c *Cursor, tag uint8, n int) (*UnknownBlock, error) {
	payload, err := c.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return &UnknownBlock{Tag: tag, Payload: payload}, nil
}

// IterActions returns a channel for iterating timed actions of a replay.
func (p *Parser) IterActions(ctx context.Context, filepath string) (<-chan *TimedAction, <-chan error) {
	actionCh := make(chan *TimedAction)
	errCh := make(chan error, 1)

	go func() {
		defer close(actionCh)
		defer close(errCh)

		replay, err := p.ParseContext(ctx, filepath)
		if err != nil {
			errCh <- err
			return
		}

		for _, action := range replay.Actions() {
			select {
			case actionCh <- action:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}()

	return actionCh, errCh
}

// Actions flattens all time slots into timed actions.
func (r *Replay) Actions() []*TimedAction {
	var out []*TimedAction
	for _, slot := range r.TimeSlots() {
		for _, block := range slot.Blocks {
			for _, action := range block.Actions {
				out = append(out, &TimedAction{TimeMs: slot.TimeMs, PlayerID: block.PlayerID, Action: action})
			}
		}
	}
	return out
}
