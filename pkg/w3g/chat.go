package w3g

import "fmt"

// parseChatMessage parses a chat message block.
//
// Chat message structure (v1.07+):
//   - 1 byte: Sender ID
//   - 1 word: Number of following bytes (n)
//   - 1 byte: Flags (0x10=startup, 0x20=normal)
//   - 1 dword: Chat mode (if flag=0x20): 0=all, 1=allies, 2=observers, 3+=player
//   - Message text (null-terminated)
func parseChatMessage(c *Cursor, static *StaticGameInfo) (*ChatMessage, error) {
	playerID, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	size, err := c.Uint16()
	if err != nil {
		return nil, err
	}
	body, err := c.Sub(int(size))
	if err != nil {
		return nil, err
	}

	msg := &ChatMessage{PlayerID: playerID}
	if msg.Flags, err = body.Uint8(); err != nil {
		return nil, err
	}
	if msg.Flags != ChatFlagStartup {
		if msg.Mode, err = body.Uint32(); err != nil {
			return nil, err
		}
	}
	if msg.Text, err = body.CString(); err != nil {
		return nil, err
	}

	if p := static.Player(playerID); p != nil {
		msg.PlayerName = p.Name
	} else {
		msg.PlayerName = fmt.Sprintf("Player %d", playerID)
	}
	return msg, nil
}
