package w3g

// parseStaticInfo parses the lobby section at the start of the logical
// stream and leaves c on the first action log block.
//
// Structure:
//   - 4 bytes: unknown (usually 0x00000110)
//   - Host player record
//   - Game name (null-terminated)
//   - 1 byte: null
//   - Encoded settings string (null-terminated)
//   - 1 dword: Player count
//   - 1 byte: Game type, 1 byte: private flag, 1 word: unknown
//   - 1 dword: Language ID
//   - Player records (0x16), each followed by 1 dword
//   - GameStartRecord (0x19)
func parseStaticInfo(c *Cursor) (*StaticGameInfo, error) {
	if err := c.Skip(staticPreambleSize); err != nil {
		return nil, err
	}

	info := &StaticGameInfo{}

	host, err := parsePlayerRecord(c, RecordHost)
	if err != nil {
		return nil, err
	}
	info.Players = append(info.Players, host)

	if info.GameName, err = c.CString(); err != nil {
		return nil, err
	}
	if err := c.Skip(1); err != nil {
		return nil, err
	}
	settings, err := c.CString()
	if err != nil {
		return nil, err
	}
	info.Settings = []byte(settings)

	if info.PlayerCount, err = c.Uint32(); err != nil {
		return nil, err
	}
	if info.GameType, err = c.Uint8(); err != nil {
		return nil, err
	}
	private, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	info.Private = private != 0
	if err := c.Skip(2); err != nil {
		return nil, err
	}
	if info.Language, err = c.Uint32(); err != nil {
		return nil, err
	}

	for {
		next, err := c.Peek()
		if err != nil {
			return nil, err
		}
		if next != RecordAdditionalPlayer {
			break
		}
		player, err := parsePlayerRecord(c, RecordAdditionalPlayer)
		if err != nil {
			return nil, err
		}
		if err := c.Skip(4); err != nil {
			return nil, err
		}
		info.Players = append(info.Players, player)
	}

	if err := parseGameStartRecord(c, info); err != nil {
		return nil, err
	}
	return info, nil
}

// parsePlayerRecord parses a player record.
//
// Player record structure:
//   - 1 byte: Record ID (0x00 for host, 0x16 for additional)
//   - 1 byte: Player ID
//   - n bytes: Player name (null-terminated)
//   - 1 byte: Game type (0x01 for custom, 0x08 for ladder)
//   - 1 byte for custom games, 8 bytes otherwise
func parsePlayerRecord(c *Cursor, want uint8) (*PlayerRecord, error) {
	start := c.Pos()
	recordID, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	if recordID != want {
		return nil, newUnexpectedTagError(want, recordID, start)
	}

	p := &PlayerRecord{RecordID: recordID, Race: RaceUnknown}
	if p.ID, err = c.Uint8(); err != nil {
		return nil, err
	}
	if p.Name, err = c.CString(); err != nil {
		return nil, err
	}
	if p.GameType, err = c.Uint8(); err != nil {
		return nil, err
	}

	if p.GameType == GameTypeCustom {
		p.Trailer, err = c.ReadBytes(1)
		return p, err
	}

	// Ladder game: 4 bytes runtime + 4 bytes race flags
	if p.Trailer, err = c.ReadBytes(8); err != nil {
		return nil, err
	}
	t := NewCursor(p.Trailer)
	p.RuntimeMs, _ = t.Uint32()
	raceFlags, _ := t.Uint32()
	p.Race = RaceFromFlags(uint8(raceFlags))
	return p, nil
}

// parseGameStartRecord parses the GameStartRecord.
//
// Structure:
//   - 1 byte: Record ID (0x19)
//   - 1 word: Number of following data bytes
//   - 1 byte: Number of slot records
//   - n slot records
//   - 1 dword: Random seed
//   - 1 byte: Select mode
//   - 1 byte: Start spot count
func parseGameStartRecord(c *Cursor, info *StaticGameInfo) error {
	start := c.Pos()
	tag, err := c.Uint8()
	if err != nil {
		return err
	}
	if tag != BlockGameStart {
		return newUnexpectedTagError(BlockGameStart, tag, start)
	}

	if _, err := c.Uint16(); err != nil {
		return err
	}
	numSlots, err := c.Uint8()
	if err != nil {
		return err
	}

	seen := make(map[uint8]bool, numSlots)
	info.Slots = make([]*SlotRecord, 0, numSlots)
	for i := uint8(0); i < numSlots; i++ {
		offset := c.Pos()
		slot, err := parseSlotRecord(c)
		if err != nil {
			return err
		}
		if slot.Status == SlotUsed && !slot.IsObserver() {
			if seen[slot.Color] {
				return newDuplicateColorError(slot.Color, offset)
			}
			seen[slot.Color] = true
		}
		info.Slots = append(info.Slots, slot)
	}

	if info.RandomSeed, err = c.Uint32(); err != nil {
		return err
	}
	if info.SelectMode, err = c.Uint8(); err != nil {
		return err
	}
	info.StartSpots, err = c.Uint8()
	return err
}

// parseSlotRecord parses a 9 byte slot record.
//
// Slot record structure:
//   - 1 byte: Player ID (0x00 for computer)
//   - 1 byte: Download percent
//   - 1 byte: Slot status
//   - 1 byte: Computer flag
//   - 1 byte: Team number
//   - 1 byte: Color
//   - 1 byte: Race flags
//   - 1 byte: AI strength
//   - 1 byte: Handicap
func parseSlotRecord(c *Cursor) (*SlotRecord, error) {
	b, err := c.ReadBytes(9)
	if err != nil {
		return nil, err
	}
	return &SlotRecord{
		PlayerID:        b[0],
		DownloadPercent: b[1],
		Status:          SlotStatus(b[2]),
		IsComputer:      b[3] == 0x01,
		Team:            b[4],
		Color:           b[5],
		RaceFlags:       b[6],
		AIStrength:      b[7],
		Handicap:        b[8],
	}, nil
}
