package w3g

// DecodeSettings decodes the encoded settings string kept opaque in
// StaticGameInfo.Settings.
func (s *StaticGameInfo) DecodeSettings() *GameSettings {
	return parseEncodedSettings(decodeEncodedString(s.Settings))
}

// decodeEncodedString decodes the encoded string format used in W3G.
//
// Every even byte-value was incremented by 1 so the string contains no
// zero bytes. A control byte precedes each group of up to 7 bytes; bit n+1
// of the control byte is 0 when byte n of the group was incremented.
func decodeEncodedString(data []byte) []byte {
	result := make([]byte, 0, len(data))
	pos := 0

	for pos < len(data) {
		control := data[pos]
		pos++

		for bit := 0; bit < 7 && pos < len(data); bit++ {
			b := data[pos]
			pos++

			if control&(1<<(bit+1)) == 0 {
				result = append(result, b-1)
			} else {
				result = append(result, b)
			}
		}
	}

	return result
}

// parseEncodedSettings parses game settings from the decoded string.
//
// The decoded string contains:
// - Game settings (13 bytes)
// - Null byte
// - Map path (null-terminated)
// - Map creator name (null-terminated)
func parseEncodedSettings(decoded []byte) *GameSettings {
	settings := &GameSettings{
		Speed: 2, // Default to fast
	}
	if len(decoded) < 13 {
		return settings
	}

	// Byte 0: Speed (bits 0-1)
	settings.Speed = decoded[0] & 0x03

	// Byte 1: Visibility and observers
	byte1 := decoded[1]
	settings.Visibility = byte1 & 0x0F
	settings.Observers = (byte1 >> 4) & 0x03
	settings.TeamsTogether = (byte1 & 0x40) != 0

	// Byte 2: Fixed teams
	settings.LockTeams = (decoded[2] & 0x06) != 0

	// Byte 3: Game options
	byte3 := decoded[3]
	settings.FullSharedControl = (byte3 & 0x01) != 0
	settings.RandomHero = (byte3 & 0x02) != 0
	settings.RandomRaces = (byte3 & 0x04) != 0
	settings.Referees = (byte3 & 0x40) != 0

	// Bytes 9-12: Map checksum
	settings.MapChecksum = make([]byte, 4)
	copy(settings.MapChecksum, decoded[9:13])

	c := NewCursor(decoded[13:])
	if next, err := c.Peek(); err == nil && next == 0 {
		_ = c.Skip(1)
	}
	if path, err := c.CString(); err == nil {
		settings.MapPath = path
		settings.MapName = extractMapName(path)
	}

	return settings
}

// extractMapName extracts the map name from a map path.
func extractMapName(mapPath string) string {
	mapName := mapPath

	for i := len(mapPath) - 1; i >= 0; i-- {
		if mapPath[i] == '/' || mapPath[i] == '\\' {
			mapName = mapPath[i+1:]
			break
		}
	}

	if len(mapName) > 4 {
		ext := mapName[len(mapName)-4:]
		if ext == ".w3x" || ext == ".w3m" || ext == ".W3X" || ext == ".W3M" {
			mapName = mapName[:len(mapName)-4]
		}
	}

	return mapName
}
