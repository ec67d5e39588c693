package w3g

import (
	"bytes"
	"fmt"
)

// parseHeader parses the W3G file header.
//
// The header consists of:
// - Base header (0x30 bytes)
// - SubHeader (0x10 bytes for v0, 0x14 bytes for v1)
func parseHeader(c *Cursor) (*ReplayHeader, error) {
	magic, err := c.ReadBytes(MagicSize)
	if err != nil {
		return nil, newMalformedHeaderError("file too small for header", 0)
	}
	if !bytes.Equal(magic, MagicString) {
		return nil, newMalformedHeaderError(fmt.Sprintf("invalid magic string: got %q", magic), 0)
	}

	// Offset 0x1C: First data block offset (header size)
	// Offset 0x20: Compressed file size
	// Offset 0x24: Header version (0 or 1)
	// Offset 0x28: Decompressed data size
	// Offset 0x2C: Number of compressed blocks
	header := &ReplayHeader{Magic: magic}
	for _, field := range []*uint32{
		&header.FirstBlock,
		&header.CompressedSize,
		&header.HeaderVersion,
		&header.DecompressedSize,
		&header.NumBlocks,
	} {
		if *field, err = c.Uint32(); err != nil {
			return nil, err
		}
	}

	var subHeaderSize int
	switch header.HeaderVersion {
	case 0:
		subHeaderSize = SubHeaderV0Size
		err = parseSubHeaderV0(c, header)
	case 1:
		subHeaderSize = SubHeaderV1Size
		err = parseSubHeaderV1(c, header)
	default:
		return nil, newMalformedHeaderError(
			fmt.Sprintf("unknown header version: %d", header.HeaderVersion), 0x24,
		)
	}
	if err != nil {
		return nil, err
	}

	if end := BaseHeaderSize + subHeaderSize; int(header.FirstBlock) != end {
		return nil, newMalformedHeaderError(
			fmt.Sprintf("first data block at 0x%X, header ends at 0x%X", header.FirstBlock, end), 0x1C,
		)
	}
	return header, nil
}

// Version 0 (Classic, patches <= 1.06)
// Offset 0x00: unknown (1 word, always 0)
// Offset 0x02: version number (1 word)
// Offset 0x04: build number (1 word)
// Offset 0x06: flags (1 word)
// Offset 0x08: duration (1 dword)
// Offset 0x0C: CRC32 (1 dword)
func parseSubHeaderV0(c *Cursor, header *ReplayHeader) error {
	if err := c.Skip(2); err != nil {
		return err
	}
	version, err := c.Uint16()
	if err != nil {
		return err
	}
	header.Version = uint32(version)
	header.GameIdentifier = GameIDClassic
	return parseSubHeaderTail(c, header)
}

// Version 1 (Expansion, patches >= 1.07)
// Offset 0x00: game identifier (1 dword): 'WAR3' or 'W3XP', reversed
// Offset 0x04: version number (1 dword)
// Offset 0x08: build number (1 word)
// Offset 0x0A: flags (1 word)
// Offset 0x0C: duration (1 dword)
// Offset 0x10: CRC32 (1 dword)
func parseSubHeaderV1(c *Cursor, header *ReplayHeader) error {
	id, err := c.ReadBytes(4)
	if err != nil {
		return err
	}
	header.GameIdentifier = reverseASCII(id)
	if header.Version, err = c.Uint32(); err != nil {
		return err
	}
	return parseSubHeaderTail(c, header)
}

func parseSubHeaderTail(c *Cursor, header *ReplayHeader) (err error) {
	if header.BuildNumber, err = c.Uint16(); err != nil {
		return err
	}
	if header.Flags, err = c.Uint16(); err != nil {
		return err
	}
	if header.DurationMs, err = c.Uint32(); err != nil {
		return err
	}
	header.CRC32, err = c.Uint32()
	return err
}

// parseHeaderFromBytes parses header from bytes.
func parseHeaderFromBytes(data []byte) (*ReplayHeader, error) {
	return parseHeader(NewCursor(data))
}

// reverseASCII reverses b and drops zero bytes. WC3 stores four character
// codes backwards.
func reverseASCII(b []byte) string {
	out := make([]byte, 0, len(b))
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] != 0 {
			out = append(out, b[i])
		}
	}
	return string(out)
}
