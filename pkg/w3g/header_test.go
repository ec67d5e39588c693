package w3g

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/condor/w3g-dota/internal/w3gtest"
)

func TestParseHeaderV1(t *testing.T) {
	file := w3gtest.File(w3gtest.Split([]byte("data"), 64), 26, 754000)

	header, err := parseHeaderFromBytes(file)
	if err != nil {
		t.Fatal(err)
	}
	if header.FirstBlock != HeaderV1Total || header.NumBlocks != 1 || header.HeaderVersion != 1 {
		t.Errorf("unexpected header: %+v", header)
	}
	if header.GameIdentifier != GameIDTFT || !header.IsExpansion() {
		t.Errorf("game identifier %q", header.GameIdentifier)
	}
	if header.Version != 26 || header.VersionString() != "1.26" || header.BuildNumber != 6059 {
		t.Errorf("version %d %q build %d", header.Version, header.VersionString(), header.BuildNumber)
	}
	if header.IsReforged() {
		t.Error("1.26 reported as reforged")
	}
	if !header.IsMultiplayer() || FormatDuration(header.DurationMs) != "12:34" {
		t.Errorf("flags 0x%X duration %d", header.Flags, header.DurationMs)
	}
	if int(header.CompressedSize) != len(file) || header.DecompressedSize != 4 {
		t.Errorf("sizes %d %d", header.CompressedSize, header.DecompressedSize)
	}
}

func TestParseHeaderV0(t *testing.T) {
	var b w3gtest.Buffer
	b.WriteString(w3gtest.MagicString)
	b.U32(HeaderV0Total).U32(HeaderV0Total).U32(0).U32(0).U32(0)
	b.U16(0).U16(6).U16(4448).U16(0).U32(3723000).U32(0)

	header, err := parseHeaderFromBytes(b.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if header.GameIdentifier != GameIDClassic || header.Version != 6 || header.IsMultiplayer() {
		t.Errorf("unexpected header: %+v", header)
	}
	if FormatDuration(header.DurationMs) != "1:02:03" {
		t.Errorf("duration %s", FormatDuration(header.DurationMs))
	}
}

func TestParseHeaderMalformed(t *testing.T) {
	valid := w3gtest.File(w3gtest.Split([]byte("data"), 64), 26, 0)

	badMagic := append([]byte(nil), valid...)
	badMagic[0] = 'w'

	badVersion := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badVersion[0x24:], 7)

	badOffset := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badOffset[0x1C:], 0x50)

	// A v0 sub-header ends SubHeaderV1Size-SubHeaderV0Size bytes before
	// the first block the v1 file points at.
	shortSubHeader := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(shortSubHeader[0x24:], 0)

	tests := []struct {
		name string
		data []byte
	}{
		{"magic", badMagic},
		{"version", badVersion},
		{"first block", badOffset},
		{"sub-header size", shortSubHeader},
		{"short", valid[:10]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseHeaderFromBytes(tt.data)
			var malformed *MalformedHeaderError
			if !errors.As(err, &malformed) {
				t.Errorf("expected MalformedHeaderError, got %v", err)
			}
		})
	}
}
