package w3g

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Race represents a player's race.
type Race uint8

const (
	RaceHuman      Race = 0x01
	RaceOrc        Race = 0x02
	RaceNightElf   Race = 0x04
	RaceUndead     Race = 0x08
	RaceRandom     Race = 0x20
	RaceSelectable Race = 0x40
	RaceUnknown    Race = 0xFF
)

func (r Race) String() string {
	switch r {
	case RaceHuman:
		return "Human"
	case RaceOrc:
		return "Orc"
	case RaceNightElf:
		return "NightElf"
	case RaceUndead:
		return "Undead"
	case RaceRandom:
		return "Random"
	case RaceSelectable:
		return "Selectable"
	default:
		return "Unknown"
	}
}

// MarshalJSON implements json.Marshaler for Race.
func (r Race) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// RaceFromFlags converts race flags byte to Race.
func RaceFromFlags(flags uint8) Race {
	switch {
	case flags&0x01 != 0:
		return RaceHuman
	case flags&0x02 != 0:
		return RaceOrc
	case flags&0x04 != 0:
		return RaceNightElf
	case flags&0x08 != 0:
		return RaceUndead
	case flags&0x20 != 0:
		return RaceRandom
	case flags&0x40 != 0:
		return RaceSelectable
	default:
		return RaceUnknown
	}
}

// SlotStatus represents slot status in game lobby.
type SlotStatus uint8

const (
	SlotEmpty  SlotStatus = 0x00
	SlotClosed SlotStatus = 0x01
	SlotUsed   SlotStatus = 0x02
)

func (s SlotStatus) String() string {
	switch s {
	case SlotEmpty:
		return "Empty"
	case SlotClosed:
		return "Closed"
	case SlotUsed:
		return "Used"
	default:
		return "Unknown"
	}
}

// LeaveResult represents the result when player leaves. It keeps the full
// 4 byte field so out-of-range values stay unknown.
type LeaveResult uint32

const (
	LeaveResultLeft         LeaveResult = 0x01
	LeaveResultLeftAlt      LeaveResult = 0x07
	LeaveResultLost         LeaveResult = 0x08
	LeaveResultWon          LeaveResult = 0x09
	LeaveResultDraw         LeaveResult = 0x0A
	LeaveResultObserverLeft LeaveResult = 0x0B
)

func (r LeaveResult) String() string {
	switch r {
	case LeaveResultLeft, LeaveResultLeftAlt:
		return "Left"
	case LeaveResultLost:
		return "Lost"
	case LeaveResultWon:
		return "Won"
	case LeaveResultDraw:
		return "Draw"
	case LeaveResultObserverLeft:
		return "ObserverLeft"
	default:
		return "Unknown"
	}
}

// MarshalJSON implements json.Marshaler for LeaveResult.
func (r LeaveResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// ReplayHeader contains W3G file header information.
type ReplayHeader struct {
	Magic            []byte `json:"-"`
	FirstBlock       uint32 `json:"first_block"`
	CompressedSize   uint32 `json:"compressed_size"`
	HeaderVersion    uint32 `json:"header_version"`
	DecompressedSize uint32 `json:"decompressed_size"`
	NumBlocks        uint32 `json:"num_blocks"`

	// SubHeader fields
	GameIdentifier string `json:"game_identifier"`
	Version        uint32 `json:"version"`
	BuildNumber    uint16 `json:"build_number"`
	Flags          uint16 `json:"flags"`
	DurationMs     uint32 `json:"duration_ms"`
	CRC32          uint32 `json:"crc32"`
}

// Duration returns replay duration as time.Duration.
func (h *ReplayHeader) Duration() time.Duration {
	return time.Duration(h.DurationMs) * time.Millisecond
}

// IsMultiplayer returns true if replay is from multiplayer game.
func (h *ReplayHeader) IsMultiplayer() bool {
	return h.Flags&FlagMultiplayer != 0
}

// IsReforged reports whether the replay was recorded by 1.29 or later,
// whose lobby carries extra player metadata this decoder does not read.
func (h *ReplayHeader) IsReforged() bool {
	return h.Version >= ReforgedVersionThreshold
}

// IsExpansion returns true if this is a Frozen Throne replay.
func (h *ReplayHeader) IsExpansion() bool {
	return h.GameIdentifier == GameIDTFT
}

// VersionString returns human-readable version string.
func (h *ReplayHeader) VersionString() string {
	if h.Version >= 10000 {
		major := h.Version / 10000
		minor := (h.Version % 10000) / 100
		patch := h.Version % 100
		if patch > 0 {
			return fmt.Sprintf("%d.%d.%d", major, minor, patch)
		}
		return fmt.Sprintf("%d.%d", major, minor)
	}
	return fmt.Sprintf("1.%02d", h.Version)
}

// PlayerRecord is a host or joined-player record from the static section.
type PlayerRecord struct {
	RecordID  uint8  `json:"record_id"`
	ID        uint8  `json:"id"`
	Name      string `json:"name"`
	GameType  uint8  `json:"game_type"`
	Trailer   []byte `json:"-"`
	RuntimeMs uint32 `json:"runtime_ms,omitempty"`
	Race      Race   `json:"race,omitempty"`
}

// IsHost reports whether the record is the replay saver's host record.
func (p *PlayerRecord) IsHost() bool {
	return p.RecordID == RecordHost
}

// SlotRecord represents a slot in the game lobby.
type SlotRecord struct {
	PlayerID        uint8      `json:"player_id"`
	DownloadPercent uint8      `json:"download_percent"`
	Status          SlotStatus `json:"status"`
	IsComputer      bool       `json:"is_computer"`
	Team            uint8      `json:"team"`
	Color           uint8      `json:"color"`
	RaceFlags       uint8      `json:"race_flags"`
	AIStrength      uint8      `json:"ai_strength"`
	Handicap        uint8      `json:"handicap"`
}

// IsObserver reports whether the slot sits on an observer team.
func (s *SlotRecord) IsObserver() bool {
	return s.Team == ObserverTeamClassic || s.Team == ObserverTeamReforged
}

// StaticGameInfo is the lobby information preceding the action log.
type StaticGameInfo struct {
	Players     []*PlayerRecord `json:"players"`
	Slots       []*SlotRecord   `json:"slots"`
	GameName    string          `json:"game_name"`
	Settings    []byte          `json:"-"`
	PlayerCount uint32          `json:"player_count"`
	GameType    uint8           `json:"game_type"`
	Private     bool            `json:"private"`
	Language    uint32          `json:"language"`
	RandomSeed  uint32          `json:"random_seed"`
	SelectMode  uint8           `json:"select_mode"`
	StartSpots  uint8           `json:"start_spots"`
}

// Host returns the host record.
func (s *StaticGameInfo) Host() *PlayerRecord {
	if len(s.Players) == 0 {
		return nil
	}
	return s.Players[0]
}

// Player returns the player record with the given id.
func (s *StaticGameInfo) Player(id uint8) *PlayerRecord {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByName returns player by name (case-insensitive).
func (s *StaticGameInfo) PlayerByName(name string) *PlayerRecord {
	for _, p := range s.Players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// SlotForPlayer returns the occupied slot of a player record id.
func (s *StaticGameInfo) SlotForPlayer(id uint8) *SlotRecord {
	for _, slot := range s.Slots {
		if slot.Status == SlotUsed && !slot.IsComputer && slot.PlayerID == id {
			return slot
		}
	}
	return nil
}

// GameSettings contains the game configuration carried in the encoded
// settings string.
type GameSettings struct {
	Speed             uint8  `json:"speed"`
	Visibility        uint8  `json:"visibility"`
	Observers         uint8  `json:"observers"`
	TeamsTogether     bool   `json:"teams_together"`
	LockTeams         bool   `json:"lock_teams"`
	FullSharedControl bool   `json:"full_shared_control"`
	RandomHero        bool   `json:"random_hero"`
	RandomRaces       bool   `json:"random_races"`
	Referees          bool   `json:"referees"`
	MapChecksum       []byte `json:"-"`
	MapPath           string `json:"map_path"`
	MapName           string `json:"map_name"`
}

// SpeedName returns human-readable speed name.
func (s *GameSettings) SpeedName() string {
	names := []string{"Slow", "Normal", "Fast"}
	if int(s.Speed) < len(names) {
		return names[s.Speed]
	}
	return "Unknown"
}

// Replay is a decoded replay: header, lobby and the action log.
type Replay struct {
	Header *ReplayHeader   `json:"header"`
	Static *StaticGameInfo `json:"static"`
	Events []GameDataEvent `json:"-"`
}

// TimeSlots returns the time slot events in stream order.
func (r *Replay) TimeSlots() []*TimeSlot {
	var out []*TimeSlot
	for _, ev := range r.Events {
		if ts, ok := ev.(*TimeSlot); ok {
			out = append(out, ts)
		}
	}
	return out
}

// ChatMessages returns the chat messages in stream order.
func (r *Replay) ChatMessages() []*ChatMessage {
	var out []*ChatMessage
	for _, ev := range r.Events {
		if msg, ok := ev.(*ChatMessage); ok {
			out = append(out, msg)
		}
	}
	return out
}

// Winner returns the player whose leave record reports a win, if any.
func (r *Replay) Winner() *PlayerRecord {
	for _, ev := range r.Events {
		if lv, ok := ev.(*LeaveGame); ok && lv.Result == LeaveResultWon {
			return r.Static.Player(lv.PlayerID)
		}
	}
	return nil
}

// ToJSON exports the replay summary to JSON bytes.
func (r *Replay) ToJSON(indent bool) ([]byte, error) {
	data := map[string]interface{}{
		"header":         r.Header,
		"version_string": r.Header.VersionString(),
		"duration":       FormatDuration(r.Header.DurationMs),
		"static":         r.Static,
		"event_count":    len(r.Events),
	}
	if indent {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}
