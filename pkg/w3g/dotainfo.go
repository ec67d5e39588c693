package w3g

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// Counter identifies a per-player statistic broadcast by the DotA map.
type Counter uint8

const (
	CounterKills             Counter = 1
	CounterDeaths            Counter = 2
	CounterCreepKills        Counter = 3
	CounterCreepDenies       Counter = 4
	CounterAssists           Counter = 5
	CounterGold              Counter = 6
	CounterCreepNeutralKills Counter = 7
	CounterInventory         Counter = 8
	CounterHeroID            Counter = 9
)

func (c Counter) String() string {
	switch c {
	case CounterKills:
		return "kills"
	case CounterDeaths:
		return "deaths"
	case CounterCreepKills:
		return "creep_kills"
	case CounterCreepDenies:
		return "creep_denies"
	case CounterAssists:
		return "assists"
	case CounterGold:
		return "gold"
	case CounterCreepNeutralKills:
		return "creep_neutral_kills"
	case CounterInventory:
		return "inventory"
	case CounterHeroID:
		return "hero_id"
	default:
		return "unknown"
	}
}

// FieldKind tells how the trailing field of a DotaInfo action was read.
type FieldKind uint8

const (
	FieldNone FieldKind = iota
	FieldASCII
	FieldInteger
)

// TrailingField is the 4 byte value that ends every DotaInfo action. The
// format does not say whether it holds a reversed text fragment or an
// integer; ResolveTrailingField decides from the third string.
type TrailingField struct {
	Kind FieldKind
	Text string
	Int  uint32
}

// ResolveTrailingField reads raw as reversed ASCII with zero bytes removed
// when c starts with '8' or '9' or with "PUI_" or "DRI_", and as a little
// endian uint32 otherwise. An empty fragment yields FieldNone.
func ResolveTrailingField(c string, raw [4]byte) TrailingField {
	if isASCIIField(c) {
		text := reverseASCII(raw[:])
		if text == "" {
			return TrailingField{Kind: FieldNone}
		}
		return TrailingField{Kind: FieldASCII, Text: text}
	}
	return TrailingField{Kind: FieldInteger, Int: binary.LittleEndian.Uint32(raw[:])}
}

func isASCIIField(c string) bool {
	if c == "" {
		return false
	}
	return c[0] == '8' || c[0] == '9' || strings.HasPrefix(c, "PUI_") || strings.HasPrefix(c, "DRI_")
}

// StatUpdate is the decoded meaning of a DotaInfo action. The concrete
// types are *CounterUpdate, *ModeAnnouncement, *HeroKill, *HeroAssist,
// *TowerDestroyed and *IgnoredUpdate.
type StatUpdate interface {
	statUpdate()
}

// CounterUpdate overwrites one counter of the player with the given slot
// color.
type CounterUpdate struct {
	Player  int
	Counter Counter
	Value   uint32
}

// ModeAnnouncement carries the game mode string, e.g. "apem".
type ModeAnnouncement struct {
	Mode  string
	Field TrailingField
}

// HeroKill reports Killer (slot color) killing the hero of Victim.
type HeroKill struct {
	Killer int
	Victim int
	Field  TrailingField
}

// HeroAssist reports Actor assisting in the kill of Victim.
type HeroAssist struct {
	Actor  int
	Victim int
	Field  TrailingField
}

// TowerDestroyed credits Owner with a tower. Code is the undecoded
// team/lane/number suffix.
type TowerDestroyed struct {
	Owner int
	Code  string
	Field TrailingField
}

// IgnoredUpdate is a well-formed action that carries nothing tracked.
type IgnoredUpdate struct {
	A, B, C string
	Field   TrailingField
}

func (*CounterUpdate) statUpdate()    {}
func (*ModeAnnouncement) statUpdate() {}
func (*HeroKill) statUpdate()         {}
func (*HeroAssist) statUpdate()       {}
func (*TowerDestroyed) statUpdate()   {}
func (*IgnoredUpdate) statUpdate()    {}

const dataMissionKey = "Data"

// DecodeDotaInfo classifies the strings and trailing field of a DotaInfo
// action.
func DecodeDotaInfo(a, b, c string, raw [4]byte) StatUpdate {
	if isDigits(a) {
		return decodeCounter(a, b, c, raw)
	}
	if a != dataMissionKey {
		return &IgnoredUpdate{A: a, B: b, C: c, Field: ResolveTrailingField(c, raw)}
	}

	field := ResolveTrailingField(c, raw)
	ignored := &IgnoredUpdate{A: a, B: b, C: c, Field: field}
	switch {
	case strings.HasPrefix(b, "Mode"):
		return &ModeAnnouncement{Mode: b[len("Mode"):], Field: field}
	case strings.HasPrefix(b, "Hero"):
		victim, ok1 := atoi(b[len("Hero"):])
		killer, ok2 := atoi(c)
		if !ok1 || !ok2 {
			return ignored
		}
		return &HeroKill{Killer: killer, Victim: victim, Field: field}
	case strings.HasPrefix(b, "Assist"):
		actor, ok1 := atoi(b[len("Assist"):])
		victim, ok2 := atoi(c)
		if !ok1 || !ok2 {
			return ignored
		}
		return &HeroAssist{Actor: actor, Victim: victim, Field: field}
	case strings.HasPrefix(b, "Tower"):
		owner, ok := atoi(c)
		if !ok {
			return ignored
		}
		return &TowerDestroyed{Owner: owner, Code: b[len("Tower"):], Field: field}
	default:
		// Level, PUI_ and DRI_ keys land here as well.
		return ignored
	}
}

func decodeCounter(a, b, c string, raw [4]byte) StatUpdate {
	value := binary.LittleEndian.Uint32(raw[:])
	code, ok := atoi(b)
	if !ok || code < int(CounterKills) || code > int(CounterHeroID) {
		// "id" marks the player id broadcast and is a no-op.
		return &IgnoredUpdate{A: a, B: b, C: c, Field: TrailingField{Kind: FieldInteger, Int: value}}
	}
	player, _ := atoi(a)
	return &CounterUpdate{Player: player, Counter: Counter(code), Value: value}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) (int, bool) {
	if !isDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// FourCC renders a numeric object id as its four character code, e.g.
// 0x4830304A as "H00J".
func FourCC(id uint32) string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], id)
	return reverseASCII(b[:])
}
