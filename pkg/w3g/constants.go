package w3g

// MagicString is the magic bytes identifying W3G replay files (28 bytes)
var MagicString = []byte("Warcraft III recorded game\x1a\x00")

// Header sizes
const (
	MagicSize       = 0x1C // 28 bytes
	BaseHeaderSize  = 0x30 // 48 bytes for base header
	SubHeaderV0Size = 0x10 // 16 bytes
	SubHeaderV1Size = 0x14 // 20 bytes
	HeaderV0Total   = BaseHeaderSize + SubHeaderV0Size // 64 bytes
	HeaderV1Total   = BaseHeaderSize + SubHeaderV1Size // 68 bytes

	BlockHeaderSize = 8
)

// Game identifiers, stored reversed on disk ("PX3W")
const (
	GameIDClassic = "WAR3" // Reign of Chaos
	GameIDTFT     = "W3XP" // The Frozen Throne
)

// Flags
const (
	FlagSinglePlayer = 0x0000
	FlagMultiplayer  = 0x8000
)

// Observer team IDs
const (
	ObserverTeamClassic  = 12
	ObserverTeamReforged = 24
)

// Version thresholds
const (
	VersionTwoByteAbilityFlags = 13
	VersionLongSubgroup        = 14
	ReforgedVersionThreshold   = 29
)

// Bytes preceding the host record in the first decompressed block.
const staticPreambleSize = 4

// Block IDs
const (
	BlockLeaveGame   = 0x17
	BlockGameStart   = 0x19
	BlockFirstStart  = 0x1A
	BlockSecondStart = 0x1B
	BlockThirdStart  = 0x1C
	BlockTimeSlotOld = 0x1E
	BlockTimeSlot    = 0x1F
	BlockChat        = 0x20
	BlockChecksum    = 0x22
	BlockUnknown23   = 0x23
	BlockForcedEnd   = 0x2F
)

// Record IDs
const (
	RecordHost             = 0x00
	RecordAdditionalPlayer = 0x16
)

// Player record game types; anything but custom carries an 8 byte trailer.
const (
	GameTypeCustom = 0x01
	GameTypeLadder = 0x08
)

// Action IDs
const (
	ActionPause             = 0x01
	ActionResume            = 0x02
	ActionSetSpeed          = 0x03
	ActionIncSpeed          = 0x04
	ActionDecSpeed          = 0x05
	ActionSaveGame          = 0x06
	ActionSaveFinished      = 0x07
	ActionAbilityNoParams   = 0x10
	ActionAbilityTargetPos  = 0x11
	ActionAbilityPosObject  = 0x12
	ActionAbilityDropItem   = 0x13
	ActionAbilityTwoPos     = 0x14
	ActionChangeSelection   = 0x16
	ActionAssignGroup       = 0x17
	ActionSelectGroup       = 0x18
	ActionSelectSubgroup    = 0x19
	ActionPreSubselection   = 0x1A
	ActionSyncSelection     = 0x1B
	ActionSelectGroundItem  = 0x1C
	ActionCancelHeroRevival = 0x1D
	ActionRemoveFromQueue   = 0x1E
	ActionCheatFastCooldown = 0x20
	ActionUnknown21         = 0x21
	ActionCheatInstantWin   = 0x22
	ActionCheatFastBuild    = 0x23
	ActionCheatFastTech     = 0x24
	ActionCheatNoTechReq    = 0x25
	ActionCheatGodMode      = 0x26
	ActionCheatGold         = 0x27
	ActionCheatLumber       = 0x28
	ActionCheatNoMana       = 0x29
	ActionCheatNoDefeat     = 0x2A
	ActionCheatDisableWin   = 0x2B
	ActionCheatDisableLose  = 0x2C
	ActionCheatUpgrades     = 0x2D
	ActionCheatTimeOfDay    = 0x2E
	ActionCheatRevealMap    = 0x2F
	ActionCheatFreeUpgrades = 0x30
	ActionCheatTechTree     = 0x31
	ActionCheatWinGame      = 0x32
	ActionAllyOptions       = 0x50
	ActionTransferResources = 0x51
	ActionTriggerCommand    = 0x60
	ActionEscPressed        = 0x61
	ActionScenarioTrigger   = 0x62
	ActionHeroSkillMenu     = 0x66
	ActionBuildingMenu      = 0x67
	ActionMinimapSignal     = 0x68
	ActionContinueGameB     = 0x69
	ActionContinueGameA     = 0x6A
	ActionDotaInfo          = 0x6B
	ActionSyncStoreReal     = 0x6C
	ActionSyncStoreBoolean  = 0x6D
	ActionUnknown75         = 0x75
)

// Chat flags
const (
	ChatFlagStartup = 0x10
	ChatFlagNormal  = 0x20
)

// Chat modes
const (
	ChatModeAll       = 0x00
	ChatModeAllies    = 0x01
	ChatModeObservers = 0x02
)
