package w3g

import "fmt"

// ActionEvent is one decoded player action. Kinds that carry nothing the
// decoder interprets are returned as *SkippedAction.
type ActionEvent interface {
	Kind() uint8
}

// SkippedAction is an action consumed as an opaque span.
type SkippedAction struct {
	ID      uint8
	Payload []byte
}

// ControlAction is pause, resume, increase or decrease speed.
type ControlAction struct {
	ID uint8
}

// SetSpeedAction changes the game speed.
type SetSpeedAction struct {
	Speed uint8
}

// SaveGameAction starts saving the game.
type SaveGameAction struct {
	Filename string
}

// ObjectID is the pair of dwords identifying a unit.
type ObjectID struct {
	A, B uint32
}

// SelectionAction is a selection change (0x16) or group assignment (0x17).
// Mode holds the select mode or the group number respectively.
type SelectionAction struct {
	ID    uint8
	Mode  uint8
	Units []ObjectID
}

// TriggerCommandAction is a chat string handed to map triggers.
type TriggerCommandAction struct {
	Command string
}

// MinimapSignalAction is a minimap ping.
type MinimapSignalAction struct {
	X, Y    float32
	Unknown uint32
}

// DotaInfoAction is the stored-integer sync action the DotA map uses to
// broadcast statistics.
type DotaInfoAction struct {
	A, B, C string
	Raw     [4]byte
	Update  StatUpdate
}

// SyncStoreAction is a stored real or boolean sync action.
type SyncStoreAction struct {
	ID      uint8
	A, B, C string
	Raw     [4]byte
}

func (a *SkippedAction) Kind() uint8      { return a.ID }
func (a *ControlAction) Kind() uint8      { return a.ID }
func (*SetSpeedAction) Kind() uint8       { return ActionSetSpeed }
func (*SaveGameAction) Kind() uint8       { return ActionSaveGame }
func (a *SelectionAction) Kind() uint8    { return a.ID }
func (*TriggerCommandAction) Kind() uint8 { return ActionTriggerCommand }
func (*MinimapSignalAction) Kind() uint8  { return ActionMinimapSignal }
func (*DotaInfoAction) Kind() uint8       { return ActionDotaInfo }
func (a *SyncStoreAction) Kind() uint8    { return a.ID }

type actionDecoder func(c *Cursor, kind uint8, version uint32) (ActionEvent, error)

type actionSpec struct {
	name   string
	decode actionDecoder
}

// actionTable maps action kinds to their decoders. Sizes exclude the kind
// byte and are those of version 1.14 and later.
var actionTable = [256]actionSpec{
	ActionPause:             {"pause", decodeControl},
	ActionResume:            {"resume", decodeControl},
	ActionSetSpeed:          {"set_speed", decodeSetSpeed},
	ActionIncSpeed:          {"increase_speed", decodeControl},
	ActionDecSpeed:          {"decrease_speed", decodeControl},
	ActionSaveGame:          {"save_game", decodeSaveGame},
	ActionSaveFinished:      {"save_finished", skip(4)},
	ActionAbilityNoParams:   {"ability", skipAbility(14)},
	ActionAbilityTargetPos:  {"ability_position", skipAbility(22)},
	ActionAbilityPosObject:  {"ability_object", skipAbility(30)},
	ActionAbilityDropItem:   {"drop_item", skipAbility(38)},
	ActionAbilityTwoPos:     {"ability_two_positions", skipAbility(43)},
	ActionChangeSelection:   {"select_units", decodeSelection},
	ActionAssignGroup:       {"assign_group", decodeSelection},
	ActionSelectGroup:       {"select_group", skip(2)},
	ActionSelectSubgroup:    {"select_subgroup", skipSubgroup},
	ActionPreSubselection:   {"pre_subselection", skip(0)},
	ActionSyncSelection:     {"sync_selection", skip(9)},
	ActionSelectGroundItem:  {"select_item", skip(9)},
	ActionCancelHeroRevival: {"cancel_revival", skip(8)},
	ActionRemoveFromQueue:   {"remove_from_queue", skip(5)},
	ActionCheatFastCooldown: {"cheat_fast_cooldown", skip(0)},
	ActionUnknown21:         {"unknown_21", skip(8)},
	ActionCheatInstantWin:   {"cheat_instant_win", skip(0)},
	ActionCheatFastBuild:    {"cheat_fast_build", skip(0)},
	ActionCheatFastTech:     {"cheat_fast_tech", skip(0)},
	ActionCheatNoTechReq:    {"cheat_no_tech_requirements", skip(0)},
	ActionCheatGodMode:      {"cheat_god_mode", skip(0)},
	ActionCheatGold:         {"cheat_gold", skip(5)},
	ActionCheatLumber:       {"cheat_lumber", skip(5)},
	ActionCheatNoMana:       {"cheat_no_mana", skip(0)},
	ActionCheatNoDefeat:     {"cheat_no_defeat", skip(0)},
	ActionCheatDisableWin:   {"cheat_disable_victory", skip(0)},
	ActionCheatDisableLose:  {"cheat_disable_defeat", skip(0)},
	ActionCheatUpgrades:     {"cheat_gold_and_lumber", skip(5)},
	ActionCheatTimeOfDay:    {"cheat_time_of_day", skip(4)},
	ActionCheatRevealMap:    {"cheat_reveal_map", skip(0)},
	ActionCheatFreeUpgrades: {"cheat_free_upgrades", skip(0)},
	ActionCheatTechTree:     {"cheat_tech_tree", skip(0)},
	ActionCheatWinGame:      {"cheat_win_game", skip(0)},
	ActionAllyOptions:       {"ally_options", skip(5)},
	ActionTransferResources: {"transfer_resources", skip(9)},
	ActionTriggerCommand:    {"trigger_command", decodeTriggerCommand},
	ActionEscPressed:        {"escape", skip(0)},
	ActionScenarioTrigger:   {"scenario_trigger", skip(12)},
	ActionHeroSkillMenu:     {"hero_skill_menu", skip(0)},
	ActionBuildingMenu:      {"building_menu", skip(0)},
	ActionMinimapSignal:     {"minimap_ping", decodeMinimapSignal},
	ActionContinueGameB:     {"continue_game_b", skip(16)},
	ActionContinueGameA:     {"continue_game_a", skip(16)},
	ActionDotaInfo:          {"dota_info", decodeDotaInfo},
	ActionSyncStoreReal:     {"sync_store_real", decodeSyncStore},
	ActionSyncStoreBoolean:  {"sync_store_boolean", decodeSyncStore},
	ActionUnknown75:         {"unknown_75", skip(1)},
}

// ActionName returns the name of an action kind.
func ActionName(kind uint8) string {
	if name := actionTable[kind].name; name != "" {
		return name
	}
	return fmt.Sprintf("unknown_%02x", kind)
}

// parseAction decodes the action at the cursor.
func parseAction(c *Cursor, version uint32) (ActionEvent, error) {
	offset := c.Pos()
	kind, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	spec := actionTable[kind]
	if spec.decode == nil {
		return nil, newUnrecognizedActionError(kind, offset)
	}
	return spec.decode(c, kind, version)
}

// parseCommandBlocks parses the CommandData of a time slot.
//
// CommandData structure:
//   - 1 byte: Player ID
//   - 1 word: Action block length
//   - n bytes: Action blocks
func parseCommandBlocks(c *Cursor, version uint32) ([]*CommandBlock, error) {
	var blocks []*CommandBlock
	for c.Remaining() > 0 {
		blockStart := c.Pos()
		playerID, err := c.Uint8()
		if err != nil {
			return nil, err
		}
		length, err := c.Uint16()
		if err != nil {
			return nil, err
		}

		block := &CommandBlock{PlayerID: playerID, Length: length}
		start := c.Pos()
		end := start + int(length)
		for c.Pos() < end {
			action, err := parseAction(c, version)
			if err != nil {
				return nil, err
			}
			block.Actions = append(block.Actions, action)
		}
		if c.Pos() != end {
			return nil, newCommandBlockLengthError(playerID, int(length), c.Pos()-start, blockStart)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func skip(n int) actionDecoder {
	return func(c *Cursor, kind uint8, _ uint32) (ActionEvent, error) {
		payload, err := c.ReadBytes(n)
		if err != nil {
			return nil, err
		}
		return &SkippedAction{ID: kind, Payload: payload}, nil
	}
}

// skipAbility skips an ability action; AbilityFlags is a byte instead of a
// word before 1.13.
func skipAbility(n int) actionDecoder {
	return func(c *Cursor, kind uint8, version uint32) (ActionEvent, error) {
		size := n
		if version < VersionTwoByteAbilityFlags {
			size--
		}
		return skip(size)(c, kind, version)
	}
}

// skipSubgroup skips a subgroup selection: ItemID + 2x ObjectID from 1.14,
// just the subgroup number before.
func skipSubgroup(c *Cursor, kind uint8, version uint32) (ActionEvent, error) {
	if version >= VersionLongSubgroup {
		return skip(12)(c, kind, version)
	}
	return skip(1)(c, kind, version)
}

func decodeControl(_ *Cursor, kind uint8, _ uint32) (ActionEvent, error) {
	return &ControlAction{ID: kind}, nil
}

func decodeSetSpeed(c *Cursor, _ uint8, _ uint32) (ActionEvent, error) {
	speed, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	return &SetSpeedAction{Speed: speed}, nil
}

func decodeSaveGame(c *Cursor, _ uint8, _ uint32) (ActionEvent, error) {
	name, err := c.CString()
	if err != nil {
		return nil, err
	}
	return &SaveGameAction{Filename: name}, nil
}

// decodeSelection decodes a selection change or group assignment:
//   - 1 byte: select mode (1=add, 2=remove) or group number
//   - 1 word: unit count
//   - n * 8 bytes: object IDs (2 dwords per unit)
func decodeSelection(c *Cursor, kind uint8, _ uint32) (ActionEvent, error) {
	mode, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	count, err := c.Uint16()
	if err != nil {
		return nil, err
	}
	if err := c.need(int(count) * 8); err != nil {
		return nil, err
	}
	units := make([]ObjectID, count)
	for i := range units {
		units[i].A, _ = c.Uint32()
		units[i].B, _ = c.Uint32()
	}
	return &SelectionAction{ID: kind, Mode: mode, Units: units}, nil
}

// decodeTriggerCommand skips 8 bytes of unknowns, then reads the string.
func decodeTriggerCommand(c *Cursor, _ uint8, _ uint32) (ActionEvent, error) {
	if err := c.Skip(8); err != nil {
		return nil, err
	}
	cmd, err := c.CString()
	if err != nil {
		return nil, err
	}
	return &TriggerCommandAction{Command: cmd}, nil
}

func decodeMinimapSignal(c *Cursor, _ uint8, _ uint32) (ActionEvent, error) {
	var (
		a   MinimapSignalAction
		err error
	)
	if a.X, err = c.Float32(); err != nil {
		return nil, err
	}
	if a.Y, err = c.Float32(); err != nil {
		return nil, err
	}
	if a.Unknown, err = c.Uint32(); err != nil {
		return nil, err
	}
	return &a, nil
}

// readSyncStore reads the three strings and the trailing 4 byte field
// shared by the sync store actions.
func readSyncStore(c *Cursor) (a, b, d string, raw [4]byte, err error) {
	if a, err = c.CString(); err != nil {
		return
	}
	if b, err = c.CString(); err != nil {
		return
	}
	if d, err = c.CString(); err != nil {
		return
	}
	var tail []byte
	if tail, err = c.ReadBytes(4); err != nil {
		return
	}
	copy(raw[:], tail)
	return
}

func decodeDotaInfo(c *Cursor, _ uint8, _ uint32) (ActionEvent, error) {
	a, b, d, raw, err := readSyncStore(c)
	if err != nil {
		return nil, err
	}
	return &DotaInfoAction{A: a, B: b, C: d, Raw: raw, Update: DecodeDotaInfo(a, b, d, raw)}, nil
}

func decodeSyncStore(c *Cursor, kind uint8, _ uint32) (ActionEvent, error) {
	a, b, d, raw, err := readSyncStore(c)
	if err != nil {
		return nil, err
	}
	return &SyncStoreAction{ID: kind, A: a, B: b, C: d, Raw: raw}, nil
}
