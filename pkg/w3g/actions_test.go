package w3g

import (
	"errors"
	"testing"

	"github.com/condor/w3g-dota/internal/w3gtest"
)

func TestParseActionFixedSizes(t *testing.T) {
	tests := []struct {
		kind    uint8
		version uint32
		payload int
	}{
		{ActionSaveFinished, 26, 4},
		{ActionAbilityNoParams, 26, 14},
		{ActionAbilityNoParams, 12, 13},
		{ActionAbilityTargetPos, 26, 22},
		{ActionAbilityPosObject, 26, 30},
		{ActionAbilityDropItem, 26, 38},
		{ActionAbilityTwoPos, 26, 43},
		{ActionAbilityTwoPos, 10, 42},
		{ActionSelectGroup, 26, 2},
		{ActionSelectSubgroup, 26, 12},
		{ActionSelectSubgroup, 13, 1},
		{ActionPreSubselection, 26, 0},
		{ActionSyncSelection, 26, 9},
		{ActionSelectGroundItem, 26, 9},
		{ActionCancelHeroRevival, 26, 8},
		{ActionRemoveFromQueue, 26, 5},
		{ActionUnknown21, 26, 8},
		{ActionCheatGold, 26, 5},
		{ActionCheatTimeOfDay, 26, 4},
		{ActionCheatRevealMap, 26, 0},
		{ActionAllyOptions, 26, 5},
		{ActionTransferResources, 26, 9},
		{ActionEscPressed, 26, 0},
		{ActionScenarioTrigger, 26, 12},
		{ActionHeroSkillMenu, 26, 0},
		{ActionContinueGameA, 26, 16},
		{ActionUnknown75, 26, 1},
	}
	for _, tt := range tests {
		t.Run(ActionName(tt.kind), func(t *testing.T) {
			data := make([]byte, 1+tt.payload+1)
			data[0] = tt.kind
			c := NewCursor(data)

			action, err := parseAction(c, tt.version)
			if err != nil {
				t.Fatal(err)
			}
			if c.Pos() != 1+tt.payload {
				t.Errorf("consumed %d bytes, want %d", c.Pos(), 1+tt.payload)
			}
			skipped, ok := action.(*SkippedAction)
			if !ok || skipped.Kind() != tt.kind || len(skipped.Payload) != tt.payload {
				t.Errorf("unexpected action %#v", action)
			}
		})
	}
}

func TestParseActionDecoded(t *testing.T) {
	var b w3gtest.Buffer
	b.U8(ActionPause)
	b.U8(ActionSetSpeed).U8(2)
	b.U8(ActionSaveGame).Str("save1")
	b.U8(ActionChangeSelection).U8(1).U16(2).U32(10).U32(11).U32(20).U32(21)
	b.U8(ActionTriggerCommand).U32(0).U32(0).Str("-apem")
	b.U8(ActionMinimapSignal).F32(1.5).F32(-2).U32(0)
	b.U8(ActionSyncStoreBoolean).Str("dr.x").Str("Global").Str("Winner").U32(1)

	c := NewCursor(b.Bytes())
	var actions []ActionEvent
	for c.Remaining() > 0 {
		a, err := parseAction(c, 26)
		if err != nil {
			t.Fatal(err)
		}
		actions = append(actions, a)
	}
	if len(actions) != 7 {
		t.Fatalf("got %d actions", len(actions))
	}

	if a, ok := actions[0].(*ControlAction); !ok || a.Kind() != ActionPause {
		t.Errorf("pause: %#v", actions[0])
	}
	if a, ok := actions[1].(*SetSpeedAction); !ok || a.Speed != 2 {
		t.Errorf("speed: %#v", actions[1])
	}
	if a, ok := actions[2].(*SaveGameAction); !ok || a.Filename != "save1" {
		t.Errorf("save: %#v", actions[2])
	}
	sel, ok := actions[3].(*SelectionAction)
	if !ok || sel.Mode != 1 || len(sel.Units) != 2 || sel.Units[1] != (ObjectID{20, 21}) {
		t.Errorf("selection: %#v", actions[3])
	}
	if a, ok := actions[4].(*TriggerCommandAction); !ok || a.Command != "-apem" {
		t.Errorf("trigger: %#v", actions[4])
	}
	if a, ok := actions[5].(*MinimapSignalAction); !ok || a.X != 1.5 || a.Y != -2 {
		t.Errorf("minimap: %#v", actions[5])
	}
	if a, ok := actions[6].(*SyncStoreAction); !ok || a.C != "Winner" || a.Kind() != ActionSyncStoreBoolean {
		t.Errorf("sync store: %#v", actions[6])
	}
}

func TestParseActionUnrecognized(t *testing.T) {
	data := []byte{ActionPause, 0x99, 1, 2, 3, 4, 5, 6}
	c := NewCursor(data)
	if _, err := parseAction(c, 26); err != nil {
		t.Fatal(err)
	}
	_, err := parseAction(c, 26)
	var unrec *UnrecognizedActionError
	if !errors.As(err, &unrec) {
		t.Fatalf("expected UnrecognizedActionError, got %v", err)
	}
	if unrec.Kind != 0x99 || unrec.Offset != 1 {
		t.Errorf("unexpected error fields: %+v", unrec)
	}
	if ActionName(0x99) != "unknown_99" {
		t.Errorf("name %q", ActionName(0x99))
	}
}

func TestParseCommandBlocks(t *testing.T) {
	var b w3gtest.Buffer
	b.U8(1).U16(3).U8(ActionPause).U8(ActionSetSpeed).U8(1)
	b.U8(2).U16(0)
	b.U8(3).U16(1).U8(ActionResume)

	blocks, err := parseCommandBlocks(NewCursor(b.Bytes()), 26)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	if blocks[0].PlayerID != 1 || len(blocks[0].Actions) != 2 || blocks[0].Length != 3 {
		t.Errorf("block 0: %+v", blocks[0])
	}
	if len(blocks[1].Actions) != 0 || len(blocks[2].Actions) != 1 {
		t.Errorf("blocks 1/2: %+v %+v", blocks[1], blocks[2])
	}
}

func TestParseCommandBlockLengthMismatch(t *testing.T) {
	var b w3gtest.Buffer
	// The set speed action runs one byte past the declared length.
	b.U8(4).U16(2).U8(ActionPause).U8(ActionSetSpeed).U8(1)

	_, err := parseCommandBlocks(NewCursor(b.Bytes()), 26)
	var lenErr *CommandBlockLengthError
	if !errors.As(err, &lenErr) {
		t.Fatalf("expected CommandBlockLengthError, got %v", err)
	}
	if lenErr.PlayerID != 4 || lenErr.Declared != 2 || lenErr.Consumed != 3 || lenErr.Offset != 0 {
		t.Errorf("unexpected error fields: %+v", lenErr)
	}
}

func TestParseCommandBlockUnknownAction(t *testing.T) {
	var b w3gtest.Buffer
	b.U8(1).U16(8).U8(ActionPause).U8(0x99).Raw(0, 0, 0, 0, 0, 0)

	_, err := parseCommandBlocks(NewCursor(b.Bytes()), 26)
	var unrec *UnrecognizedActionError
	if !errors.As(err, &unrec) || unrec.Offset != 4 {
		t.Fatalf("expected UnrecognizedActionError at 4, got %v", err)
	}
}
