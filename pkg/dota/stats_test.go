package dota

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/condor/w3g-dota/internal/w3gtest"
	"github.com/condor/w3g-dota/pkg/w3g"
)

func testStatic() *w3g.StaticGameInfo {
	return &w3g.StaticGameInfo{
		GameName: "dota",
		Players: []*w3g.PlayerRecord{
			{RecordID: w3g.RecordHost, ID: 1, Name: "Host"},
			{RecordID: w3g.RecordAdditionalPlayer, ID: 2, Name: "Guest"},
			{RecordID: w3g.RecordAdditionalPlayer, ID: 4, Name: "Watcher"},
		},
		Slots: []*w3g.SlotRecord{
			{PlayerID: 1, Status: w3g.SlotUsed, Team: 0, Color: 1},
			{PlayerID: 2, Status: w3g.SlotUsed, Team: 1, Color: 7},
			{PlayerID: 0, Status: w3g.SlotUsed, IsComputer: true, Team: 1, Color: 3},
			{PlayerID: 4, Status: w3g.SlotUsed, Team: w3g.ObserverTeamClassic, Color: 12},
			{Status: w3g.SlotEmpty, Color: 8},
		},
	}
}

func info(a, b, c string, value uint32) w3g.ActionEvent {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], value)
	return &w3g.DotaInfoAction{A: a, B: b, C: c, Raw: raw, Update: w3g.DecodeDotaInfo(a, b, c, raw)}
}

func slot(timeMs uint32, playerID uint8, actions ...w3g.ActionEvent) *w3g.TimeSlot {
	return &w3g.TimeSlot{
		TimeMs: timeMs,
		Blocks: []*w3g.CommandBlock{{PlayerID: playerID, Actions: actions}},
	}
}

func TestNewAggregatorPlayers(t *testing.T) {
	m := NewAggregator(testStatic(), nil).Result()

	if got := m.Colors(); !reflect.DeepEqual(got, []int{1, 3, 7}) {
		t.Fatalf("colors %v", got)
	}
	if m.Players[1].Name != "Host" || m.Players[7].Name != "Guest" || m.Players[3].Name != "Computer 3" {
		t.Errorf("names %v", m.Ordered())
	}
	if !m.Players[3].IsComputer || m.Players[7].Team != 1 {
		t.Errorf("slot data %+v %+v", m.Players[3], m.Players[7])
	}
	if m.FindPlayer("watcher") != nil {
		t.Error("observer became a match player")
	}
	for _, p := range m.Players {
		if p.Towers != 0 || p.Kills != 0 || p.Hero.Name != UnknownUnit.Name {
			t.Errorf("player %s starts with %+v", p, p)
		}
	}
}

func TestAggregateCounters(t *testing.T) {
	units := NewUnitTable(Unit{ID: "H00J", Name: "Sven", Icon: "sven.png"})
	events := []w3g.GameDataEvent{
		slot(1000, 1,
			info("1", "1", "1", 3),
			info("7", "6", "6", 250),
			info("1", "9", "9", 0x4830304A),
		),
		slot(2000, 1,
			info("1", "1", "1", 5),
			info("1", "2", "2", 1),
			info("1", "id", "1", 1),
			info("9", "1", "9", 4),
		),
	}

	m := Aggregate(testStatic(), events, units)
	host := m.Players[1]
	if host.Kills != 5 || host.Deaths != 1 {
		t.Errorf("host counters %+v", host)
	}
	if host.HeroID != 0x4830304A || host.Hero.Name != "Sven" {
		t.Errorf("host hero %+v", host.Hero)
	}
	guest := m.Players[7]
	if guest.Gold != 250 || guest.Hero != UnknownUnit {
		t.Errorf("guest %+v", guest)
	}

	again := Aggregate(testStatic(), events, units)
	if !reflect.DeepEqual(m, again) {
		t.Error("aggregating the same events twice differs")
	}
}

func TestAggregateEvents(t *testing.T) {
	events := []w3g.GameDataEvent{
		slot(500, 1, info("Data", "Modeapem", "1", 0)),
		&w3g.ChatMessage{TimeMs: 500, PlayerID: 2, Mode: w3g.ChatModeAllies, Text: "mid"},
		slot(60000, 2,
			info("Data", "Hero1", "7", 0),
			info("Data", "Assist3", "1", 0),
		),
		slot(90000, 2, info("Data", "Tower021", "7", 0)),
		slot(95000, 2, info("Data", "Tower010", "7", 0)),
		&w3g.LeaveGame{TimeMs: 95000, PlayerID: 1, Result: w3g.LeaveResultLost},
	}

	m := Aggregate(testStatic(), events, nil)
	if m.Mode != "apem" {
		t.Errorf("mode %q", m.Mode)
	}

	guest, host, computer := m.Players[7], m.Players[1], m.Players[3]
	if !reflect.DeepEqual(guest.KillLog, []LogEntry{{TimeMs: 60000, Color: 1}}) {
		t.Errorf("kill log %+v", guest.KillLog)
	}
	if !reflect.DeepEqual(host.DeathLog, []LogEntry{{TimeMs: 60000, Color: 7}}) {
		t.Errorf("death log %+v", host.DeathLog)
	}
	if !reflect.DeepEqual(computer.AssistLog, []LogEntry{{TimeMs: 60000, Color: 1}}) {
		t.Errorf("assist log %+v", computer.AssistLog)
	}
	if guest.Towers != 2 || guest.TowerLog[0] != (TowerEntry{TimeMs: 90000, Code: "021"}) {
		t.Errorf("towers %d %+v", guest.Towers, guest.TowerLog)
	}
	if !reflect.DeepEqual(guest.Messages, []Message{{TimeMs: 500, Mode: w3g.ChatModeAllies, Text: "mid"}}) {
		t.Errorf("messages %+v", guest.Messages)
	}
	if !host.Left || host.LeftAtMs != 95000 || host.LeaveResult != w3g.LeaveResultLost || guest.Left {
		t.Errorf("leave %+v", host)
	}
}

func TestAggregatorUnknownColor(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	a := NewAggregator(testStatic(), nil)
	a.Log = logger
	a.Apply(100, &w3g.HeroKill{Killer: 1, Victim: 11})

	m := a.Result()
	if len(m.Players[1].KillLog) != 1 {
		t.Errorf("kill log %+v", m.Players[1].KillLog)
	}
	if entry := hook.LastEntry(); entry == nil || entry.Data["color"] != 11 {
		t.Errorf("unexpected log entry %+v", entry)
	}
}

func TestParseFile(t *testing.T) {
	lobby := w3gtest.Lobby{
		GameName: "dota",
		Players:  []w3gtest.Player{{ID: 1, Name: "Host"}, {ID: 2, Name: "Guest"}},
		Slots:    []w3gtest.Slot{w3gtest.UsedSlot(1, 0, 1), w3gtest.UsedSlot(2, 1, 7)},
	}
	file := w3gtest.Replay(lobby, 32,
		w3gtest.TimeSlot(120),
		w3gtest.Chat(1, w3g.ChatModeAll, "gl hf"),
		w3gtest.TimeSlot(1000, w3gtest.Command{
			PlayerID: 2,
			Actions: []w3gtest.Action{
				w3gtest.DotaInfo("Data", "Hero1", "7", 0),
				w3gtest.DotaInfo("7", "1", "1", 1),
				w3gtest.DotaInfo("7", "9", "9", 0x4830304A),
			},
		}),
	)
	path := filepath.Join(t.TempDir(), "dota.w3g")
	if err := os.WriteFile(path, file, 0o644); err != nil {
		t.Fatal(err)
	}

	units := NewUnitTable(Unit{ID: "H00J", Name: "Sven"})
	m, err := ParseFile(context.Background(), w3g.NewParser(), path, units)
	if err != nil {
		t.Fatal(err)
	}
	host, guest := m.FindPlayer("host"), m.FindPlayer("guest")
	if host == nil || guest == nil {
		t.Fatalf("players %v", m.Ordered())
	}
	if len(host.Messages) != 1 || host.Messages[0].TimeMs != 120 {
		t.Errorf("host messages %+v", host.Messages)
	}
	if guest.Kills != 1 || guest.Hero.Name != "Sven" || len(guest.KillLog) != 1 || guest.KillLog[0].TimeMs != 1120 {
		t.Errorf("guest %+v", guest)
	}

	if _, err := ParseFile(context.Background(), w3g.NewParser(), path+".missing", units); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseFileUnrecognizedAction(t *testing.T) {
	lobby := w3gtest.Lobby{
		GameName: "dota",
		Players:  []w3gtest.Player{{ID: 1, Name: "Host"}},
		Slots:    []w3gtest.Slot{w3gtest.UsedSlot(1, 0, 1)},
	}
	file := w3gtest.Replay(lobby, 64,
		w3gtest.TimeSlot(100, w3gtest.Command{
			PlayerID: 1,
			Actions:  []w3gtest.Action{w3gtest.DotaInfo("Data", "Hero1", "7", 0)},
		}),
		w3gtest.TimeSlot(100, w3gtest.Command{
			PlayerID: 1,
			Actions:  []w3gtest.Action{{0x99, 0, 0, 0, 0, 0, 0}},
		}),
	)
	path := filepath.Join(t.TempDir(), "broken.w3g")
	if err := os.WriteFile(path, file, 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := ParseFile(context.Background(), w3g.NewParser(), path, NewUnitTable())
	var unrec *w3g.UnrecognizedActionError
	if !errors.As(err, &unrec) || unrec.Kind != 0x99 {
		t.Fatalf("expected UnrecognizedActionError, got %v", err)
	}
	if m != nil {
		t.Errorf("partial match returned with an error: %v", m.Ordered())
	}
}
