package dota

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"

	"github.com/condor/w3g-dota/pkg/w3g"
)

// LogEntry is a timestamped reference to another player by slot color.
type LogEntry struct {
	TimeMs uint32 `json:"time_ms"`
	Color  int    `json:"color"`
}

// TowerEntry is a destroyed tower; Code is the undecoded tower key suffix.
type TowerEntry struct {
	TimeMs uint32 `json:"time_ms"`
	Code   string `json:"code"`
}

// Message is a chat line sent by a player.
type Message struct {
	TimeMs uint32 `json:"time_ms"`
	Mode   uint32 `json:"mode"`
	Text   string `json:"text"`
}

// PlayerStats are the statistics of one match participant. Color is the
// slot color, the key the DotA map uses to refer to players.
type PlayerStats struct {
	Color      int    `json:"color"`
	PlayerID   uint8  `json:"player_id"`
	Name       string `json:"name"`
	Team       uint8  `json:"team"`
	IsComputer bool   `json:"is_computer"`

	Kills             int    `json:"kills"`
	Deaths            int    `json:"deaths"`
	Assists           int    `json:"assists"`
	CreepKills        int    `json:"creep_kills"`
	CreepDenies       int    `json:"creep_denies"`
	CreepNeutralKills int    `json:"creep_neutral_kills"`
	Gold              int    `json:"gold"`
	Towers            int    `json:"towers"`
	Inventory         uint32 `json:"inventory"`
	HeroID            uint32 `json:"hero_id"`
	Hero              Unit   `json:"hero"`

	KillLog   []LogEntry   `json:"kill_log"`
	DeathLog  []LogEntry   `json:"death_log"`
	AssistLog []LogEntry   `json:"assist_log"`
	TowerLog  []TowerEntry `json:"tower_log"`
	Messages  []Message    `json:"messages"`

	Left        bool            `json:"left"`
	LeftAtMs    uint32          `json:"left_at_ms,omitempty"`
	LeaveResult w3g.LeaveResult `json:"leave_result,omitempty"`
}

func (p *PlayerStats) String() string {
	return fmt.Sprintf("(%d) %s %d/%d/%d", p.Color, p.Name, p.Kills, p.Deaths, p.Assists)
}

// Match is the aggregated result of a DotA replay.
type Match struct {
	GameName string               `json:"game_name"`
	Mode     string               `json:"mode"`
	Players  map[int]*PlayerStats `json:"players"`
}

// Colors returns the player colors in ascending order.
func (m *Match) Colors() []int {
	colors := maps.Keys(m.Players)
	slices.Sort(colors)
	return colors
}

// Ordered returns the players sorted by color.
func (m *Match) Ordered() []*PlayerStats {
	colors := m.Colors()
	out := make([]*PlayerStats, len(colors))
	for i, c := range colors {
		out[i] = m.Players[c]
	}
	return out
}

// FindPlayer returns the player with the given name (case-insensitive).
func (m *Match) FindPlayer(name string) *PlayerStats {
	for _, p := range m.Players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// Aggregator folds stat updates, chat and leave events into per-player
// statistics. Updates must be applied in stream order.
type Aggregator struct {
	Log logrus.FieldLogger

	match *Match
	byID  map[uint8]*PlayerStats
	units UnitLookup
}

// NewAggregator creates the players of a match from the occupied,
// non-observer slots of static.
func NewAggregator(static *w3g.StaticGameInfo, units UnitLookup) *Aggregator {
	a := &Aggregator{
		Log:   logrus.StandardLogger(),
		match: &Match{GameName: static.GameName, Players: make(map[int]*PlayerStats)},
		byID:  make(map[uint8]*PlayerStats),
		units: units,
	}

	for _, slot := range static.Slots {
		if slot.Status != w3g.SlotUsed || slot.IsObserver() {
			continue
		}
		p := &PlayerStats{
			Color:      int(slot.Color),
			PlayerID:   slot.PlayerID,
			Team:       slot.Team,
			IsComputer: slot.IsComputer,
		}
		switch rec := static.Player(slot.PlayerID); {
		case slot.IsComputer:
			p.Name = fmt.Sprintf("Computer %d", slot.Color)
		case rec != nil:
			p.Name = rec.Name
			a.byID[slot.PlayerID] = p
		default:
			p.Name = fmt.Sprintf("Player %d", slot.PlayerID)
		}
		a.match.Players[p.Color] = p
	}
	return a
}

func (a *Aggregator) player(color int, kind string) *PlayerStats {
	p := a.match.Players[color]
	if p == nil && a.Log != nil {
		a.Log.WithFields(logrus.Fields{"color": color, "update": kind}).Debug("update for color without player")
	}
	return p
}

// Apply folds one stat update observed at the given game time.
func (a *Aggregator) Apply(timeMs uint32, update w3g.StatUpdate) {
	switch u := update.(type) {
	case *w3g.CounterUpdate:
		if p := a.player(u.Player, u.Counter.String()); p != nil {
			applyCounter(p, u)
		}

	case *w3g.ModeAnnouncement:
		a.match.Mode = u.Mode

	case *w3g.HeroKill:
		if p := a.player(u.Killer, "kill"); p != nil {
			p.KillLog = append(p.KillLog, LogEntry{TimeMs: timeMs, Color: u.Victim})
		}
		if p := a.player(u.Victim, "death"); p != nil {
			p.DeathLog = append(p.DeathLog, LogEntry{TimeMs: timeMs, Color: u.Killer})
		}

	case *w3g.HeroAssist:
		if p := a.player(u.Actor, "assist"); p != nil {
			p.AssistLog = append(p.AssistLog, LogEntry{TimeMs: timeMs, Color: u.Victim})
		}

	case *w3g.TowerDestroyed:
		if p := a.player(u.Owner, "tower"); p != nil {
			p.TowerLog = append(p.TowerLog, TowerEntry{TimeMs: timeMs, Code: u.Code})
			p.Towers = len(p.TowerLog)
		}
	}
}

func applyCounter(p *PlayerStats, u *w3g.CounterUpdate) {
	v := int(u.Value)
	switch u.Counter {
	case w3g.CounterKills:
		p.Kills = v
	case w3g.CounterDeaths:
		p.Deaths = v
	case w3g.CounterCreepKills:
		p.CreepKills = v
	case w3g.CounterCreepDenies:
		p.CreepDenies = v
	case w3g.CounterAssists:
		p.Assists = v
	case w3g.CounterGold:
		p.Gold = v
	case w3g.CounterCreepNeutralKills:
		p.CreepNeutralKills = v
	case w3g.CounterInventory:
		p.Inventory = u.Value
	case w3g.CounterHeroID:
		p.HeroID = u.Value
	}
}

// AddMessage appends a chat message to its sender's log.
func (a *Aggregator) AddMessage(msg *w3g.ChatMessage) {
	if p := a.byID[msg.PlayerID]; p != nil {
		p.Messages = append(p.Messages, Message{TimeMs: msg.TimeMs, Mode: msg.Mode, Text: msg.Text})
	}
}

// Leave records a player leaving the game.
func (a *Aggregator) Leave(lv *w3g.LeaveGame) {
	if p := a.byID[lv.PlayerID]; p != nil {
		p.Left = true
		p.LeftAtMs = lv.TimeMs
		p.LeaveResult = lv.Result
	}
}

// Result resolves hero identities and returns the match.
func (a *Aggregator) Result() *Match {
	for _, p := range a.match.Players {
		var code string
		if p.HeroID != 0 {
			code = w3g.FourCC(p.HeroID)
		}
		if a.units != nil {
			p.Hero = a.units.Lookup(code)
		} else {
			p.Hero = UnknownUnit
			p.Hero.ID = code
		}
	}
	return a.match
}

// Aggregate folds the events of a replay into match statistics.
func Aggregate(static *w3g.StaticGameInfo, events []w3g.GameDataEvent, units UnitLookup) *Match {
	a := NewAggregator(static, units)
	for _, ev := range events {
		switch e := ev.(type) {
		case *w3g.TimeSlot:
			for _, block := range e.Blocks {
				for _, action := range block.Actions {
					if info, ok := action.(*w3g.DotaInfoAction); ok {
						a.Apply(e.TimeMs, info.Update)
					}
				}
			}
		case *w3g.ChatMessage:
			a.AddMessage(e)
		case *w3g.LeaveGame:
			a.Leave(e)
		}
	}
	return a.Result()
}
