package dota

import (
	"encoding/json"
	"io"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Unit is the display metadata of a unit or hero.
type Unit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// UnknownUnit is returned for ids missing from the dataset.
var UnknownUnit = Unit{Name: "UNKNOWN", Icon: "unknown.png"}

// UnitLookup resolves a four character unit code.
type UnitLookup interface {
	Lookup(id string) Unit
}

// UnitTable is a read-only unit dataset. It is filled once by LoadUnits or
// NewUnitTable and never modified afterwards, so it may be shared freely.
type UnitTable struct {
	units map[string]Unit
}

type unitRecord struct {
	Name        string   `json:"Name"`
	ProperNames []string `json:"ProperNames"`
	Image       string   `json:"Image"`
}

// NewUnitTable builds a table from explicit entries.
func NewUnitTable(units ...Unit) *UnitTable {
	t := &UnitTable{units: make(map[string]Unit, len(units))}
	for _, u := range units {
		t.units[u.ID] = u
	}
	return t
}

// LoadUnits reads a JSON object keyed by unit code whose values carry
// "ProperNames" (or "Name") and "Image".
func LoadUnits(r io.Reader) (*UnitTable, error) {
	var raw map[string]unitRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding unit dataset")
	}

	t := &UnitTable{units: make(map[string]Unit, len(raw))}
	for id, rec := range raw {
		u := Unit{ID: id, Name: rec.Name, Icon: UnknownUnit.Icon}
		if len(rec.ProperNames) > 0 {
			u.Name = rec.ProperNames[0]
		}
		if u.Name == "" {
			u.Name = UnknownUnit.Name
		}
		if rec.Image != "" {
			u.Icon = strings.TrimSuffix(rec.Image, path.Ext(rec.Image)) + ".png"
		}
		t.units[id] = u
	}
	return t, nil
}

// LoadUnitsFile loads the dataset from a file.
func LoadUnitsFile(filepath string) (*UnitTable, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "opening unit dataset")
	}
	defer f.Close()
	return LoadUnits(f)
}

// Lookup returns the unit with the given code or UnknownUnit.
func (t *UnitTable) Lookup(id string) Unit {
	if t != nil {
		if u, ok := t.units[id]; ok {
			return u
		}
	}
	u := UnknownUnit
	u.ID = id
	return u
}

// Len returns the number of units in the table.
func (t *UnitTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.units)
}
