// Package matchroster loads fighter definitions. Rosters ship as INI files,
// one section per fighter; a built-in roster backs installs without one.
package matchroster

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
)

// Fighter is one roster entry. Stats beyond MaxHealth are presentation hints
// mirrored into seeded players for the host's benefit.
type Fighter struct {
	Name        string  `ini:"-"`
	DisplayName string  `ini:"display_name"`
	MaxHealth   float64 `ini:"max_health"`
	WalkSpeed   float64 `ini:"walk_speed"`
	JumpPower   float64 `ini:"jump_power"`
	Attack      float64 `ini:"attack"`
}

// Roster is a named set of fighters.
type Roster struct {
	fighters         map[string]Fighter
	defaultMaxHealth float64
}

// Builtin returns the stock roster used when no roster file is configured.
func Builtin(defaultMaxHealth float64) *Roster {
	r := &Roster{
		fighters:         make(map[string]Fighter),
		defaultMaxHealth: defaultMaxHealth,
	}
	for _, f := range []Fighter{
		{Name: "blaze", DisplayName: "Blaze", MaxHealth: defaultMaxHealth, WalkSpeed: 220, JumpPower: 560, Attack: 85},
		{Name: "frost", DisplayName: "Frost", MaxHealth: defaultMaxHealth, WalkSpeed: 200, JumpPower: 600, Attack: 90},
		{Name: "viper", DisplayName: "Viper", MaxHealth: defaultMaxHealth * 0.9, WalkSpeed: 260, JumpPower: 580, Attack: 95},
		{Name: "titan", DisplayName: "Titan", MaxHealth: defaultMaxHealth * 1.2, WalkSpeed: 170, JumpPower: 500, Attack: 110},
	} {
		r.fighters[f.Name] = f
	}
	return r
}

// Load reads a roster INI file. Unknown lines are skipped so hand-edited
// files with stray notes still load.
func Load(path string, defaultMaxHealth float64) (*Roster, error) {
	file, err := ini.LoadSources(ini.LoadOptions{SkipUnrecognizableLines: true}, path)
	if err != nil {
		return nil, fmt.Errorf("load roster %s: %w", path, err)
	}

	r := &Roster{
		fighters:         make(map[string]Fighter),
		defaultMaxHealth: defaultMaxHealth,
	}
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		f := Fighter{
			Name:      strings.ToLower(section.Name()),
			MaxHealth: defaultMaxHealth,
		}
		if err := section.MapTo(&f); err != nil {
			return nil, fmt.Errorf("roster section [%s]: %w", section.Name(), err)
		}
		if f.DisplayName == "" {
			f.DisplayName = section.Name()
		}
		if f.MaxHealth <= 0 {
			return nil, fmt.Errorf("roster section [%s]: max_health must be positive, got %v", section.Name(), f.MaxHealth)
		}
		r.fighters[f.Name] = f
	}
	if len(r.fighters) == 0 {
		return nil, fmt.Errorf("roster %s defines no fighters", path)
	}
	return r, nil
}

// Fighter looks a fighter up by name, case-insensitively.
func (r *Roster) Fighter(name string) (Fighter, bool) {
	f, ok := r.fighters[strings.ToLower(name)]
	return f, ok
}

// Names returns all fighter names, sorted.
func (r *Roster) Names() []string {
	names := make([]string, 0, len(r.fighters))
	for name := range r.fighters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of fighters.
func (r *Roster) Len() int {
	return len(r.fighters)
}

// startX positions the two slots on opposite sides of the stage.
var startX = map[matchtypes.SlotID]float64{
	matchtypes.SlotPlayer1: 160,
	matchtypes.SlotPlayer2: 480,
}

// Seed builds a fresh full-health player for slot. Unknown fighter names get
// the default stat line so a match can always start.
func (r *Roster) Seed(slot matchtypes.SlotID, name string) matchtypes.Player {
	maxHealth := r.defaultMaxHealth
	displayName := name
	if f, ok := r.Fighter(name); ok {
		maxHealth = f.MaxHealth
		displayName = f.DisplayName
	}
	return matchtypes.Player{
		Slot:      slot,
		Name:      displayName,
		Health:    maxHealth,
		MaxHealth: maxHealth,
		Position:  matchtypes.Position{X: startX[slot], Y: 0},
		State:     matchtypes.FighterIdle,
		Alive:     true,
	}
}
