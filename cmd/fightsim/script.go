package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a recorded sequence of host facts, driven through the engine in
// order. Mode seeds start steps that do not name one themselves.
type Script struct {
	Mode  string `yaml:"mode,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Step is one scripted fact. Exactly one field may be set per step.
type Step struct {
	Start    *StartStep    `yaml:"start,omitempty"`
	Tick     *TickStep     `yaml:"tick,omitempty"`
	Damage   *DamageStep   `yaml:"damage,omitempty"`
	Defeat   *DefeatStep   `yaml:"defeat,omitempty"`
	RoundEnd *RoundEndStep `yaml:"round_end,omitempty"`
	GameOver *GameOverStep `yaml:"game_over,omitempty"`
	Scene    *SceneStep    `yaml:"scene,omitempty"`
	Reset    *ResetStep    `yaml:"reset,omitempty"`
	Exit     *ExitStep     `yaml:"exit,omitempty"`
}

// StartStep begins a match. Unnamed fighters come from the roster.
type StartStep struct {
	Mode     string   `yaml:"mode,omitempty"`
	Fighters []string `yaml:"fighters,omitempty"`
	Local    string   `yaml:"local,omitempty"`
}

// TickStep carries one raw timer channel value.
type TickStep struct {
	Value float64 `yaml:"value"`
}

// DamageStep lands a hit. Health, when set, is the authoritative post-hit
// value; otherwise the engine derives it from the amount.
type DamageStep struct {
	Fighter string   `yaml:"fighter"`
	Amount  float64  `yaml:"amount"`
	Health  *float64 `yaml:"health,omitempty"`
}

// DefeatStep reports a fighter reduced to zero.
type DefeatStep struct {
	Fighter string `yaml:"fighter"`
}

// RoundEndStep is the host's round resolution. Score, when set, overwrites
// the local tally with those exact values.
type RoundEndStep struct {
	Round  int    `yaml:"round,omitempty"`
	Winner string `yaml:"winner,omitempty"`
	Score  string `yaml:"score,omitempty"`
}

// GameOverStep ends the match.
type GameOverStep struct {
	Winner string `yaml:"winner,omitempty"`
	Score  string `yaml:"score,omitempty"`
}

// SceneStep announces a scene finishing its load.
type SceneStep struct {
	Name string `yaml:"name"`
}

// ResetStep zeroes the match score.
type ResetStep struct{}

// ExitStep discards round state the way a menu bail-out does.
type ExitStep struct{}

func (s *Script) add(step Step) { s.Steps = append(s.Steps, step) }

// set lists which fields of the step are populated.
func (s Step) set() []string {
	var fields []string
	if s.Start != nil {
		fields = append(fields, "start")
	}
	if s.Tick != nil {
		fields = append(fields, "tick")
	}
	if s.Damage != nil {
		fields = append(fields, "damage")
	}
	if s.Defeat != nil {
		fields = append(fields, "defeat")
	}
	if s.RoundEnd != nil {
		fields = append(fields, "round_end")
	}
	if s.GameOver != nil {
		fields = append(fields, "game_over")
	}
	if s.Scene != nil {
		fields = append(fields, "scene")
	}
	if s.Reset != nil {
		fields = append(fields, "reset")
	}
	if s.Exit != nil {
		fields = append(fields, "exit")
	}
	return fields
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to unmarshal script: %w", err)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

// Validate rejects scripts the replay cannot drive.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("script has no steps")
	}
	for i, step := range s.Steps {
		switch fields := step.set(); len(fields) {
		case 0:
			return fmt.Errorf("step %d sets no fact (empty steps need an explicit {})", i+1)
		case 1:
		default:
			return fmt.Errorf("step %d sets %d facts %v, want exactly one", i+1, len(fields), fields)
		}
	}
	return nil
}

// Write emits the script as YAML.
func (s *Script) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode script: %w", err)
	}
	return enc.Close()
}
