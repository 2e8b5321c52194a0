package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/urfave/cli/v2"
	"gopkg.in/ini.v1"

	matchclock "github.com/duelyard/fightcore/app/modules/match/domain/clock"
	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	matchroster "github.com/duelyard/fightcore/app/modules/match/infrastructure/roster"
	"github.com/duelyard/fightcore/config"
)

func newGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate scripts and rosters for testing",
		Subcommands: []*cli.Command{
			newGenerateScriptCommand(),
			newGenerateRosterCommand(),
		},
	}
}

func newGenerateScriptCommand() *cli.Command {
	return &cli.Command{
		Name:  "script",
		Usage: "generate a replayable fact script",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "engine configuration file"},
			&cli.StringFlag{Name: "mode", Usage: "game mode (defaults to the configured default)"},
			&cli.IntFlag{Name: "rounds", Value: 3, Usage: "rounds to play in modes without a win target"},
			&cli.Uint64Flag{Name: "seed", Usage: "faker seed (0 means random)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (defaults to stdout)"},
		},
		Action: runGenerateScript,
	}
}

func runGenerateScript(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	modeName := c.String("mode")
	if modeName == "" {
		modeName = cfg.Engine.DefaultMode
	}
	modeCfg, ok := cfg.Modes[modeName]
	if !ok {
		return fmt.Errorf("mode %q has no modes entry", modeName)
	}

	roster, err := rosterFromConfig(cfg)
	if err != nil {
		return err
	}

	faker := newFaker(c.Uint64("seed"))
	script := generateScript(faker, modeName, modeCfg, roster.Names(), cfg.Engine.RoundSeconds, c.Int("rounds"))

	return writeScript(script, c.String("out"))
}

// generateScript builds a coherent match transcript: each round wears the
// loser down before the defeat lands, every resolution carries an
// authoritative score string, and the terminal fact matches the mode. Modes
// without a win target never decide, so those scripts end with a menu exit.
func generateScript(faker *gofakeit.Faker, modeName string, mode config.ModeConfig, names []string, roundSeconds float64, targetlessRounds int) *Script {
	kind, err := matchclock.ParseKind(mode.Timer)
	if err != nil {
		kind = matchclock.KindCountdown
	}
	slots := [2]string{string(matchtypes.SlotPlayer1), string(matchtypes.SlotPlayer2)}

	pool := append([]string(nil), names...)
	faker.ShuffleStrings(pool)
	fighters := []string{pool[0], pool[0]}
	if len(pool) > 1 {
		fighters[1] = pool[1]
	}

	script := &Script{
		Mode:  modeName,
		Steps: []Step{{Start: &StartStep{Mode: modeName, Fighters: fighters}}},
	}

	wins := [2]int{}
	elapsed := 0.0
	for round := 1; ; round++ {
		winner := 0
		if mode.MaxRounds > 0 {
			winner = faker.Number(0, 1)
		}
		loser := 1 - winner

		remaining := roundSeconds
		exchanges := faker.Number(2, 4)
		for e := 0; e < exchanges; e++ {
			switch kind {
			case matchclock.KindCountdown:
				remaining -= faker.Float64Range(4, 12)
				script.add(Step{Tick: &TickStep{Value: round1(matchclock.EncodeCountdown(remaining))}})
			case matchclock.KindElapsed:
				elapsed += faker.Float64Range(4, 12)
				script.add(Step{Tick: &TickStep{Value: round1(matchclock.EncodeElapsed(elapsed))}})
			}
			script.add(Step{Damage: &DamageStep{
				Fighter: slots[loser],
				Amount:  float64(faker.Number(60, 180)),
			}})
			if faker.Bool() {
				script.add(Step{Damage: &DamageStep{
					Fighter: slots[winner],
					Amount:  float64(faker.Number(20, 90)),
				}})
			}
		}

		script.add(Step{Defeat: &DefeatStep{Fighter: slots[loser]}})

		// Survival counts cleared rounds in the first slot, time attack counts
		// defeated opponents in the second; both leave the match undecided.
		var score string
		switch {
		case mode.MaxRounds > 0:
			wins[winner]++
			score = fmt.Sprintf("%d-%d", wins[0], wins[1])
		case kind == matchclock.KindElapsed:
			score = fmt.Sprintf("0-%d", round)
		default:
			score = fmt.Sprintf("%d-0", round)
		}
		script.add(Step{RoundEnd: &RoundEndStep{
			Round:  round,
			Winner: slots[winner],
			Score:  score,
		}})

		if mode.MaxRounds > 0 {
			if wins[winner] >= mode.MaxRounds {
				script.add(Step{GameOver: &GameOverStep{Winner: slots[winner], Score: score}})
				return script
			}
		} else if round >= targetlessRounds {
			script.add(Step{Exit: &ExitStep{}})
			return script
		}
		script.add(Step{Scene: &SceneStep{Name: matchevents.SceneFight}})
	}
}

func newGenerateRosterCommand() *cli.Command {
	return &cli.Command{
		Name:  "roster",
		Usage: "generate a fighter roster INI",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "fighters", Value: 8, Usage: "number of fighters"},
			&cli.Float64Flag{Name: "max-health", Value: 1000, Usage: "baseline max health"},
			&cli.Uint64Flag{Name: "seed", Usage: "faker seed (0 means random)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (defaults to stdout)"},
		},
		Action: runGenerateRoster,
	}
}

func runGenerateRoster(c *cli.Context) error {
	faker := newFaker(c.Uint64("seed"))
	file := ini.Empty()

	base := c.Float64("max-health")
	seen := map[string]bool{}
	for i := 0; i < c.Int("fighters"); i++ {
		name := faker.Gamertag()
		for seen[strings.ToLower(name)] {
			name = faker.Gamertag()
		}
		seen[strings.ToLower(name)] = true

		section, err := file.NewSection(name)
		if err != nil {
			return fmt.Errorf("failed to create section %s: %w", name, err)
		}
		fighter := matchroster.Fighter{
			DisplayName: name,
			MaxHealth:   round1(base * faker.Float64Range(0.8, 1.25)),
			WalkSpeed:   float64(faker.Number(160, 280)),
			JumpPower:   float64(faker.Number(480, 640)),
			Attack:      float64(faker.Number(70, 120)),
		}
		if err := section.ReflectFrom(&fighter); err != nil {
			return fmt.Errorf("failed to fill section %s: %w", name, err)
		}
	}

	out := c.String("out")
	if out == "" {
		_, err := file.WriteTo(os.Stdout)
		return err
	}
	if err := file.SaveTo(out); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	fmt.Printf("roster written to %s\n", out)
	return nil
}

func newFaker(seed uint64) *gofakeit.Faker {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return gofakeit.New(seed)
}

func writeScript(script *Script, out string) error {
	if out == "" {
		return script.Write(os.Stdout)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()
	if err := script.Write(f); err != nil {
		return err
	}
	fmt.Printf("script written to %s\n", out)
	return nil
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
