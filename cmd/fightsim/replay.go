package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/duelyard/fightcore/app/modules/match"
	matchservice "github.com/duelyard/fightcore/app/modules/match/application"
	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	matchroster "github.com/duelyard/fightcore/app/modules/match/infrastructure/roster"
	matchstate "github.com/duelyard/fightcore/app/modules/match/infrastructure/state"
	pauseevents "github.com/duelyard/fightcore/app/modules/pause/domain/events"
	statsservice "github.com/duelyard/fightcore/app/modules/stats/application"
	"github.com/duelyard/fightcore/app/modules/stats/infrastructure/statsfile"
	"github.com/duelyard/fightcore/app/observability"
	"github.com/duelyard/fightcore/app/shared"
	"github.com/duelyard/fightcore/config"
)

// stepBeat is how much synthetic match time each script step represents.
const stepBeat = 500 * time.Millisecond

func newReplayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "drive a recorded fact script through the engine",
		ArgsUsage: "script.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "engine configuration file"},
			&cli.StringFlag{Name: "report", Usage: "directory to write stats.json and timeline.png into"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "surface engine logs"},
		},
		Action: runReplay,
	}
}

func runReplay(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: fightsim replay script.yaml")
	}
	script, err := LoadScript(c.Args().First())
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	logLevel := "error"
	if c.Bool("verbose") {
		logLevel = "debug"
	}
	obs := observability.Init(logLevel)

	reportDir := c.String("report")
	statsPath := ""
	if reportDir != "" {
		if err := os.MkdirAll(reportDir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
		statsPath = filepath.Join(reportDir, "stats.json")
	}

	harness, err := newRig(cfg, obs, statsPath)
	if err != nil {
		return err
	}

	defaultMode := script.Mode
	if defaultMode == "" {
		defaultMode = cfg.Engine.DefaultMode
	}

	for i, step := range script.Steps {
		harness.clock.Advance(stepBeat)
		label, result, err := harness.apply(c.Context, defaultMode, step)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, label, err)
		}
		snap := harness.match.Snapshot()
		fmt.Printf("%3d  %-26s phase=%-9s round=%d score=%s%s\n",
			i+1, label, snap.Phase, snap.Round,
			matchtypes.FormatScore(snap.Score), rejectionSuffix(result))
	}

	printOutcome(harness)

	if reportDir != "" {
		return writeReport(harness, reportDir)
	}
	return nil
}

// rig is the synchronous replay harness: the real lifecycle controller and
// stats observer driven directly, with no bus or router in between, so a
// script always applies in exactly the order it is written.
type rig struct {
	match matchservice.Service
	stats statsservice.Service
	clock *virtualClock
}

// virtualClock stands in for wall time so timeline samples spread across
// synthetic match time instead of collapsing onto one instant.
type virtualClock struct {
	t time.Time
}

func (c *virtualClock) Now() time.Time          { return c.t }
func (c *virtualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newRig(cfg *config.Config, obs *observability.Observability, statsPath string) (*rig, error) {
	roster, err := rosterFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	matchSvc := matchservice.NewMatchService(
		matchstate.New(),
		roster,
		match.ModesFromConfig(cfg),
		matchtypes.ModeName(cfg.Engine.DefaultMode),
		cfg.Engine.RoundSeconds,
		obs.Logger,
		obs.Metrics,
		obs.Tracer,
	)

	var file *statsfile.Store
	if statsPath != "" {
		file = statsfile.New(statsPath)
	}
	statsSvc := statsservice.NewStatsService(file, obs.Logger, obs.Metrics, obs.Tracer)

	clock := &virtualClock{t: time.Now()}
	if svc, ok := statsSvc.(*statsservice.StatsService); ok {
		svc.SetClock(clock.Now)
	}

	return &rig{match: matchSvc, stats: statsSvc, clock: clock}, nil
}

func rosterFromConfig(cfg *config.Config) (*matchroster.Roster, error) {
	if cfg.Roster.Path == "" {
		return matchroster.Builtin(cfg.Engine.MaxHealth), nil
	}
	return matchroster.Load(cfg.Roster.Path, cfg.Engine.MaxHealth)
}

// apply drives one step, mirroring the running engine's handler composition:
// reset-then-start on game start, derived health facts fanned out to the
// stats observer, round and match outcomes observed independently of whether
// the lifecycle controller accepted them.
func (r *rig) apply(ctx context.Context, defaultMode string, step Step) (string, shared.OperationResult, error) {
	switch {
	case step.Start != nil:
		mode := step.Start.Mode
		if mode == "" {
			mode = defaultMode
		}
		payload := matchevents.GameStartedPayload{
			Mode:        mode,
			LocalPlayer: matchtypes.SlotID(step.Start.Local),
		}
		slots := matchtypes.Slots()
		for i, name := range step.Start.Fighters {
			if i >= len(slots) {
				break
			}
			payload.Players = append(payload.Players, matchevents.FighterSeed{ID: slots[i], Name: name})
		}
		label := "start " + mode
		if _, err := r.match.ResetMatch(ctx); err != nil {
			return label, shared.OperationResult{}, err
		}
		result, err := r.match.StartGame(ctx, payload)
		if err != nil {
			return label, result, err
		}
		if _, err := r.stats.ObserveMatchStart(ctx, payload); err != nil {
			return label, result, err
		}
		return label, result, r.fanHealth(ctx, result.Success)

	case step.Tick != nil:
		result, err := r.match.ApplyTick(ctx, matchevents.RoundTimerPayload{TimeLeft: step.Tick.Value})
		return fmt.Sprintf("tick %g", step.Tick.Value), result, err

	case step.Damage != nil:
		label := fmt.Sprintf("damage %s %g", step.Damage.Fighter, step.Damage.Amount)
		result, err := r.match.ApplyDamage(ctx, matchevents.FighterDamagedPayload{
			FighterID:     matchtypes.SlotID(step.Damage.Fighter),
			Damage:        step.Damage.Amount,
			CurrentHealth: step.Damage.Health,
		})
		if err != nil {
			return label, result, err
		}
		return label, result, r.fanHealth(ctx, result.Success)

	case step.Defeat != nil:
		label := "defeat " + step.Defeat.Fighter
		result, err := r.match.ResolveDefeat(ctx, matchevents.FighterDefeatedPayload{
			FighterID: matchtypes.SlotID(step.Defeat.Fighter),
		})
		if err != nil {
			return label, result, err
		}
		return label, result, r.fanHealth(ctx, result.Success)

	case step.RoundEnd != nil:
		payload := matchevents.RoundEndedPayload{
			Round:  step.RoundEnd.Round,
			Winner: matchtypes.SlotID(step.RoundEnd.Winner),
			Score:  step.RoundEnd.Score,
		}
		label := "round_end"
		if step.RoundEnd.Winner != "" {
			label += " " + step.RoundEnd.Winner
		}
		result, err := r.match.ApplyRoundEnded(ctx, payload)
		if err != nil {
			return label, result, err
		}
		_, err = r.stats.ObserveRoundEnded(ctx, payload)
		return label, result, err

	case step.GameOver != nil:
		payload := matchevents.GameOverPayload{
			Winner:     matchtypes.SlotID(step.GameOver.Winner),
			FinalScore: step.GameOver.Score,
		}
		label := "game_over"
		if step.GameOver.Winner != "" {
			label += " " + step.GameOver.Winner
		}
		result, err := r.match.ApplyGameOver(ctx, payload)
		if err != nil {
			return label, result, err
		}
		_, err = r.stats.ObserveGameOver(ctx, payload)
		return label, result, err

	case step.Scene != nil:
		label := "scene " + step.Scene.Name
		result, err := r.match.HandleSceneReady(ctx, matchevents.SceneReadyPayload{SceneName: step.Scene.Name})
		if err != nil {
			return label, result, err
		}
		return label, result, r.fanHealth(ctx, result.Success)

	case step.Reset != nil:
		result, err := r.match.ResetMatch(ctx)
		return "reset", result, err

	case step.Exit != nil:
		result, err := r.match.HandleExitToMenu(ctx, pauseevents.GameExitToMenuPayload{})
		return "exit", result, err
	}
	return "", shared.OperationResult{}, fmt.Errorf("empty step")
}

// fanHealth forwards derived health facts to the stats observer, the fan-out
// the router performs in the running engine.
func (r *rig) fanHealth(ctx context.Context, success any) error {
	switch facts := success.(type) {
	case *matchevents.PlayerHealthChangedPayload:
		if facts == nil {
			return nil
		}
		_, err := r.stats.ObserveHealth(ctx, *facts)
		return err
	case []matchevents.PlayerHealthChangedPayload:
		for _, fact := range facts {
			if _, err := r.stats.ObserveHealth(ctx, fact); err != nil {
				return err
			}
		}
	}
	return nil
}

func rejectionSuffix(result shared.OperationResult) string {
	if result.Failure == nil {
		return ""
	}
	if rej, ok := result.Failure.(*matchservice.Rejection); ok {
		return "  rejected: " + rej.Reason
	}
	return fmt.Sprintf("  rejected: %v", result.Failure)
}

func printOutcome(r *rig) {
	snap := r.match.Snapshot()
	view := r.match.View()
	fmt.Printf("\nfinal: phase=%s score=%s", snap.Phase, view.Score)
	if snap.MatchWinner != "" {
		fmt.Printf(" winner=%s", snap.MatchWinner)
	}
	if view.TimerText != "" {
		fmt.Printf(" clock=%s", view.TimerText)
	}
	fmt.Println()

	tally := r.stats.Tally()
	fmt.Printf("session: %d finished match(es), %.1fs of play, p1 %dW-%dL, best streak %d\n",
		tally.Matches, tally.PlaySeconds, tally.WinsP1, tally.LossesP1, tally.BestStreak)
}

func writeReport(r *rig, dir string) error {
	path := filepath.Join(dir, "timeline.png")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create timeline file: %w", err)
	}
	defer f.Close()
	if err := r.stats.TimelinePNG(f); err != nil {
		return fmt.Errorf("failed to render timeline: %w", err)
	}
	fmt.Printf("report written to %s\n", dir)
	return nil
}
