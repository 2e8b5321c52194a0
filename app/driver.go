package app

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	matchclock "github.com/duelyard/fightcore/app/modules/match/domain/clock"
	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	"github.com/duelyard/fightcore/app/shared"
)

const (
	// preRoundSeconds is the 3-2-1 countdown before each round.
	preRoundSeconds = 3.0
	// interRoundDelay is how long a finished round lingers before the next
	// scene or the match result goes out.
	interRoundDelay = 3.0
)

// snapshotSource is the read surface the driver needs from the match module.
type snapshotSource interface {
	Snapshot() matchtypes.Snapshot
}

// TickDriver plays the host rendering layer in demo deployments. It runs as
// the fight loop's step function: counts each round in, publishes the raw
// round-timer channel every frame, judges expired rounds, and advances
// finished rounds toward the next scene or the match result. A deployment
// embedding the engine under a real host disables it and publishes these
// facts itself.
type TickDriver struct {
	logger *slog.Logger
	bus    shared.EventBus
	match  snapshotSource

	lastPhase matchtypes.Phase
	lastRound int

	preRound float64
	lastBeat int
	fightOn  bool

	timeUpCalled bool

	advanceWait float64
	advanced    bool
}

// NewTickDriver builds a driver over the given bus and snapshot source.
func NewTickDriver(logger *slog.Logger, bus shared.EventBus, match snapshotSource) *TickDriver {
	return &TickDriver{
		logger: logger,
		bus:    bus,
		match:  match,
	}
}

// Step advances the driver by one frame. Registered as the fight loop
// context's step function, so suspension freezes it along with the clock.
func (d *TickDriver) Step(ctx context.Context, dt time.Duration) error {
	snap := d.match.Snapshot()
	step := dt.Seconds()

	switch snap.Phase {
	case matchtypes.PhasePlaying:
		if d.lastPhase != matchtypes.PhasePlaying || d.lastRound != snap.Round {
			d.beginRound()
		}
		d.lastPhase = snap.Phase
		d.lastRound = snap.Round
		if d.preRound > 0 || !d.fightOn {
			return d.stepCountIn(step)
		}
		return d.stepClock(snap, step)

	case matchtypes.PhaseRoundEnd:
		if d.lastPhase != matchtypes.PhaseRoundEnd {
			d.advanceWait = interRoundDelay
			d.advanced = false
		}
		d.lastPhase = snap.Phase
		return d.stepAdvance(snap, step)

	default:
		d.lastPhase = snap.Phase
		return nil
	}
}

func (d *TickDriver) beginRound() {
	d.preRound = preRoundSeconds
	d.lastBeat = 0
	d.fightOn = false
	d.timeUpCalled = false
}

// stepCountIn publishes one countdown-update beat per whole second, then the
// closing beat that clears the readout and starts the clock.
func (d *TickDriver) stepCountIn(step float64) error {
	if beat := int(math.Ceil(d.preRound)); beat > 0 && beat != d.lastBeat {
		d.lastBeat = beat
		if err := shared.PublishJSON(d.bus, matchevents.CountdownUpdate, matchevents.CountdownUpdatePayload{
			Value:          strconv.Itoa(beat),
			IsCountingDown: true,
		}); err != nil {
			return err
		}
	}
	d.preRound -= step
	if d.preRound <= 0 && !d.fightOn {
		d.fightOn = true
		return shared.PublishJSON(d.bus, matchevents.CountdownUpdate, matchevents.CountdownUpdatePayload{
			Value:          "",
			IsCountingDown: false,
		})
	}
	return nil
}

// stepClock publishes the next raw timer value. Hidden timers produce no
// facts at all. An expired countdown is judged once: the healthier fighter
// takes the round.
func (d *TickDriver) stepClock(snap matchtypes.Snapshot, step float64) error {
	if snap.Mode.Timer == matchclock.KindHidden {
		return nil
	}

	next := snap.TimerRaw - step
	if err := shared.PublishJSON(d.bus, matchevents.RoundTimer, matchevents.RoundTimerPayload{
		TimeLeft: next,
	}); err != nil {
		return err
	}

	if snap.Mode.Timer == matchclock.KindCountdown && next <= 0 && !d.timeUpCalled {
		d.timeUpCalled = true
		winner := timeUpWinner(snap)
		d.logger.Info("round time expired",
			slog.Int("round", snap.Round),
			slog.String("winner", string(winner)),
		)
		return shared.PublishJSON(d.bus, matchevents.RoundEnded, matchevents.RoundEndedPayload{
			Round:  snap.Round,
			Winner: winner,
		})
	}
	return nil
}

// stepAdvance waits out the round-end lull, then either reports the match
// result or calls for the next fight scene.
func (d *TickDriver) stepAdvance(snap matchtypes.Snapshot, step float64) error {
	d.advanceWait -= step
	if d.advanceWait > 0 || d.advanced {
		return nil
	}
	d.advanced = true

	if snap.Mode.Decided(snap.Score) {
		winner := leadingSlot(snap.Score)
		d.logger.Info("match decided",
			slog.String("winner", string(winner)),
			slog.String("score", matchtypes.FormatScore(snap.Score)),
		)
		return shared.PublishJSON(d.bus, matchevents.GameOver, matchevents.GameOverPayload{
			Winner:     winner,
			FinalScore: matchtypes.FormatScore(snap.Score),
		})
	}
	return shared.PublishJSON(d.bus, matchevents.SceneReady, matchevents.SceneReadyPayload{
		SceneName: matchevents.SceneFight,
	})
}

// timeUpWinner judges an expired round. Ties go to the first slot.
func timeUpWinner(snap matchtypes.Snapshot) matchtypes.SlotID {
	p1, _ := snap.Player(matchtypes.SlotPlayer1)
	if p2, ok := snap.Player(matchtypes.SlotPlayer2); ok && p2.Health > p1.Health {
		return matchtypes.SlotPlayer2
	}
	return matchtypes.SlotPlayer1
}

func leadingSlot(score matchtypes.Score) matchtypes.SlotID {
	if score[matchtypes.SlotPlayer2] > score[matchtypes.SlotPlayer1] {
		return matchtypes.SlotPlayer2
	}
	return matchtypes.SlotPlayer1
}
