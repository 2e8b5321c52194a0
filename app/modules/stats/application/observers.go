package statsservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	statstypes "github.com/duelyard/fightcore/app/modules/stats/domain/types"
	"github.com/duelyard/fightcore/app/modules/stats/infrastructure/statsfile"
	"github.com/duelyard/fightcore/app/shared"
)

// ObserveMatchStart opens a fresh match log. An unfinished previous match
// with no rounds is dropped first, mirroring a hard reset before round one.
func (s *StatsService) ObserveMatchStart(ctx context.Context, payload matchevents.GameStartedPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "stats.observe_match_start", func(ctx context.Context) (shared.OperationResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.log.Abort()
		s.log.StartMatch(uuid.NewString(), payload.Mode, s.now())

		s.names = map[matchtypes.SlotID]string{}
		s.health = map[matchtypes.SlotID]float64{}
		s.maxHealth = map[matchtypes.SlotID]float64{}
		for i, seed := range payload.Players {
			slot := seed.ID
			if !slot.Valid() {
				slots := matchtypes.Slots()
				if i >= len(slots) {
					continue
				}
				slot = slots[i]
			}
			s.names[slot] = seed.Name
		}

		s.logger.DebugContext(ctx, "stats: match opened", slog.String("mode", payload.Mode))
		return shared.OperationResult{}, nil
	})
}

// ObserveHealth appends a timeline sample for the struck slot.
func (s *StatsService) ObserveHealth(ctx context.Context, payload matchevents.PlayerHealthChangedPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "stats.observe_health", func(ctx context.Context) (shared.OperationResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		current := s.log.Current()
		if current == nil {
			return shared.OperationResult{}, nil
		}

		s.health[payload.PlayerID] = payload.Health
		if payload.MaxHealth > 0 {
			s.maxHealth[payload.PlayerID] = payload.MaxHealth
		}
		s.log.AddSample(statstypes.HealthSample{
			Seconds: s.now().Sub(current.StartedAt).Seconds(),
			Slot:    payload.PlayerID,
			Health:  payload.Health,
		})
		return shared.OperationResult{}, nil
	})
}

// ObserveRoundEnded records the finished round with end-of-round fighter
// snapshots. A malformed score string keeps the previous tally.
func (s *StatsService) ObserveRoundEnded(ctx context.Context, payload matchevents.RoundEndedPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "stats.observe_round_ended", func(ctx context.Context) (shared.OperationResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		wins := s.currentWinsLocked()
		if payload.Score != "" {
			parsed, err := matchtypes.ParseScore(payload.Score)
			if err != nil {
				s.logger.WarnContext(ctx, "stats: unreadable score on round-ended, keeping previous tally",
					slog.String("raw", payload.Score),
					slog.Any("error", err),
				)
			} else {
				wins = [2]int{parsed[matchtypes.SlotPlayer1], parsed[matchtypes.SlotPlayer2]}
			}
		} else if payload.Winner == matchtypes.SlotPlayer1 {
			wins[0]++
		} else if payload.Winner == matchtypes.SlotPlayer2 {
			wins[1]++
		}

		line := statstypes.RoundLine{
			Index:  payload.Round,
			Winner: payload.Winner,
			Score:  wins,
		}
		for _, slot := range matchtypes.Slots() {
			line.Fighters = append(line.Fighters, statstypes.FighterLine{
				Slot:      slot,
				Name:      s.names[slot],
				Health:    s.health[slot],
				MaxHealth: s.maxHealth[slot],
				Won:       slot == payload.Winner,
			})
		}
		s.log.AddRound(line)
		return shared.OperationResult{}, nil
	})
}

// ObserveGameOver finalizes the match log and, when persistence is on,
// merges the outcome into the stats file.
func (s *StatsService) ObserveGameOver(ctx context.Context, payload matchevents.GameOverPayload) (shared.OperationResult, error) {
	return s.withTelemetry(ctx, "stats.observe_game_over", func(ctx context.Context) (shared.OperationResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		current := s.log.Current()
		if current == nil || current.Finished {
			return shared.OperationResult{}, nil
		}

		wins := s.currentWinsLocked()
		if payload.FinalScore != "" {
			if parsed, err := matchtypes.ParseScore(payload.FinalScore); err == nil {
				wins = [2]int{parsed[matchtypes.SlotPlayer1], parsed[matchtypes.SlotPlayer2]}
			}
		}
		s.log.Finalize(payload.Winner, wins, s.now())

		if s.file == nil {
			return shared.OperationResult{}, nil
		}
		tally := s.log.Tally()
		err := s.file.Merge(statsfile.MergeInput{
			Mode:        current.Mode,
			PlaySeconds: current.Duration.Seconds(),
			Cleared:     payload.Winner == matchtypes.SlotPlayer1,
			WinnerName:  s.names[payload.Winner],
			BestStreak:  tally.BestStreak,
		})
		if err != nil {
			return shared.OperationResult{}, fmt.Errorf("failed to merge stats file: %w", err)
		}

		s.logger.InfoContext(ctx, "stats: match recorded",
			slog.String("mode", current.Mode),
			slog.String("winner", string(payload.Winner)),
			slog.Int("session_matches", tally.Matches),
		)
		return shared.OperationResult{}, nil
	})
}

// currentWinsLocked returns the last recorded wins tally of the open match.
func (s *StatsService) currentWinsLocked() [2]int {
	if m := s.log.Current(); m != nil {
		return m.Wins
	}
	return [2]int{}
}
