package matchservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	matchclock "github.com/duelyard/fightcore/app/modules/match/domain/clock"
	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
)

func TestApplyTickClampsCountdown(t *testing.T) {
	svc := newTestService(t)
	startGame(t, svc, matchtypes.ModeNormal)

	_, err := svc.ApplyTick(context.Background(), matchevents.RoundTimerPayload{TimeLeft: 42.5})
	require.NoError(t, err)
	require.InDelta(t, 42.5, svc.Snapshot().TimerRaw, 0.0001)

	// Countdown never goes below zero.
	_, err = svc.ApplyTick(context.Background(), matchevents.RoundTimerPayload{TimeLeft: -3})
	require.NoError(t, err)
	require.InDelta(t, 0, svc.Snapshot().TimerRaw, 0.0001)
}

func TestApplyTickElapsedPassesNegativesThrough(t *testing.T) {
	svc := newTestService(t)
	startGame(t, svc, matchtypes.ModeTimeAttack)

	raw := matchclock.EncodeElapsed(73.5)
	_, err := svc.ApplyTick(context.Background(), matchevents.RoundTimerPayload{TimeLeft: raw})
	require.NoError(t, err)

	reading := matchclock.Decode(svc.Snapshot().TimerRaw)
	require.Equal(t, matchclock.KindElapsed, reading.Kind)
	require.InDelta(t, 73.5, reading.Seconds, 0.01)
}

func TestApplyTickIgnoredOutsidePlay(t *testing.T) {
	svc := newTestService(t)
	startGame(t, svc, matchtypes.ModeNormal)
	knockOut(t, svc, matchtypes.SlotPlayer2)
	require.Equal(t, matchtypes.PhaseRoundEnd, svc.Snapshot().Phase)

	before := svc.Snapshot().TimerRaw
	_, err := svc.ApplyTick(context.Background(), matchevents.RoundTimerPayload{TimeLeft: 5})
	require.NoError(t, err)
	require.Equal(t, before, svc.Snapshot().TimerRaw)
}

func TestApplyDamageDerivesHealthFromDamage(t *testing.T) {
	svc := newTestService(t)
	startGame(t, svc, matchtypes.ModeNormal)
	max := svc.Snapshot().Players[matchtypes.SlotPlayer2].MaxHealth

	result, err := svc.ApplyDamage(context.Background(), matchevents.FighterDamagedPayload{
		FighterID: matchtypes.SlotPlayer2,
		Damage:    120,
	})
	require.NoError(t, err)

	fact, ok := result.Success.(*matchevents.PlayerHealthChangedPayload)
	require.True(t, ok)
	require.Equal(t, matchtypes.SlotPlayer2, fact.PlayerID)
	require.InDelta(t, max-120, fact.Health, 0.0001)
	require.InDelta(t, max-120, svc.Snapshot().Players[matchtypes.SlotPlayer2].Health, 0.0001)
}

func TestApplyDamagePrefersAuthoritativeHealth(t *testing.T) {
	svc := newTestService(t)
	startGame(t, svc, matchtypes.ModeNormal)

	health := 333.25
	_, err := svc.ApplyDamage(context.Background(), matchevents.FighterDamagedPayload{
		FighterID:     matchtypes.SlotPlayer1,
		Damage:        9999,
		CurrentHealth: &health,
	})
	require.NoError(t, err)
	require.InDelta(t, 333.25, svc.Snapshot().Players[matchtypes.SlotPlayer1].Health, 0.0001)
}

func TestApplyDamageFloorsNearZeroHealth(t *testing.T) {
	svc := newTestService(t)
	startGame(t, svc, matchtypes.ModeNormal)

	health := 0.0042
	_, err := svc.ApplyDamage(context.Background(), matchevents.FighterDamagedPayload{
		FighterID:     matchtypes.SlotPlayer2,
		CurrentHealth: &health,
	})
	require.NoError(t, err)

	p := svc.Snapshot().Players[matchtypes.SlotPlayer2]
	require.Equal(t, float64(0), p.Health)
	require.False(t, p.Alive)
}

func TestApplyDamageUnknownSlotIsRejected(t *testing.T) {
	svc := newTestService(t)
	startGame(t, svc, matchtypes.ModeNormal)

	result, err := svc.ApplyDamage(context.Background(), matchevents.FighterDamagedPayload{
		FighterID: "spectator",
		Damage:    50,
	})
	require.NoError(t, err)

	rej, ok := result.Failure.(Rejection)
	require.True(t, ok)
	require.Equal(t, rejectUnknownSlot, rej.Reason)
	require.Equal(t, matchtypes.SlotID("spectator"), rej.Slot)
}

func TestApplyDamageNoChangeEmitsNothing(t *testing.T) {
	svc := newTestService(t)
	startGame(t, svc, matchtypes.ModeNormal)
	max := svc.Snapshot().Players[matchtypes.SlotPlayer1].MaxHealth

	result, err := svc.ApplyDamage(context.Background(), matchevents.FighterDamagedPayload{
		FighterID:     matchtypes.SlotPlayer1,
		CurrentHealth: &max,
	})
	require.NoError(t, err)
	require.Nil(t, result.Success)
	require.Nil(t, result.Failure)
}
