package matchstate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
)

func newPlayer(slot matchtypes.SlotID, health float64) matchtypes.Player {
	return matchtypes.Player{
		Slot:      slot,
		Name:      "Fighter",
		Health:    health,
		MaxHealth: 1000,
		State:     matchtypes.FighterIdle,
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestAddPlayer(t *testing.T) {
	t.Run("derives alive and clamps on insert", func(t *testing.T) {
		store := New()
		require.Equal(t, UpdateApplied, store.AddPlayer(newPlayer(matchtypes.SlotPlayer1, 1500)))

		p, ok := store.Player(matchtypes.SlotPlayer1)
		require.True(t, ok)
		require.Equal(t, float64(1000), p.Health)
		require.True(t, p.Alive)
	})

	t.Run("replaces an existing slot in place", func(t *testing.T) {
		store := New()
		store.AddPlayer(newPlayer(matchtypes.SlotPlayer1, 1000))
		store.AddPlayer(newPlayer(matchtypes.SlotPlayer2, 1000))

		replacement := newPlayer(matchtypes.SlotPlayer1, 500)
		replacement.Name = "Challenger"
		require.Equal(t, UpdateApplied, store.AddPlayer(replacement))

		p, _ := store.Player(matchtypes.SlotPlayer1)
		require.Equal(t, "Challenger", p.Name)
		require.Equal(t, float64(500), p.Health)
		require.Equal(t, 2, store.PlayerCount())
	})

	t.Run("rejects an invalid slot id", func(t *testing.T) {
		store := New()
		require.Equal(t, UpdateIgnoredUnknownSlot, store.AddPlayer(newPlayer("player9", 1000)))
	})
}

func TestUpdatePlayerHealthInvariant(t *testing.T) {
	tests := []struct {
		name       string
		health     float64
		wantHealth float64
		wantAlive  bool
	}{
		{name: "plain write", health: 640, wantHealth: 640, wantAlive: true},
		{name: "negative clamps to zero", health: -25, wantHealth: 0, wantAlive: false},
		{name: "above max clamps to max", health: 4000, wantHealth: 1000, wantAlive: true},
		{name: "float residue snaps to zero", health: 0.0099, wantHealth: 0, wantAlive: false},
		{name: "epsilon survives", health: 0.01, wantHealth: 0.01, wantAlive: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := New()
			store.AddPlayer(newPlayer(matchtypes.SlotPlayer1, 1000))

			res := store.UpdatePlayer(matchtypes.SlotPlayer1, PlayerPatch{Health: floatPtr(tt.health)})
			require.Equal(t, UpdateApplied, res.Status)
			require.Equal(t, tt.wantHealth, res.Player.Health)
			require.Equal(t, tt.wantAlive, res.Player.Alive)

			stored, _ := store.Player(matchtypes.SlotPlayer1)
			require.Equal(t, tt.wantHealth, stored.Health)
		})
	}
}

func TestUpdatePlayerUnknownSlotIsNoOp(t *testing.T) {
	store := New()
	store.AddPlayer(newPlayer(matchtypes.SlotPlayer1, 1000))

	res := store.UpdatePlayer(matchtypes.SlotPlayer2, PlayerPatch{Health: floatPtr(0)})
	require.Equal(t, UpdateIgnoredUnknownSlot, res.Status)
	require.False(t, res.HealthChanged)

	// The known player is untouched.
	p, _ := store.Player(matchtypes.SlotPlayer1)
	require.Equal(t, float64(1000), p.Health)
}

func TestUpdatePlayerReportsHealthChanges(t *testing.T) {
	store := New()
	store.AddPlayer(newPlayer(matchtypes.SlotPlayer1, 1000))

	res := store.UpdatePlayer(matchtypes.SlotPlayer1, PlayerPatch{Health: floatPtr(800)})
	require.True(t, res.HealthChanged)

	// Writing the same value again changes nothing.
	res = store.UpdatePlayer(matchtypes.SlotPlayer1, PlayerPatch{Health: floatPtr(800)})
	require.False(t, res.HealthChanged)

	// A non-health patch never reports a health change.
	state := matchtypes.FighterAttacking
	res = store.UpdatePlayer(matchtypes.SlotPlayer1, PlayerPatch{State: &state})
	require.False(t, res.HealthChanged)
	require.Equal(t, matchtypes.FighterAttacking, res.Player.State)
}

func TestUpdatePlayerMaxHealthShrinkReclamps(t *testing.T) {
	store := New()
	store.AddPlayer(newPlayer(matchtypes.SlotPlayer1, 1000))

	res := store.UpdatePlayer(matchtypes.SlotPlayer1, PlayerPatch{MaxHealth: floatPtr(600)})
	require.True(t, res.HealthChanged)
	require.Equal(t, float64(600), res.Player.Health)
	require.Equal(t, float64(600), res.Player.MaxHealth)
}

func TestResetMatchZeroesScoreOnly(t *testing.T) {
	store := New()
	store.AddPlayer(newPlayer(matchtypes.SlotPlayer1, 733))
	store.AddPlayer(newPlayer(matchtypes.SlotPlayer2, 0))
	store.AddWin(matchtypes.SlotPlayer1)
	store.AddWin(matchtypes.SlotPlayer1)
	store.AddWin(matchtypes.SlotPlayer2)

	store.ResetMatch()

	require.Equal(t, matchtypes.Score{matchtypes.SlotPlayer1: 0, matchtypes.SlotPlayer2: 0}, store.Score())

	p1, _ := store.Player(matchtypes.SlotPlayer1)
	p2, _ := store.Player(matchtypes.SlotPlayer2)
	require.Equal(t, float64(733), p1.Health)
	require.True(t, p1.Alive)
	require.Equal(t, float64(0), p2.Health)
	require.False(t, p2.Alive)
}

func TestOverwriteScoreIsExact(t *testing.T) {
	store := New()
	store.AddWin(matchtypes.SlotPlayer1)

	authoritative := matchtypes.Score{matchtypes.SlotPlayer1: 1, matchtypes.SlotPlayer2: 0}
	store.OverwriteScore(authoritative)
	store.OverwriteScore(authoritative)

	require.Equal(t, 1, store.Score()[matchtypes.SlotPlayer1])
	require.Equal(t, 0, store.Score()[matchtypes.SlotPlayer2])

	// The store keeps its own copy.
	authoritative[matchtypes.SlotPlayer1] = 99
	require.Equal(t, 1, store.Score()[matchtypes.SlotPlayer1])
}

func TestBeginMatchResetsIdentityNotScore(t *testing.T) {
	store := New()
	store.AddPlayer(newPlayer(matchtypes.SlotPlayer1, 1000))
	store.AddWin(matchtypes.SlotPlayer1)
	store.SetRoundWinner(matchtypes.SlotPlayer1)
	store.SetMatchWinner(matchtypes.SlotPlayer1)

	mode := matchtypes.DefaultModes()[matchtypes.ModeTournament]
	store.BeginMatch("match-2", mode, matchtypes.SlotPlayer1)

	require.Equal(t, 0, store.PlayerCount())
	require.Equal(t, "match-2", store.MatchID())
	require.Equal(t, mode, store.Mode())
	require.Equal(t, 1, store.Round())
	require.Equal(t, matchtypes.SlotID(""), store.RoundWinner())
	// Score survives; clearing it is an explicit, separate reset.
	require.Equal(t, 1, store.Score()[matchtypes.SlotPlayer1])
}

func TestTryResolveRoundGuardsDuplicates(t *testing.T) {
	store := New()
	require.True(t, store.TryResolveRound(1))
	require.False(t, store.TryResolveRound(1))

	store.NextRound()
	require.True(t, store.TryResolveRound(2))
	require.False(t, store.TryResolveRound(2))
	require.False(t, store.TryResolveRound(1))
}

func TestHealAll(t *testing.T) {
	store := New()
	store.AddPlayer(newPlayer(matchtypes.SlotPlayer1, 120))
	defeated := newPlayer(matchtypes.SlotPlayer2, 0)
	defeated.State = matchtypes.FighterDefeated
	store.AddPlayer(defeated)

	store.HealAll()

	for _, slot := range matchtypes.Slots() {
		p, _ := store.Player(slot)
		require.Equal(t, p.MaxHealth, p.Health)
		require.True(t, p.Alive)
		require.Equal(t, matchtypes.FighterIdle, p.State)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	store := New()
	store.AddPlayer(newPlayer(matchtypes.SlotPlayer1, 900))
	store.AddPlayer(newPlayer(matchtypes.SlotPlayer2, 1000))
	store.SetPhase(matchtypes.PhasePlaying)
	store.AddWin(matchtypes.SlotPlayer1)

	snap := store.Snapshot()

	// Mutating the snapshot must not leak into the store.
	p := snap.Players[matchtypes.SlotPlayer1]
	p.Health = 1
	snap.Players[matchtypes.SlotPlayer1] = p
	snap.Score[matchtypes.SlotPlayer1] = 42

	stored := store.Snapshot()
	require.Equal(t, float64(900), stored.Players[matchtypes.SlotPlayer1].Health)
	require.Equal(t, 1, stored.Score[matchtypes.SlotPlayer1])

	// Two consecutive snapshots agree on content.
	if diff := cmp.Diff(stored, store.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestClearRoundState(t *testing.T) {
	store := New()
	store.SetPhase(matchtypes.PhaseRoundEnd)
	store.SetRoundWinner(matchtypes.SlotPlayer1)
	store.SetMatchWinner(matchtypes.SlotPlayer1)
	store.AddWin(matchtypes.SlotPlayer1)

	store.ClearRoundState()

	require.Equal(t, matchtypes.PhaseIdle, store.Phase())
	require.Equal(t, matchtypes.SlotID(""), store.RoundWinner())
	require.Equal(t, 1, store.Score()[matchtypes.SlotPlayer1])
}
