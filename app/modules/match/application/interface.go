package matchservice

import (
	"context"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchhud "github.com/duelyard/fightcore/app/modules/match/domain/hud"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	pauseevents "github.com/duelyard/fightcore/app/modules/pause/domain/events"
	"github.com/duelyard/fightcore/app/shared"
)

// Service is the match module's application interface: the round lifecycle
// controller plus read access for presentation observers.
type Service interface {
	ResetMatch(ctx context.Context) (shared.OperationResult, error)
	StartGame(ctx context.Context, payload matchevents.GameStartedPayload) (shared.OperationResult, error)
	ApplyTick(ctx context.Context, payload matchevents.RoundTimerPayload) (shared.OperationResult, error)
	ApplyDamage(ctx context.Context, payload matchevents.FighterDamagedPayload) (shared.OperationResult, error)
	ResolveDefeat(ctx context.Context, payload matchevents.FighterDefeatedPayload) (shared.OperationResult, error)
	ApplyRoundEnded(ctx context.Context, payload matchevents.RoundEndedPayload) (shared.OperationResult, error)
	ApplyGameOver(ctx context.Context, payload matchevents.GameOverPayload) (shared.OperationResult, error)
	HandleSceneReady(ctx context.Context, payload matchevents.SceneReadyPayload) (shared.OperationResult, error)
	HandleExitToMenu(ctx context.Context, payload pauseevents.GameExitToMenuPayload) (shared.OperationResult, error)
	Snapshot() matchtypes.Snapshot
	View() matchhud.View
}
