package matchhandlers

import (
	"context"

	matchservice "github.com/duelyard/fightcore/app/modules/match/application"
	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchhud "github.com/duelyard/fightcore/app/modules/match/domain/hud"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	pauseevents "github.com/duelyard/fightcore/app/modules/pause/domain/events"
	"github.com/duelyard/fightcore/app/shared"
)

// ------------------------
// Fake Match Service
// ------------------------

type FakeMatchService struct {
	trace []string

	ResetMatchFunc       func(ctx context.Context) (shared.OperationResult, error)
	StartGameFunc        func(ctx context.Context, payload matchevents.GameStartedPayload) (shared.OperationResult, error)
	ApplyTickFunc        func(ctx context.Context, payload matchevents.RoundTimerPayload) (shared.OperationResult, error)
	ApplyDamageFunc      func(ctx context.Context, payload matchevents.FighterDamagedPayload) (shared.OperationResult, error)
	ResolveDefeatFunc    func(ctx context.Context, payload matchevents.FighterDefeatedPayload) (shared.OperationResult, error)
	ApplyRoundEndedFunc  func(ctx context.Context, payload matchevents.RoundEndedPayload) (shared.OperationResult, error)
	ApplyGameOverFunc    func(ctx context.Context, payload matchevents.GameOverPayload) (shared.OperationResult, error)
	HandleSceneReadyFunc func(ctx context.Context, payload matchevents.SceneReadyPayload) (shared.OperationResult, error)
	HandleExitToMenuFunc func(ctx context.Context, payload pauseevents.GameExitToMenuPayload) (shared.OperationResult, error)
	SnapshotFunc         func() matchtypes.Snapshot
	ViewFunc             func() matchhud.View
}

func NewFakeMatchService() *FakeMatchService {
	return &FakeMatchService{trace: []string{}}
}

func (f *FakeMatchService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeMatchService) Trace() []string {
	return f.trace
}

// --- Service Interface Implementation ---

func (f *FakeMatchService) ResetMatch(ctx context.Context) (shared.OperationResult, error) {
	f.record("ResetMatch")
	if f.ResetMatchFunc != nil {
		return f.ResetMatchFunc(ctx)
	}
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) StartGame(ctx context.Context, payload matchevents.GameStartedPayload) (shared.OperationResult, error) {
	f.record("StartGame")
	if f.StartGameFunc != nil {
		return f.StartGameFunc(ctx, payload)
	}
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) ApplyTick(ctx context.Context, payload matchevents.RoundTimerPayload) (shared.OperationResult, error) {
	f.record("ApplyTick")
	if f.ApplyTickFunc != nil {
		return f.ApplyTickFunc(ctx, payload)
	}
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) ApplyDamage(ctx context.Context, payload matchevents.FighterDamagedPayload) (shared.OperationResult, error) {
	f.record("ApplyDamage")
	if f.ApplyDamageFunc != nil {
		return f.ApplyDamageFunc(ctx, payload)
	}
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) ResolveDefeat(ctx context.Context, payload matchevents.FighterDefeatedPayload) (shared.OperationResult, error) {
	f.record("ResolveDefeat")
	if f.ResolveDefeatFunc != nil {
		return f.ResolveDefeatFunc(ctx, payload)
	}
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) ApplyRoundEnded(ctx context.Context, payload matchevents.RoundEndedPayload) (shared.OperationResult, error) {
	f.record("ApplyRoundEnded")
	if f.ApplyRoundEndedFunc != nil {
		return f.ApplyRoundEndedFunc(ctx, payload)
	}
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) ApplyGameOver(ctx context.Context, payload matchevents.GameOverPayload) (shared.OperationResult, error) {
	f.record("ApplyGameOver")
	if f.ApplyGameOverFunc != nil {
		return f.ApplyGameOverFunc(ctx, payload)
	}
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) HandleSceneReady(ctx context.Context, payload matchevents.SceneReadyPayload) (shared.OperationResult, error) {
	f.record("HandleSceneReady")
	if f.HandleSceneReadyFunc != nil {
		return f.HandleSceneReadyFunc(ctx, payload)
	}
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) HandleExitToMenu(ctx context.Context, payload pauseevents.GameExitToMenuPayload) (shared.OperationResult, error) {
	f.record("HandleExitToMenu")
	if f.HandleExitToMenuFunc != nil {
		return f.HandleExitToMenuFunc(ctx, payload)
	}
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) Snapshot() matchtypes.Snapshot {
	f.record("Snapshot")
	if f.SnapshotFunc != nil {
		return f.SnapshotFunc()
	}
	return matchtypes.Snapshot{}
}

func (f *FakeMatchService) View() matchhud.View {
	f.record("View")
	if f.ViewFunc != nil {
		return f.ViewFunc()
	}
	return matchhud.View{}
}

var _ matchservice.Service = (*FakeMatchService)(nil)
