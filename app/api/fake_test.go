package api

import (
	"context"
	"io"

	"github.com/ThreeDotsLabs/watermill/message"

	matchservice "github.com/duelyard/fightcore/app/modules/match/application"
	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	matchhud "github.com/duelyard/fightcore/app/modules/match/domain/hud"
	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	pauseservice "github.com/duelyard/fightcore/app/modules/pause/application"
	pauseevents "github.com/duelyard/fightcore/app/modules/pause/domain/events"
	statsservice "github.com/duelyard/fightcore/app/modules/stats/application"
	statstypes "github.com/duelyard/fightcore/app/modules/stats/domain/types"
	"github.com/duelyard/fightcore/app/modules/stats/infrastructure/statsfile"
	"github.com/duelyard/fightcore/app/shared"
)

// FakeMatchService implements matchservice.Service for handler tests.
type FakeMatchService struct {
	SnapshotFunc func() matchtypes.Snapshot
	ViewFunc     func() matchhud.View
}

func (f *FakeMatchService) ResetMatch(ctx context.Context) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) StartGame(ctx context.Context, payload matchevents.GameStartedPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) ApplyTick(ctx context.Context, payload matchevents.RoundTimerPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) ApplyDamage(ctx context.Context, payload matchevents.FighterDamagedPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) ResolveDefeat(ctx context.Context, payload matchevents.FighterDefeatedPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) ApplyRoundEnded(ctx context.Context, payload matchevents.RoundEndedPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) ApplyGameOver(ctx context.Context, payload matchevents.GameOverPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) HandleSceneReady(ctx context.Context, payload matchevents.SceneReadyPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) HandleExitToMenu(ctx context.Context, payload pauseevents.GameExitToMenuPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeMatchService) Snapshot() matchtypes.Snapshot {
	if f.SnapshotFunc != nil {
		return f.SnapshotFunc()
	}
	return matchtypes.Snapshot{}
}

func (f *FakeMatchService) View() matchhud.View {
	if f.ViewFunc != nil {
		return f.ViewFunc()
	}
	return matchhud.View{}
}

// FakePauseService implements pauseservice.Service and records calls.
type FakePauseService struct {
	Calls []string

	PauseFunc        func(ctx context.Context, mode, contextName string) (shared.OperationResult, error)
	ResumeFunc       func(ctx context.Context) (shared.OperationResult, error)
	ReturnToMenuFunc func(ctx context.Context) (shared.OperationResult, error)
	StateFunc        func() pauseservice.State
}

func (f *FakePauseService) Pause(ctx context.Context, mode, contextName string) (shared.OperationResult, error) {
	f.Calls = append(f.Calls, "Pause("+mode+","+contextName+")")
	if f.PauseFunc != nil {
		return f.PauseFunc(ctx, mode, contextName)
	}
	return shared.OperationResult{}, nil
}

func (f *FakePauseService) Resume(ctx context.Context) (shared.OperationResult, error) {
	f.Calls = append(f.Calls, "Resume")
	if f.ResumeFunc != nil {
		return f.ResumeFunc(ctx)
	}
	return shared.OperationResult{}, nil
}

func (f *FakePauseService) ReturnToMenu(ctx context.Context) (shared.OperationResult, error) {
	f.Calls = append(f.Calls, "ReturnToMenu")
	if f.ReturnToMenuFunc != nil {
		return f.ReturnToMenuFunc(ctx)
	}
	return shared.OperationResult{}, nil
}

func (f *FakePauseService) State() pauseservice.State {
	if f.StateFunc != nil {
		return f.StateFunc()
	}
	return pauseservice.State{}
}

// FakeStatsService implements statsservice.Service for handler tests.
type FakeStatsService struct {
	TallyFunc       func() statstypes.SessionTally
	SessionFunc     func() statstypes.SessionLog
	TimelinePNGFunc func(w io.Writer) error
	FileSummaryFunc func() (statsfile.Summary, error)
}

func (f *FakeStatsService) ObserveMatchStart(ctx context.Context, payload matchevents.GameStartedPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeStatsService) ObserveHealth(ctx context.Context, payload matchevents.PlayerHealthChangedPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeStatsService) ObserveRoundEnded(ctx context.Context, payload matchevents.RoundEndedPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeStatsService) ObserveGameOver(ctx context.Context, payload matchevents.GameOverPayload) (shared.OperationResult, error) {
	return shared.OperationResult{}, nil
}

func (f *FakeStatsService) Tally() statstypes.SessionTally {
	if f.TallyFunc != nil {
		return f.TallyFunc()
	}
	return statstypes.SessionTally{}
}

func (f *FakeStatsService) Session() statstypes.SessionLog {
	if f.SessionFunc != nil {
		return f.SessionFunc()
	}
	return statstypes.SessionLog{}
}

func (f *FakeStatsService) TimelinePNG(w io.Writer) error {
	if f.TimelinePNGFunc != nil {
		return f.TimelinePNGFunc(w)
	}
	return nil
}

func (f *FakeStatsService) FileSummary() (statsfile.Summary, error) {
	if f.FileSummaryFunc != nil {
		return f.FileSummaryFunc()
	}
	return statsfile.Summary{}, nil
}

type publishedFact struct {
	Topic   string
	Payload []byte
}

// FakeEventBus captures published facts.
type FakeEventBus struct {
	Published   []publishedFact
	PublishFunc func(topic string, messages ...*message.Message) error
}

func (f *FakeEventBus) Publish(topic string, messages ...*message.Message) error {
	if f.PublishFunc != nil {
		return f.PublishFunc(topic, messages...)
	}
	for _, msg := range messages {
		f.Published = append(f.Published, publishedFact{Topic: topic, Payload: msg.Payload})
	}
	return nil
}

func (f *FakeEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (f *FakeEventBus) Close() error { return nil }

var _ matchservice.Service = (*FakeMatchService)(nil)
var _ pauseservice.Service = (*FakePauseService)(nil)
var _ statsservice.Service = (*FakeStatsService)(nil)
var _ shared.EventBus = (*FakeEventBus)(nil)
