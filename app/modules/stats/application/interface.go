package statsservice

import (
	"context"
	"io"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	statstypes "github.com/duelyard/fightcore/app/modules/stats/domain/types"
	"github.com/duelyard/fightcore/app/modules/stats/infrastructure/statsfile"
	"github.com/duelyard/fightcore/app/shared"
)

// Service is the stats module's application interface: a pure observer over
// the match fact stream plus read surfaces for reports.
type Service interface {
	ObserveMatchStart(ctx context.Context, payload matchevents.GameStartedPayload) (shared.OperationResult, error)
	ObserveHealth(ctx context.Context, payload matchevents.PlayerHealthChangedPayload) (shared.OperationResult, error)
	ObserveRoundEnded(ctx context.Context, payload matchevents.RoundEndedPayload) (shared.OperationResult, error)
	ObserveGameOver(ctx context.Context, payload matchevents.GameOverPayload) (shared.OperationResult, error)
	Tally() statstypes.SessionTally
	Session() statstypes.SessionLog
	TimelinePNG(w io.Writer) error
	FileSummary() (statsfile.Summary, error)
}
