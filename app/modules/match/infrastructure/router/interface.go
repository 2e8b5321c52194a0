package matchrouter

import (
	"context"

	matchservice "github.com/duelyard/fightcore/app/modules/match/application"
)

// Router interface for match routing.
type Router interface {
	Configure(ctx context.Context, service matchservice.Service) error
	Close() error
}
