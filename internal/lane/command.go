package lane

import (
	"context"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/model"
)

// Client is the log service as seen by the actors.
type Client interface {
	ListLogGroups(ctx context.Context, prefix string, limit int32, cursor *string) ([]model.LogGroupRecord, *string, error)
	FetchLogEvents(ctx context.Context, group string, cursor *string, rng model.TimeRange, query string, limit int32) ([]model.LogRecord, *string, error)
}

// FetchKind selects what a FetchCmd asks of the paged-fetch actor.
type FetchKind int

const (
	// FetchPage loads one page, or starts tailing when the condition is tail.
	FetchPage FetchKind = iota
	// FetchRelease drops tail state of the given generation.
	FetchRelease
	// FetchAbort ends the actor.
	FetchAbort
)

// FetchCmd is sent to a lane's paged-fetch actor.
type FetchCmd struct {
	Kind       FetchKind
	Group      string
	Cursor     *string
	Search     model.SearchCondition
	Reset      bool
	Generation uint64
}

// TailKind selects what a TailCmd asks of the tail actor.
type TailKind int

const (
	TailStart TailKind = iota
	TailStop
	TailTick
	TailAbort
)

// TailCmd is sent to a lane's tail actor. Start only binds a pane still at
// Generation, and Stop only applies while the actor still tails Generation.
type TailCmd struct {
	Kind       TailKind
	Group      string
	Cursor     *string
	Search     model.SearchCondition
	Generation uint64
}
