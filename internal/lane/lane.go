package lane

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/model"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/state"
)

// lane binds one pane to its paged-fetch and tail actors.
type lane struct {
	id      int
	pane    *state.Pane
	client  Client
	opts    Options
	log     logrus.FieldLogger
	fetchCh chan FetchCmd
	tailCh  chan TailCmd

	// commands waiting for the paged-fetch actor, oldest first
	outMu  sync.Mutex
	outbox []FetchCmd
	outSig chan struct{}

	// owned by the fetch actor
	tailing bool

	// owned by the tail actor
	tail tailState
}

type tailState struct {
	active bool
	gen    uint64
	search model.SearchCondition
	since  int64
	from   int64
}

func newLane(id int, c Client, opts Options, log logrus.FieldLogger) *lane {
	return &lane{
		id:      id,
		pane:    state.NewPane(),
		client:  c,
		opts:    opts,
		log:     log.WithField("lane", id),
		fetchCh: make(chan FetchCmd, 1),
		tailCh:  make(chan TailCmd, 1),
		outSig:  make(chan struct{}, 1),
	}
}

// enqueue appends cmd to the outbox without blocking.
func (l *lane) enqueue(cmd FetchCmd) {
	l.outMu.Lock()
	l.outbox = append(l.outbox, cmd)
	l.outMu.Unlock()
	select {
	case l.outSig <- struct{}{}:
	default:
	}
}

func (l *lane) dequeue() (FetchCmd, bool) {
	l.outMu.Lock()
	defer l.outMu.Unlock()
	if len(l.outbox) == 0 {
		return FetchCmd{}, false
	}
	cmd := l.outbox[0]
	l.outbox = l.outbox[1:]
	return cmd, true
}

// runOutbox hands queued commands to the paged-fetch actor in order.
func (l *lane) runOutbox(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.outSig:
		}
		for {
			cmd, ok := l.dequeue()
			if !ok {
				break
			}
			select {
			case <-ctx.Done():
				return nil
			case l.fetchCh <- cmd:
			}
		}
	}
}

func (l *lane) runFetch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-l.fetchCh:
			if !l.handleFetch(ctx, cmd) {
				return nil
			}
		}
	}
}

// handleFetch processes one command and reports whether the actor goes on.
func (l *lane) handleFetch(ctx context.Context, cmd FetchCmd) bool {
	switch cmd.Kind {
	case FetchAbort:
		return false
	case FetchRelease:
		if l.tailing {
			l.tailing = false
			l.sendTail(ctx, TailCmd{Kind: TailStop, Generation: cmd.Generation})
		}
	case FetchPage:
		l.fetchPage(ctx, cmd)
	}
	return true
}

func (l *lane) fetchPage(ctx context.Context, cmd FetchCmd) {
	if cmd.Search.IsTail() {
		l.tailing = true
		l.sendTail(ctx, TailCmd{Kind: TailStart, Group: cmd.Group, Cursor: cmd.Cursor, Search: cmd.Search, Generation: l.pane.Generation()})
		return
	}
	if l.tailing {
		l.tailing = false
		l.sendTail(ctx, TailCmd{Kind: TailStop, Generation: l.pane.Generation()})
	}

	t := l.pane.BeginFetch(cmd.Group, cmd.Cursor, cmd.Search, cmd.Reset)
	rng := cmd.Search.Mode.ResolveRange(l.opts.now())
	recs, next, err := l.client.FetchLogEvents(ctx, cmd.Group, cmd.Cursor, rng, cmd.Search.Query, l.opts.FetchLimit)
	l.complete(t, state.Result{Records: recs, Next: next, Err: err})
}

func (l *lane) complete(t state.Ticket, res state.Result) {
	out := l.pane.Complete(t, res)
	entry := l.log.WithField("group", t.Group)
	switch {
	case !out.Applied:
		entry.Debug("dropped result of a reset pane")
	case res.Err != nil:
		entry.WithError(res.Err).Error("fetch log events failed")
	case !out.Stitched && !t.Tail:
		entry.Warnf("page shares no event with %s; appended anyway", t.Group)
	default:
		entry.WithField("appended", out.Appended).Debug("merged page")
	}
}

func (l *lane) sendTail(ctx context.Context, cmd TailCmd) {
	select {
	case <-ctx.Done():
	case l.tailCh <- cmd:
	}
}

func (l *lane) runTail(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-l.tailCh:
			if !l.handleTail(ctx, cmd) {
				return nil
			}
		}
	}
}

func (l *lane) handleTail(ctx context.Context, cmd TailCmd) bool {
	switch cmd.Kind {
	case TailAbort:
		return false
	case TailStart:
		gen, ok := l.pane.StartTail(cmd.Generation, cmd.Group, cmd.Cursor, cmd.Search)
		if !ok {
			l.tail.active = false
			l.log.WithField("group", cmd.Group).Debug("dropped tail start of a released pane")
			return true
		}
		since := l.opts.now().Add(-l.opts.TailLookback).UnixMilli()
		l.tail = tailState{active: true, gen: gen, search: cmd.Search, since: since, from: since}
		l.log.WithField("group", cmd.Group).Info("tail started")
	case TailStop:
		if l.tail.active && l.tail.gen == cmd.Generation {
			l.tail.active = false
			l.pane.ResetIf(cmd.Generation)
		}
	case TailTick:
		l.tick(ctx)
	}
	return true
}

// tick performs at most one tail fetch. A tick arriving while a fetch is in
// flight makes no call.
func (l *lane) tick(ctx context.Context) {
	if !l.tail.active {
		return
	}
	t, ok := l.pane.TryBeginTail(l.tail.gen, l.tail.search)
	if !ok {
		if l.pane.Generation() != l.tail.gen {
			l.tail.active = false
		}
		return
	}
	if t.Cursor == nil {
		from := l.tail.since
		if t.LastTimestamp != nil && *t.LastTimestamp > from {
			from = *t.LastTimestamp
		}
		l.tail.from = from
	}
	from := l.tail.from
	rng := model.TimeRange{From: &from}
	recs, next, err := l.client.FetchLogEvents(ctx, t.Group, t.Cursor, rng, t.Search.Query, l.opts.FetchLimit)
	l.complete(t, state.Result{Records: recs, Next: next, Err: err})
}
