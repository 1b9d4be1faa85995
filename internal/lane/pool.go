package lane

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/state"
)

// Size is the fixed number of lanes.
const Size = state.MaxSelection

// ErrNoFreeLane is returned by Allocate when every lane is in use.
var ErrNoFreeLane = errors.New("no free lane")

// Options tunes the actors.
type Options struct {
	// FetchLimit caps events per FilterLogEvents call; 0 lets the service decide.
	FetchLimit int32
	// TailLookback is how far back a new tail starts.
	TailLookback time.Duration
	// GroupPrefix narrows the log-group listing.
	GroupPrefix string
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Pool owns the lanes, their actors and the log-group actor.
type Pool struct {
	client  Client
	opts    Options
	log     logrus.FieldLogger
	sidebar *state.Sidebar
	lanes   [Size]*lane
	groupCh chan groupsCmd

	mu   sync.Mutex
	free [Size]bool

	eg     *errgroup.Group
	cancel context.CancelFunc
}

// NewPool creates a pool with all lanes free. Actors run after Start.
func NewPool(c Client, sidebar *state.Sidebar, opts Options, log logrus.FieldLogger) *Pool {
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := &Pool{
		client:  c,
		opts:    opts,
		log:     log,
		sidebar: sidebar,
		groupCh: make(chan groupsCmd, 1),
	}
	for i := range p.lanes {
		p.lanes[i] = newLane(i, c, opts, log)
		p.free[i] = true
	}
	return p
}

// Start launches the paged-fetch and tail actors of every lane plus the
// log-group actor. They stop on Abort or when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	eg, ctx := errgroup.WithContext(ctx)
	p.eg = eg
	for _, l := range p.lanes {
		eg.Go(func() error { return l.runFetch(ctx) })
		eg.Go(func() error { return l.runTail(ctx) })
		eg.Go(func() error { return l.runOutbox(ctx) })
	}
	eg.Go(func() error { return p.runGroups(ctx) })
}

// Wait blocks until every actor returned.
func (p *Pool) Wait() error {
	if p.eg == nil {
		return nil
	}
	return p.eg.Wait()
}

// Pane returns the state of lane i.
func (p *Pool) Pane(i int) *state.Pane {
	return p.lanes[i].pane
}

// Allocate claims the lowest free lane.
func (p *Pool) Allocate() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, f := range p.free {
		if f {
			p.free[i] = false
			return i, nil
		}
	}
	return -1, ErrNoFreeLane
}

// Free resets lane i and returns it to the pool. The returned command tells
// the lane's actors to drop the tail state of the old owner; queue it with
// Send.
func (p *Pool) Free(i int) (FetchCmd, error) {
	if i < 0 || i >= Size {
		return FetchCmd{}, fmt.Errorf("lane %d out of range", i)
	}
	gen := p.lanes[i].pane.Release()
	p.mu.Lock()
	p.free[i] = true
	p.mu.Unlock()
	return FetchCmd{Kind: FetchRelease, Generation: gen}, nil
}

// InUse reports how many lanes are allocated.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, f := range p.free {
		if !f {
			n++
		}
	}
	return n
}

// Send queues cmd for lane i's paged-fetch actor and returns at once.
// Commands sent to one lane reach its actor in the order they were sent.
func (p *Pool) Send(i int, cmd FetchCmd) error {
	if i < 0 || i >= Size {
		return fmt.Errorf("lane %d out of range", i)
	}
	p.lanes[i].enqueue(cmd)
	return nil
}

// Tick broadcasts a tail tick. A lane whose previous command is still
// queued misses this tick.
func (p *Pool) Tick() {
	for _, l := range p.lanes {
		select {
		case l.tailCh <- TailCmd{Kind: TailTick}:
		default:
		}
	}
}

// Abort asks every actor to stop, then cancels the actor context. Sends
// that cannot be delivered before ctx ends are skipped.
func (p *Pool) Abort(ctx context.Context) {
	for _, l := range p.lanes {
		select {
		case l.fetchCh <- FetchCmd{Kind: FetchAbort}:
		case <-ctx.Done():
		}
		select {
		case l.tailCh <- TailCmd{Kind: TailAbort}:
		case <-ctx.Done():
		}
	}
	select {
	case p.groupCh <- groupsCmd{abort: true}:
	case <-ctx.Done():
	}
	if p.cancel != nil {
		p.cancel()
	}
}
