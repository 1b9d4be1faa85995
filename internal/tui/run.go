package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// abortTimeout bounds how long shutdown waits to deliver abort commands.
const abortTimeout = 2 * time.Second

// Run starts the program and blocks until the user quits. On return every
// lane has been told to abort.
func Run(opts Options) error {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	opts.Context = ctx

	interval := opts.TailInterval
	if interval <= 0 {
		interval = time.Second
	}
	go pumpTail(ctx, opts.Lanes, interval)

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	cancel()
	abortCtx, abortCancel := context.WithTimeout(context.Background(), abortTimeout)
	defer abortCancel()
	opts.Lanes.Abort(abortCtx)

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// pumpTail drives the tail actors. A lane still busy with the previous tick
// drops the next one.
func pumpTail(ctx context.Context, lanes Lanes, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			lanes.Tick()
		}
	}
}
