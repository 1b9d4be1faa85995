package lane

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

type groupsCmd struct {
	abort bool
}

// FetchGroups asks the log-group actor to reload the sidebar listing.
func (p *Pool) FetchGroups(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.groupCh <- groupsCmd{}:
		return nil
	}
}

func (p *Pool) runGroups(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-p.groupCh:
			if cmd.abort {
				return nil
			}
			p.loadGroups(ctx)
		}
	}
}

// loadGroups pages through every log group, pushing each page into the
// sidebar as it arrives.
func (p *Pool) loadGroups(ctx context.Context) {
	log := p.log.WithField("prefix", p.opts.GroupPrefix)
	p.sidebar.ResetGroups()
	p.sidebar.SetError(nil)
	p.sidebar.SetFetching(true)
	defer p.sidebar.SetFetching(false)

	var next *string
	pages := 0
	for {
		page, token, err := p.client.ListLogGroups(ctx, p.opts.GroupPrefix, 0, next)
		if err != nil {
			p.sidebar.SetError(err)
			log.WithError(err).Error("list log groups failed")
			return
		}
		pages++
		done := token == nil || (next != nil && aws.ToString(token) == aws.ToString(next))
		p.sidebar.PushGroups(page, !done)
		if done || ctx.Err() != nil {
			break
		}
		next = token
	}
	log.WithField("pages", pages).Debug("log groups loaded")
}
