// Package tasks runs one update pass over the subscribed podcasts on a
// bounded worker pool. Each podcast is enqueued exactly once per pass, so
// updates for the same podcast never race while different podcasts update in
// parallel.
package tasks

import (
	"context"
	"time"
)

type Task interface {
	Execute(ctx context.Context) error
	Name() string
	Start()
}

type base struct {
	name      string
	startedAt time.Time
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Start() {
	b.startedAt = time.Now()
}

func (b *base) duration() time.Duration {
	if b.startedAt.IsZero() {
		return 0
	}
	return time.Since(b.startedAt)
}
