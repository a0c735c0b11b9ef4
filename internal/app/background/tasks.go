package background

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
)

// FeedHealthListener is told the outcome of every feed probe.
type FeedHealthListener interface {
	SetFeedUp(up bool)
}

type BackgroundTasks struct {
	Feed          domain.PriceFeed
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
	Listeners     []FeedHealthListener

	feedUp atomic.Bool
}

func NewBackgroundTasks(feed domain.PriceFeed, probeInterval time.Duration, listeners ...FeedHealthListener) *BackgroundTasks {
	bt := &BackgroundTasks{
		Feed:          feed,
		ProbeInterval: probeInterval,
		ProbeTimeout:  5 * time.Second,
		Listeners:     listeners,
	}
	bt.feedUp.Store(true)
	return bt
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startFeedProbe(ctx)
}

// FeedUp reports the last probe outcome. It is true until the first probe fails.
func (bt *BackgroundTasks) FeedUp() bool {
	return bt.feedUp.Load()
}

func (bt *BackgroundTasks) startFeedProbe(ctx context.Context) {
	bt.ProbeFeed(ctx)

	ticker := time.NewTicker(bt.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.ProbeFeed(ctx)
		}
	}
}

// ProbeFeed pings the feed once and notifies the listeners.
func (bt *BackgroundTasks) ProbeFeed(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, bt.ProbeTimeout)
	defer cancel()

	err := bt.Feed.Ping(probeCtx)
	up := err == nil
	if was := bt.feedUp.Swap(up); was != up {
		if up {
			slog.Info("price feed recovered")
		} else {
			slog.Warn("price feed unreachable, quotes will degrade", "error", err)
		}
	}
	for _, l := range bt.Listeners {
		l.SetFeedUp(up)
	}
	return up
}
