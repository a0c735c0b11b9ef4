package background

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFeed struct {
	mu    sync.Mutex
	err   error
	pings int
}

func (f *pingFeed) SimplePrice(context.Context, domain.PriceRequest) (domain.PriceTable, error) {
	return nil, errors.New("not used")
}

func (f *pingFeed) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.err
}

func (f *pingFeed) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *pingFeed) pingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

type recordingListener struct {
	mu     sync.Mutex
	states []bool
}

func (l *recordingListener) SetFeedUp(up bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, up)
}

func TestProbeFeed(t *testing.T) {
	feed := &pingFeed{}
	listener := &recordingListener{}
	bt := NewBackgroundTasks(feed, time.Minute, listener)
	require.True(t, bt.FeedUp())

	feed.setErr(domain.ErrFeedUnavailable)
	assert.False(t, bt.ProbeFeed(context.Background()))
	assert.False(t, bt.FeedUp())

	feed.setErr(nil)
	assert.True(t, bt.ProbeFeed(context.Background()))
	assert.True(t, bt.FeedUp())

	assert.Equal(t, []bool{false, true}, listener.states)
}

func TestStartAll_ProbesUntilCancelled(t *testing.T) {
	feed := &pingFeed{}
	bt := NewBackgroundTasks(feed, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	bt.StartAll(ctx)
	require.Eventually(t, func() bool { return feed.pingCount() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := feed.pingCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, feed.pingCount())
}
