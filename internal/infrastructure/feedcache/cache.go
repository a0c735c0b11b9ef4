// Package feedcache keeps raw upstream responses for a short while so that
// repeated lookups inside a revalidation window skip the network.
package feedcache

import (
	"context"
	"time"
)

// Cache stores response bodies by key. Get only returns entries younger than
// maxAge. Implementations treat their own failures as misses.
type Cache interface {
	Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, time.Duration) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte)                      {}
