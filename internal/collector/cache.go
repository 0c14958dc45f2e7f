package collector

import (
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CacheWindow is how long a received event stays visible in the
// recent-events view.
const CacheWindow = 30 * time.Minute

// RecentCache keeps the events received within the cache window, for
// the operator's recent-events endpoint. Entries expire on their own;
// nothing here is durable.
type RecentCache struct {
	cache *gocache.Cache
	seq   atomic.Int64
}

// NewRecentCache creates an empty cache with the standard window.
func NewRecentCache() *RecentCache {
	return &RecentCache{
		cache: gocache.New(CacheWindow, 5*time.Minute),
	}
}

// Add records a received event.
func (rc *RecentCache) Add(ev ReceivedEvent) {
	ev.seq = rc.seq.Add(1)
	rc.cache.Set(strconv.FormatInt(ev.seq, 10), ev, gocache.DefaultExpiration)
}

// Recent returns the unexpired events, newest first.
func (rc *RecentCache) Recent() []ReceivedEvent {
	items := rc.cache.Items()
	events := make([]ReceivedEvent, 0, len(items))
	for _, item := range items {
		if ev, ok := item.Object.(ReceivedEvent); ok {
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].seq > events[j].seq
	})
	return events
}

// Len returns the number of unexpired events.
func (rc *RecentCache) Len() int {
	return rc.cache.ItemCount()
}
