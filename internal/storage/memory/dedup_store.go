package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"whalecaster/internal/storage"
)

// DedupStore is a TTL-bound LRU of delivered alert keys.
type DedupStore struct {
	mu    sync.Mutex
	cap   int
	ttl   time.Duration
	ll    *list.List               // most-recent at front
	items map[string]*list.Element // key -> element
	now   func() time.Time
}

type dedupEntry struct {
	key string
	exp time.Time
}

// NewDedupStore creates an in-memory dedup store. Defaults: 10000 keys, 24h TTL.
func NewDedupStore(maxKeys int, ttl time.Duration) *DedupStore {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DedupStore{
		cap:   maxKeys,
		ttl:   ttl,
		ll:    list.New(),
		items: make(map[string]*list.Element, maxKeys),
		now:   time.Now,
	}
}

// Seen reports whether key was marked within the TTL window.
func (d *DedupStore) Seen(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	el, ok := d.items[key]
	if !ok {
		return false
	}
	en := el.Value.(dedupEntry)
	if d.now().Before(en.exp) {
		d.ll.MoveToFront(el)
		return true
	}
	// expired
	d.ll.Remove(el)
	delete(d.items, key)
	return false
}

// Mark records key as delivered, refreshing its TTL if already present.
func (d *DedupStore) Mark(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.items[key]; ok {
		en := el.Value.(dedupEntry)
		en.exp = d.now().Add(d.ttl)
		el.Value = en
		d.ll.MoveToFront(el)
		return
	}

	el := d.ll.PushFront(dedupEntry{key: key, exp: d.now().Add(d.ttl)})
	d.items[key] = el

	// Evict over capacity, then drop expired entries at the tail.
	for d.ll.Len() > d.cap {
		tail := d.ll.Back()
		if tail == nil {
			break
		}
		d.ll.Remove(tail)
		delete(d.items, tail.Value.(dedupEntry).key)
	}
	for {
		tail := d.ll.Back()
		if tail == nil || d.now().Before(tail.Value.(dedupEntry).exp) {
			break
		}
		d.ll.Remove(tail)
		delete(d.items, tail.Value.(dedupEntry).key)
	}
}

// Verify interface compliance at compile time.
var _ storage.DedupStore = (*DedupStore)(nil)
