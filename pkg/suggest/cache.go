package suggest

import (
	"math"
	"slices"
	"sync"

	"github.com/bastiangx/typeahead/pkg/term"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// HotCache keeps the ranked results of recently queried prefixes.
// Entries never go stale since the catalogue behind a Completer is immutable.
type HotCache struct {
	hotTrie     *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

func NewHotCache(maxEntries int) *HotCache {
	return &HotCache{
		hotTrie:    patricia.NewTrie(),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns a copy of the cached results for prefix.
func (hc *HotCache) Get(prefix string) ([]term.Term, bool) {
	if hc == nil || hc.maxEntries <= 0 {
		return nil, false
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	item := hc.hotTrie.Get(patricia.Prefix(prefix))
	if item == nil {
		hc.misses++
		return nil, false
	}
	hc.hits++
	hc.markAccessed(prefix)
	return slices.Clone(item.([]term.Term)), true
}

// Put stores a copy of results for prefix, evicting the least recently used
// prefix when the cache is full.
func (hc *HotCache) Put(prefix string, results []term.Term) {
	if hc == nil || hc.maxEntries <= 0 {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	key := patricia.Prefix(prefix)
	if _, exists := hc.accessTime[prefix]; !exists && len(hc.accessTime) >= hc.maxEntries {
		hc.evictLRU()
	}
	hc.hotTrie.Set(key, slices.Clone(results))
	hc.markAccessed(prefix)
}

// Len returns the number of cached prefixes.
func (hc *HotCache) Len() int {
	if hc == nil {
		return 0
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return len(hc.accessTime)
}

func (hc *HotCache) Stats() map[string]int {
	if hc == nil {
		return map[string]int{}
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"hotCacheEntries": len(hc.accessTime),
		"maxHotEntries":   hc.maxEntries,
		"hotCacheHits":    int(hc.hits),
		"hotCacheMisses":  int(hc.misses),
	}
}

func (hc *HotCache) markAccessed(prefix string) {
	hc.accessCount++
	hc.accessTime[prefix] = hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldest string
	var oldestTime int64 = math.MaxInt64

	for prefix, accessTime := range hc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldest = prefix
		}
	}

	if oldestTime != math.MaxInt64 {
		hc.hotTrie.Delete(patricia.Prefix(oldest))
		delete(hc.accessTime, oldest)
		log.Debugf("Evicted prefix '%s' from hot cache", oldest)
	}
}
