package history

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
)

// contentCacheSize bounds the number of decoded snapshots held in memory.
const contentCacheSize = 128

// ContentCache fronts ExtractText with an LRU keyed by path and modification
// time, for callers that decode the same snapshots repeatedly (the compare
// viewer paging through history, the watch loop). The mtime in the key makes
// stale hits impossible against an append-only store.
type ContentCache struct {
	entries *lru.Cache[string, SnapshotText]
}

// NewContentCache returns an empty cache.
func NewContentCache() *ContentCache {
	// lru.New only fails for a non-positive size.
	entries, _ := lru.New[string, SnapshotText](contentCacheSize)
	return &ContentCache{entries: entries}
}

func cacheKey(c Candidate) string {
	return c.Path + "|" + strconv.FormatInt(c.ModTime.UnixNano(), 10)
}

// Extract returns the candidate's decoded text, reading the file only on a
// cache miss.
func (cc *ContentCache) Extract(c Candidate) (SnapshotText, error) {
	key := cacheKey(c)
	if st, ok := cc.entries.Get(key); ok {
		return st, nil
	}
	st, err := ExtractText(c)
	if err != nil {
		return SnapshotText{}, err
	}
	cc.entries.Add(key, st)
	return st, nil
}

// Len reports how many decoded snapshots are currently cached.
func (cc *ContentCache) Len() int {
	return cc.entries.Len()
}
