package recognizer

import "sync"

// dictCache is the process-wide dictionary cache of spec §5: read-
// shared among Sessions, writes require exclusive access externally
// enforced. It is never created by a package init(): InitDictCache
// creates it, and every accessor below calls InitDictCache first, so an
// explicit call is optional.
type dictCache struct {
	mu    sync.RWMutex
	dicts map[string]Dictionary
}

var (
	globalCache     *dictCache
	globalCacheOnce sync.Once
)

// InitDictCache lazily creates the process-wide cache on first call and
// is safe to call from multiple goroutines; later calls are no-ops.
func InitDictCache() {
	globalCacheOnce.Do(func() {
		globalCache = &dictCache{dicts: make(map[string]Dictionary)}
	})
}

func cache() *dictCache {
	InitDictCache()
	return globalCache
}

// LoadDictionary registers d under language lang, replacing any
// previously loaded dictionary for that language.
func LoadDictionary(lang string, d Dictionary) {
	c := cache()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dicts[lang] = d
}

// LookupDictionary returns the dictionary loaded for lang, if any.
func LookupDictionary(lang string) (Dictionary, bool) {
	c := cache()
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.dicts[lang]
	return d, ok
}

// ClearPersistentCache globally frees all loaded dictionaries. Per spec
// §5, this must be called only when no Session holds a Dict reference.
func ClearPersistentCache() {
	c := cache()
	c.mu.Lock()
	defer c.mu.Unlock()
	for lang, d := range c.dicts {
		d.Release()
		delete(c.dicts, lang)
	}
}
