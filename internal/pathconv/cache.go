package pathconv

type cacheEntry struct {
	path string
	ok   bool
}

// Cache memoizes resolution results by raw source identifier. Entries are
// only ever dropped all at once.
type Cache struct {
	entries map[string]cacheEntry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached result for raw. The last value reports whether an
// entry exists.
func (c *Cache) Get(raw string) (path string, ok bool, found bool) {
	e, found := c.entries[raw]
	return e.path, e.ok, found
}

// Put stores the result for raw.
func (c *Cache) Put(raw, path string, ok bool) {
	c.entries[raw] = cacheEntry{path: path, ok: ok}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of cached identifiers.
func (c *Cache) Len() int {
	return len(c.entries)
}
