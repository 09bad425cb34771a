package registry

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nlcmd/cli/internal/core/domain"
)

// resolutionCache memoizes verb resolution outcomes under the normalized
// verb text, including explicit no-match entries stored as nil. Stale
// entries are a correctness bug, so the registry purges the cache on
// every mutation.
type resolutionCache struct {
	entries *lru.Cache[string, *domain.Plugin]
}

func newResolutionCache(size int) *resolutionCache {
	entries, err := lru.New[string, *domain.Plugin](size)
	if err != nil {
		// lru.New only fails on a non-positive size, which the
		// registry config normalizes away.
		panic(err)
	}
	return &resolutionCache{entries: entries}
}

func (c *resolutionCache) get(verb string) (*domain.Plugin, bool) {
	return c.entries.Get(verb)
}

func (c *resolutionCache) put(verb string, p *domain.Plugin) {
	c.entries.Add(verb, p)
}

func (c *resolutionCache) purge() {
	c.entries.Purge()
}

func (c *resolutionCache) len() int {
	return c.entries.Len()
}
