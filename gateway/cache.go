package gateway

import (
	"crypto/sha256"
	"fmt"
	"time"

	"catch-guard/contract"
	"catch-guard/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// VerdictCache keeps successful moderation results for identical content so
// redelivered or duplicated requests do not re-spend the rate budget.
// Keying on the content hash means edited content naturally misses the cache.
type VerdictCache struct {
	data *expirable.LRU[string, domain.Result]
}

func NewVerdictCache(capacity int, ttl time.Duration) *VerdictCache {
	return &VerdictCache{
		data: expirable.NewLRU[string, domain.Result](capacity, nil, ttl),
	}
}

func cacheKey(contentType domain.ContentType, content string) string {
	return fmt.Sprintf("%s/%x", contentType, sha256.Sum256([]byte(content)))
}

func (c *VerdictCache) Get(contentType domain.ContentType, content string) (domain.Result, bool) {
	return c.data.Get(cacheKey(contentType, content))
}

func (c *VerdictCache) Set(contentType domain.ContentType, content string, result domain.Result) {
	c.data.Add(cacheKey(contentType, content), result)
}

type nopCache struct{}

func (nopCache) Get(domain.ContentType, string) (domain.Result, bool) { return domain.Result{}, false }
func (nopCache) Set(domain.ContentType, string, domain.Result)        {}

// NewNopCache returns the cache used when caching is disabled.
func NewNopCache() contract.ResultCache { return nopCache{} }
