package middleware

import "github.com/gin-gonic/gin"

const responseMetaKey = "response_meta"

// SetCacheHit notes on the response metadata whether the payload came from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	Meta(c)["cache_hit"] = hit
}

// Meta returns the metadata map attached to the response envelope, creating it on first use.
func Meta(c *gin.Context) map[string]interface{} {
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	meta := make(map[string]interface{})
	c.Set(responseMetaKey, meta)
	return meta
}
