package version

import (
	"fmt"

	"github.com/ViBiOh/httputils/v4/pkg/hash"
)

var (
	// CacheVersion identifies the layout of cached values
	CacheVersion = hash.String("vibioh/memegenius/1")[:8]

	// CachePrefix namespaces every key of the application
	CachePrefix = "memegenius:" + CacheVersion
)

// Redis builds a versioned cache key for the given content identifier
func Redis(content string) string {
	return fmt.Sprintf("%s:%s", CachePrefix, content)
}
