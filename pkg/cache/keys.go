package cache

import (
	"fmt"
	"time"
)

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey is the key for a cached API response.
	HTTPKey(namespace, key string) string
	// DownloadKey is the key for a data source download. A new revision
	// (updatedAt) invalidates the previous download.
	DownloadKey(datasourceID string, updatedAt time.Time) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

// DownloadKey returns a hashed key over the data source id and revision.
func (DefaultKeyer) DownloadKey(datasourceID string, updatedAt time.Time) string {
	return hashKey("download", datasourceID, updatedAt.UTC().Format(time.RFC3339))
}

// ScopedKeyer prefixes every key, so one cache can serve several Tableau
// sites without collisions:
//
//	keyer := cache.NewScopedKeyer(nil, "site:analytics:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (or the default keyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey returns the prefixed inner key.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// DownloadKey returns the prefixed inner key.
func (k *ScopedKeyer) DownloadKey(datasourceID string, updatedAt time.Time) string {
	return k.prefix + k.inner.DownloadKey(datasourceID, updatedAt)
}
