// Package checksum fingerprints uploaded files so the same content is never
// audited twice by the background sweeper.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Digest returns the hex sha256 of the file content.
func Digest(data []byte) string {
	hash := sha256.New()
	hash.Write(data)
	return hex.EncodeToString(hash.Sum(nil))
}

// Registry remembers the digests already processed. Safe for concurrent use.
type Registry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Remember records a digest and reports whether it was new.
func (r *Registry) Remember(digest string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[digest]; ok {
		return false
	}
	r.seen[digest] = struct{}{}
	return true
}
