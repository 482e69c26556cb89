package engine

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DomainMemory remembers which engine last won for each host, so repeat
// snapshots of the same site skip the race. Entries expire after the TTL.
type DomainMemory struct {
	store *gocache.Cache
}

// NewDomainMemory creates a DomainMemory whose entries live for ttl.
func NewDomainMemory(ttl time.Duration) *DomainMemory {
	return &DomainMemory{store: gocache.New(ttl, time.Hour)}
}

// Get returns the remembered engine name for a domain, or "".
func (dm *DomainMemory) Get(domain string) string {
	if dm == nil {
		return ""
	}
	v, ok := dm.store.Get(domain)
	if !ok {
		return ""
	}
	name, _ := v.(string)
	return name
}

// Set records which engine succeeded for a domain.
func (dm *DomainMemory) Set(domain, engineName string) {
	if dm == nil {
		return
	}
	dm.store.SetDefault(domain, engineName)
}

// Delete forgets a domain, e.g. after its remembered engine failed.
func (dm *DomainMemory) Delete(domain string) {
	if dm == nil {
		return
	}
	dm.store.Delete(domain)
}
