package store

import (
	"sync"

	"github.com/statusdeck/statusdeck/internal/domain"
)

// cache is an explicit project cache keyed by project code. Entries are
// invalidated after every successful write; readers always get a clone so a
// cached project is never mutated in place.
type cache struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project
}

func newCache() *cache {
	return &cache{projects: make(map[string]*domain.Project)}
}

func (c *cache) get(code string) (*domain.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.projects[code]
	return p, ok
}

func (c *cache) put(code string, p *domain.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects[code] = p.Clone()
}

func (c *cache) invalidate(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.projects, code)
}
