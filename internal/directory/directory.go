// Package directory holds the in-memory registries of projects and users.
package directory

import (
	"errors"
	"sync"

	"skill-share/internal/domain/project"
)

var (
	ErrNotFound      = errors.New("project not found")
	ErrAlreadyExists = errors.New("project already exists")
)

// Directory maps project names to projects and remembers registration order.
// Names are unique: registering a taken name fails and keeps the original.
type Directory struct {
	mu     sync.RWMutex
	byName map[string]*project.Project
	order  []*project.Project
}

func New() *Directory {
	return &Directory{byName: make(map[string]*project.Project)}
}

func (d *Directory) Register(p *project.Project) error {
	if p == nil {
		return errors.New("nil project")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byName[p.Name()]; ok {
		return ErrAlreadyExists
	}
	d.byName[p.Name()] = p
	d.order = append(d.order, p)
	return nil
}

func (d *Directory) Lookup(name string) (*project.Project, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.byName[name]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// List returns every project in registration order.
func (d *Directory) List() []*project.Project {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*project.Project, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}
