package directory

import (
	"errors"
	"sync"

	"skill-share/internal/domain/user"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type Users struct {
	mu    sync.RWMutex
	byID  map[string]*user.User
	order []*user.User
}

func NewUsers() *Users {
	return &Users{byID: make(map[string]*user.User)}
}

func (s *Users) Add(u *user.User) error {
	if u == nil {
		return user.ErrNilUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID()]; ok {
		return ErrUserExists
	}
	s.byID[u.ID()] = u
	s.order = append(s.order, u)
	return nil
}

func (s *Users) Get(id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Users) List() []*user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*user.User, len(s.order))
	copy(out, s.order)
	return out
}
