package user

import (
	"errors"
	"strings"
	"sync"

	"skill-share/internal/domain/feedback"
	"skill-share/internal/domain/skill"

	"github.com/google/uuid"
)

var (
	ErrAlreadyPossessed = errors.New("skill already possessed")
	ErrNilUser          = errors.New("user is required")
)

// User owns a skill ledger split into known and learning skills. A skill is
// never in both sets; it only ever moves from learning to known.
type User struct {
	id string

	mu       sync.RWMutex
	known    skill.Set
	learning skill.Set
}

func NewID() string {
	return uuid.NewString()
}

// New creates a user and seeds its ledger through AddKnown and AddLearning, so
// a skill listed in both ends up known. An empty id is replaced by a generated one.
func New(id string, known, learning []skill.Skill) *User {
	id = strings.TrimSpace(id)
	if id == "" {
		id = NewID()
	}
	u := &User{
		id:       id,
		known:    skill.NewSet(),
		learning: skill.NewSet(),
	}
	for _, s := range known {
		_ = u.AddKnown(s)
	}
	for _, s := range learning {
		_ = u.AddLearning(s)
	}
	return u
}

func (u *User) ID() string {
	return u.id
}

// AddKnown records s as known, promoting it out of the learning set if needed.
func (u *User) AddKnown(s skill.Skill) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.addKnownLocked(s)
}

func (u *User) addKnownLocked(s skill.Skill) error {
	if u.known.Has(s) {
		return ErrAlreadyPossessed
	}
	u.learning.Remove(s)
	u.known.Add(s)
	return nil
}

// AddLearning records s as a learning goal. Known skills are rejected.
func (u *User) AddLearning(s skill.Skill) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.known.Has(s) {
		return ErrAlreadyPossessed
	}
	u.learning.Add(s)
	return nil
}

func (u *User) Knows(s skill.Skill) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.known.Has(s)
}

func (u *User) IsLearning(s skill.Skill) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.learning.Has(s)
}

func (u *User) Known() skill.Set {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.known.Clone()
}

func (u *User) Learning() skill.Set {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.learning.Clone()
}

// Ledger returns consistent copies of both sets taken under a single lock.
func (u *User) Ledger() (known, learning skill.Set) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.known.Clone(), u.learning.Clone()
}

// Skills is the union of known and learning skills.
func (u *User) Skills() skill.Set {
	known, learning := u.Ledger()
	return known.Union(learning)
}

// ProcessFeedback promotes every target skill the user is learning when the
// rating qualifies. Target skills the user never pursued are ignored. The
// promoted skills are returned in name order.
func (u *User) ProcessFeedback(fb feedback.Feedback) []skill.Skill {
	if !fb.Qualifies() {
		return nil
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	var promoted []skill.Skill
	for _, s := range fb.TargetSkills.Sorted() {
		if !u.learning.Has(s) {
			continue
		}
		if err := u.addKnownLocked(s); err == nil {
			promoted = append(promoted, s)
		}
	}
	return promoted
}
