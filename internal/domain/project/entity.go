package project

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"skill-share/internal/domain/feedback"
	"skill-share/internal/domain/matching"
	"skill-share/internal/domain/skill"
	"skill-share/internal/domain/user"
)

var (
	ErrInvalidName   = errors.New("project name is required")
	ErrNoOwner       = errors.New("project owner is required")
	ErrNotOwner      = errors.New("access denied: current user is not the owner")
	ErrNotPending    = errors.New("user has no pending request")
	ErrAlreadyMember = errors.New("user is already a project member")
	ErrCompleted     = errors.New("project is already completed")
	ErrNoRater       = errors.New("rating provider is required")
	ErrCompleting    = errors.New("project completion is in progress")
)

// RatingProvider supplies the owner's rating for a member when a project is
// completed. Implementations may block, for example on user input. The
// project is not locked while Rate runs, so reads such as Members and
// StatusOf are safe; membership changes fail with ErrCompleting.
type RatingProvider interface {
	Rate(ctx context.Context, member *user.User) (int, error)
}

type RatingFunc func(ctx context.Context, member *user.User) (int, error)

func (f RatingFunc) Rate(ctx context.Context, member *user.User) (int, error) {
	return f(ctx, member)
}

// Outcome is what a member received when the project was completed.
type Outcome struct {
	Member   *user.User
	Rating   int
	Promoted []skill.Skill
}

// Project tracks required skills and membership for a single piece of work.
// Name, owner and required skills never change after New.
type Project struct {
	name     string
	owner    *user.User
	required skill.Set

	mu         sync.Mutex
	members    []*user.User
	pending    []*user.User
	completing bool
	completed  atomic.Bool
}

func New(name string, required []skill.Skill, owner *user.User) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if owner == nil {
		return nil, ErrNoOwner
	}
	return &Project{
		name:     name,
		owner:    owner,
		required: skill.NewSet(required...),
	}, nil
}

func (p *Project) Name() string {
	return p.name
}

func (p *Project) Owner() *user.User {
	return p.owner
}

func (p *Project) RequiredSkills() skill.Set {
	return p.required.Clone()
}

func (p *Project) IsCompleted() bool {
	return p.completed.Load()
}

// IsOwner reports whether actor owns the project.
func (p *Project) IsOwner(actor *user.User) bool {
	return actor != nil && actor.ID() == p.owner.ID()
}

// Score is the compatibility score of u without the owner check, used by the
// recommender which scores projects on the user's behalf.
func (p *Project) Score(u *user.User) int {
	return matching.Score(u.Skills(), p.required)
}

// Match is Score with the matched and missing skill breakdown.
func (p *Project) Match(u *user.User) matching.Result {
	known, learning := u.Ledger()
	return matching.Calculate(known, learning, p.required)
}

// Members returns current members in approval order.
func (p *Project) Members() []*user.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.members)
}

func (p *Project) StatusOf(u *user.User) Status {
	if u == nil {
		return StatusNotInvolved
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case indexOf(p.members, u) >= 0:
		return StatusMember
	case indexOf(p.pending, u) >= 0:
		return StatusPending
	default:
		return StatusNotInvolved
	}
}

// RequestJoin puts u on the pending list. Requesting again while pending is a no-op.
func (p *Project) RequestJoin(u *user.User) error {
	if u == nil {
		return fmt.Errorf("request join: %w", user.ErrNilUser)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen(); err != nil {
		return err
	}
	if indexOf(p.members, u) >= 0 {
		return ErrAlreadyMember
	}
	if indexOf(p.pending, u) >= 0 {
		return nil
	}
	p.pending = append(p.pending, u)
	return nil
}

// Approve moves u from pending to members.
func (p *Project) Approve(actor, u *user.User) error {
	if !p.IsOwner(actor) {
		return ErrNotOwner
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen(); err != nil {
		return err
	}
	i := indexOf(p.pending, u)
	if i < 0 {
		return ErrNotPending
	}
	p.pending = slices.Delete(p.pending, i, i+1)
	p.members = append(p.members, u)
	return nil
}

// Deny drops u from the pending list. Existing members are not affected.
func (p *Project) Deny(actor, u *user.User) error {
	if !p.IsOwner(actor) {
		return ErrNotOwner
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen(); err != nil {
		return err
	}
	i := indexOf(p.pending, u)
	if i < 0 {
		return ErrNotPending
	}
	p.pending = slices.Delete(p.pending, i, i+1)
	return nil
}

func (p *Project) Compatibility(actor, u *user.User) (int, error) {
	if !p.IsOwner(actor) {
		return 0, ErrNotOwner
	}
	if u == nil {
		return 0, fmt.Errorf("compatibility: %w", user.ErrNilUser)
	}
	return p.Score(u), nil
}

// PendingUsers returns pending requests in the order they were made.
func (p *Project) PendingUsers(actor *user.User) ([]*user.User, error) {
	if !p.IsOwner(actor) {
		return nil, ErrNotOwner
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.pending), nil
}

// Complete asks rater for a rating of every member, marks the project
// completed and delivers feedback to each member. All ratings are collected
// before anything changes: if rater fails the project stays open and nobody
// is promoted. Membership is frozen while ratings are collected, but the
// lock is not held across Rate. Completing an already completed project is
// a no-op.
func (p *Project) Complete(ctx context.Context, actor *user.User, rater RatingProvider) ([]Outcome, error) {
	if !p.IsOwner(actor) {
		return nil, ErrNotOwner
	}
	p.mu.Lock()
	if p.completed.Load() {
		p.mu.Unlock()
		return nil, nil
	}
	if p.completing {
		p.mu.Unlock()
		return nil, ErrCompleting
	}
	if rater == nil && len(p.members) > 0 {
		p.mu.Unlock()
		return nil, ErrNoRater
	}
	p.completing = true
	members := slices.Clone(p.members)
	p.mu.Unlock()

	ratings, err := collectRatings(ctx, members, rater)

	p.mu.Lock()
	p.completing = false
	if err == nil {
		p.completed.Store(true)
	}
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(members))
	for i, m := range members {
		fb := feedback.New(p.required, ratings[i])
		outcomes = append(outcomes, Outcome{
			Member:   m,
			Rating:   ratings[i],
			Promoted: m.ProcessFeedback(fb),
		})
	}
	return outcomes, nil
}

func collectRatings(ctx context.Context, members []*user.User, rater RatingProvider) ([]int, error) {
	ratings := make([]int, len(members))
	for i, m := range members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := rater.Rate(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("rate %s: %w", m.ID(), err)
		}
		ratings[i] = r
	}
	return ratings, nil
}

// checkOpen must be called with p.mu held.
func (p *Project) checkOpen() error {
	switch {
	case p.completed.Load():
		return ErrCompleted
	case p.completing:
		return ErrCompleting
	}
	return nil
}

func indexOf(users []*user.User, u *user.User) int {
	if u == nil {
		return -1
	}
	return slices.IndexFunc(users, func(x *user.User) bool {
		return x.ID() == u.ID()
	})
}
