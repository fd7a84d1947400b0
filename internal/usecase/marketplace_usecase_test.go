package usecase

import (
	"context"
	"sync"
	"testing"

	"skill-share/internal/directory"
	"skill-share/internal/domain/project"
	"skill-share/internal/domain/skill"
	"skill-share/internal/domain/user"
	"skill-share/internal/notify"
	"skill-share/internal/rating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Publish(evt notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingNotifier) types() []notify.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newMarketplace(t *testing.T) (*Marketplace, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return NewMarketplaceUsecase(directory.New(), directory.NewUsers(), n, nil), n
}

func TestMarketplace_MembershipCycle(t *testing.T) {
	m, n := newMarketplace(t)

	john, err := m.CreateUser("john", []skill.Skill{"C"}, []skill.Skill{"UML"})
	require.NoError(t, err)
	jeff, err := m.CreateUser("jeff", []skill.Skill{"C", "UML"}, []skill.Skill{"Basket"})
	require.NoError(t, err)

	_, err = m.CreateProject(john, "PR2", []skill.Skill{"Basket", "UML", "C"})
	require.NoError(t, err)

	require.NoError(t, m.RequestJoin(jeff, "PR2"))

	_, err = m.PendingUsers(jeff, "PR2")
	assert.ErrorIs(t, err, project.ErrNotOwner)

	pending, err := m.PendingUsers(john, "PR2")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "jeff", pending[0].ID())

	require.NoError(t, m.Deny(john, "PR2", "jeff"))
	assert.ErrorIs(t, m.Approve(john, "PR2", "jeff"), project.ErrNotPending)

	require.NoError(t, m.RequestJoin(jeff, "PR2"))
	score, err := m.Compatibility(john, "PR2", "jeff")
	require.NoError(t, err)
	assert.Equal(t, 3, score)
	require.NoError(t, m.Approve(john, "PR2", "jeff"))

	outcomes, err := m.Complete(context.Background(), john, "PR2", rating.Static{"jeff": 75})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, []skill.Skill{"Basket"}, outcomes[0].Promoted)
	assert.True(t, jeff.Knows("Basket"))

	assert.Equal(t, []notify.EventType{
		notify.EventJoinRequested,
		notify.EventRequestDenied,
		notify.EventJoinRequested,
		notify.EventRequestApproved,
		notify.EventSkillPromoted,
		notify.EventProjectCompleted,
	}, n.types())

	again, err := m.Complete(context.Background(), john, "PR2", rating.Static{})
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, n.types(), 6, "no events for a repeated completion")
}

func TestMarketplace_Lookups(t *testing.T) {
	m, _ := newMarketplace(t)
	owner, err := m.CreateUser("owner", nil, nil)
	require.NoError(t, err)

	_, err = m.CreateUser("owner", nil, nil)
	assert.ErrorIs(t, err, directory.ErrUserExists)

	assert.ErrorIs(t, m.RequestJoin(owner, "missing"), directory.ErrNotFound)
	_, err = m.Project("missing")
	assert.ErrorIs(t, err, directory.ErrNotFound)

	_, err = m.CreateProject(owner, "P", nil)
	require.NoError(t, err)
	_, err = m.CreateProject(owner, "P", []skill.Skill{"A"})
	assert.ErrorIs(t, err, directory.ErrAlreadyExists)

	assert.ErrorIs(t, m.Approve(owner, "P", "ghost"), directory.ErrUserNotFound)
	_, err = m.Compatibility(owner, "P", "ghost")
	assert.ErrorIs(t, err, directory.ErrUserNotFound)
}

func TestMarketplace_NilActor(t *testing.T) {
	m, _ := newMarketplace(t)

	_, err := m.CreateProject(nil, "P", nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, m.RequestJoin(nil, "P"), ErrUnauthorized)
	assert.ErrorIs(t, m.AddKnownSkill(nil, "A"), ErrUnauthorized)
	assert.ErrorIs(t, m.AddLearningSkill(nil, "A"), ErrUnauthorized)
}

func TestMarketplace_SkillLedger(t *testing.T) {
	m, _ := newMarketplace(t)
	u, err := m.CreateUser("u", nil, []skill.Skill{"Go"})
	require.NoError(t, err)

	require.NoError(t, m.AddKnownSkill(u, "Go"))
	assert.ErrorIs(t, m.AddKnownSkill(u, "Go"), user.ErrAlreadyPossessed)
	assert.ErrorIs(t, m.AddLearningSkill(u, "Go"), user.ErrAlreadyPossessed)
	require.NoError(t, m.AddLearningSkill(u, "Rust"))
	assert.True(t, u.IsLearning("Rust"))
}

func TestMarketplace_CompleteRejectedByRater(t *testing.T) {
	m, n := newMarketplace(t)
	owner, _ := m.CreateUser("owner", nil, nil)
	member, _ := m.CreateUser("member", nil, []skill.Skill{"A"})
	_, err := m.CreateProject(owner, "P", []skill.Skill{"A"})
	require.NoError(t, err)
	require.NoError(t, m.RequestJoin(member, "P"))
	require.NoError(t, m.Approve(owner, "P", "member"))

	_, err = m.Complete(context.Background(), owner, "P", rating.Static{})
	assert.ErrorIs(t, err, rating.ErrNoRating)

	p, err := m.Project("P")
	require.NoError(t, err)
	assert.False(t, p.IsCompleted())
	assert.NotContains(t, n.types(), notify.EventProjectCompleted)

	_, err = m.Complete(context.Background(), member, "P", rating.Static{"member": 90})
	assert.ErrorIs(t, err, project.ErrNotOwner)
}
