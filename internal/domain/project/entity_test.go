package project

import (
	"context"
	"errors"
	"testing"

	"skill-share/internal/domain/skill"
	"skill-share/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	owner   *user.User
	member  *user.User
	other   *user.User
	project *Project
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	owner := user.New("owner", []skill.Skill{"A"}, nil)
	p, err := New("P", []skill.Skill{"A", "B", "C"}, owner)
	require.NoError(t, err)
	return fixture{
		owner:   owner,
		member:  user.New("member", []skill.Skill{"A"}, []skill.Skill{"B"}),
		other:   user.New("other", nil, []skill.Skill{"C"}),
		project: p,
	}
}

func fixedRating(r int) RatingFunc {
	return func(context.Context, *user.User) (int, error) { return r, nil }
}

func TestNew_Validation(t *testing.T) {
	owner := user.New("o", nil, nil)

	_, err := New("  ", nil, owner)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = New("P", nil, nil)
	assert.ErrorIs(t, err, ErrNoOwner)
}

func TestNew_RequiredSkillsAreCopied(t *testing.T) {
	owner := user.New("o", nil, nil)
	required := []skill.Skill{"A"}
	p, err := New("P", required, owner)
	require.NoError(t, err)

	required[0] = "Z"
	p.RequiredSkills().Add("Y")
	assert.Equal(t, []skill.Skill{"A"}, p.RequiredSkills().Sorted())
}

func TestRequestJoin(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.project.RequestJoin(f.member))
	assert.Equal(t, StatusPending, f.project.StatusOf(f.member))

	require.NoError(t, f.project.RequestJoin(f.member), "re-request while pending is a no-op")
	pending, err := f.project.PendingUsers(f.owner)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, f.project.Approve(f.owner, f.member))
	assert.ErrorIs(t, f.project.RequestJoin(f.member), ErrAlreadyMember)
	assert.Equal(t, StatusMember, f.project.StatusOf(f.member))
}

func TestOwnerGatedOperations(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.project.RequestJoin(f.member))

	assert.ErrorIs(t, f.project.Approve(f.member, f.member), ErrNotOwner)
	assert.ErrorIs(t, f.project.Deny(f.other, f.member), ErrNotOwner)
	assert.ErrorIs(t, f.project.Approve(nil, f.member), ErrNotOwner)

	_, err := f.project.PendingUsers(f.member)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.project.Compatibility(f.other, f.member)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.project.Complete(context.Background(), f.member, fixedRating(100))
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.False(t, f.project.IsCompleted())

	assert.Equal(t, StatusPending, f.project.StatusOf(f.member), "rejected calls must not change state")
}

func TestApproveThenDeny_NotPending(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.project.RequestJoin(f.member))
	require.NoError(t, f.project.Approve(f.owner, f.member))

	assert.ErrorIs(t, f.project.Deny(f.owner, f.member), ErrNotPending)
	assert.Equal(t, StatusMember, f.project.StatusOf(f.member))
}

func TestDeny_RequiresReRequest(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.project.RequestJoin(f.member))
	require.NoError(t, f.project.Deny(f.owner, f.member))
	assert.Equal(t, StatusNotInvolved, f.project.StatusOf(f.member))

	assert.ErrorIs(t, f.project.Approve(f.owner, f.member), ErrNotPending)
	assert.ErrorIs(t, f.project.Deny(f.owner, f.member), ErrNotPending)

	require.NoError(t, f.project.RequestJoin(f.member))
	require.NoError(t, f.project.Approve(f.owner, f.member))
	assert.Equal(t, []*user.User{f.member}, f.project.Members())
}

func TestPendingUsers_PreservesRequestOrder(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.project.RequestJoin(f.other))
	require.NoError(t, f.project.RequestJoin(f.member))

	pending, err := f.project.PendingUsers(f.owner)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "other", pending[0].ID())
	assert.Equal(t, "member", pending[1].ID())

	pending[0] = nil
	again, _ := f.project.PendingUsers(f.owner)
	assert.NotNil(t, again[0], "PendingUsers must return a copy")
}

func TestCompatibility(t *testing.T) {
	f := newFixture(t)

	score, err := f.project.Compatibility(f.owner, f.member)
	require.NoError(t, err)
	assert.Equal(t, 2, score)

	score, err = f.project.Compatibility(f.owner, user.New("nobody", []skill.Skill{"X"}, nil))
	require.NoError(t, err)
	assert.Zero(t, score)

	assert.Equal(t, StatusNotInvolved, f.project.StatusOf(f.member), "compatibility is a pure read")
}

func TestComplete_PromotesOnQualifyingRating(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.project.RequestJoin(f.member))
	require.NoError(t, f.project.Approve(f.owner, f.member))

	outcomes, err := f.project.Complete(context.Background(), f.owner, fixedRating(60))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, 60, outcomes[0].Rating)
	assert.Equal(t, []skill.Skill{"B"}, outcomes[0].Promoted)
	assert.True(t, f.member.Knows("B"))
	assert.False(t, f.member.IsLearning("B"))
	assert.True(t, f.project.IsCompleted())
}

func TestComplete_LowRatingDoesNotPromote(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.project.RequestJoin(f.member))
	require.NoError(t, f.project.Approve(f.owner, f.member))

	outcomes, err := f.project.Complete(context.Background(), f.owner, fixedRating(40))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Empty(t, outcomes[0].Promoted)
	assert.True(t, f.member.IsLearning("B"))
	assert.True(t, f.project.IsCompleted())
}

func TestComplete_IsTerminal(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.project.RequestJoin(f.other))

	_, err := f.project.Complete(context.Background(), f.owner, nil)
	require.NoError(t, err, "no members, no rater needed")
	require.True(t, f.project.IsCompleted())

	assert.ErrorIs(t, f.project.RequestJoin(f.member), ErrCompleted)
	assert.ErrorIs(t, f.project.Approve(f.owner, f.other), ErrCompleted)
	assert.ErrorIs(t, f.project.Deny(f.owner, f.other), ErrCompleted)

	outcomes, err := f.project.Complete(context.Background(), f.owner, fixedRating(99))
	require.NoError(t, err)
	assert.Nil(t, outcomes, "completing twice is a no-op")
	assert.True(t, f.project.IsCompleted())
}

func TestComplete_RaterFailureLeavesProjectOpen(t *testing.T) {
	f := newFixture(t)
	for _, u := range []*user.User{f.member, f.other} {
		require.NoError(t, f.project.RequestJoin(u))
		require.NoError(t, f.project.Approve(f.owner, u))
	}

	boom := errors.New("boom")
	calls := 0
	rater := RatingFunc(func(_ context.Context, m *user.User) (int, error) {
		calls++
		if m.ID() == "other" {
			return 0, boom
		}
		return 100, nil
	})

	_, err := f.project.Complete(context.Background(), f.owner, rater)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	assert.False(t, f.project.IsCompleted())
	assert.True(t, f.member.IsLearning("B"), "no promotion before every rating is in")
}

func TestComplete_NilRaterWithMembers(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.project.RequestJoin(f.member))
	require.NoError(t, f.project.Approve(f.owner, f.member))

	_, err := f.project.Complete(context.Background(), f.owner, nil)
	assert.ErrorIs(t, err, ErrNoRater)
	assert.False(t, f.project.IsCompleted())
}

func TestComplete_CancelledContext(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.project.RequestJoin(f.member))
	require.NoError(t, f.project.Approve(f.owner, f.member))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.project.Complete(ctx, f.owner, fixedRating(80))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.project.IsCompleted())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "not_involved", StatusNotInvolved.String())
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "member", StatusMember.String())
}

func TestComplete_RaterCanReadProjectWhileRating(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.project.RequestJoin(f.member))
	require.NoError(t, f.project.Approve(f.owner, f.member))
	require.NoError(t, f.project.RequestJoin(f.other))

	rater := RatingFunc(func(_ context.Context, m *user.User) (int, error) {
		assert.Len(t, f.project.Members(), 1)
		assert.Equal(t, StatusMember, f.project.StatusOf(m))
		assert.ErrorIs(t, f.project.RequestJoin(user.New("late", nil, nil)), ErrCompleting)
		assert.ErrorIs(t, f.project.Approve(f.owner, f.other), ErrCompleting)
		assert.ErrorIs(t, f.project.Deny(f.owner, f.other), ErrCompleting)
		_, err := f.project.Complete(context.Background(), f.owner, fixedRating(10))
		assert.ErrorIs(t, err, ErrCompleting)
		return 70, nil
	})

	outcomes, err := f.project.Complete(context.Background(), f.owner, rater)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, f.project.IsCompleted())
	assert.ErrorIs(t, f.project.RequestJoin(f.member), ErrCompleted)
}

func TestComplete_ReopensAfterRaterFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.project.RequestJoin(f.member))
	require.NoError(t, f.project.Approve(f.owner, f.member))

	failing := RatingFunc(func(context.Context, *user.User) (int, error) {
		return 0, errors.New("input closed")
	})
	_, err := f.project.Complete(context.Background(), f.owner, failing)
	require.Error(t, err)

	require.NoError(t, f.project.RequestJoin(f.other))
	require.NoError(t, f.project.Approve(f.owner, f.other))

	outcomes, err := f.project.Complete(context.Background(), f.owner, fixedRating(60))
	require.NoError(t, err)
	assert.Len(t, outcomes, 2)
}
