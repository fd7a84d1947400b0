package rating

import (
	"context"
	"fmt"

	"skill-share/internal/domain/user"
)

// Static rates members from a fixed table keyed by user id.
type Static map[string]int

func (s Static) Rate(_ context.Context, member *user.User) (int, error) {
	if member == nil {
		return 0, user.ErrNilUser
	}
	r, ok := s[member.ID()]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoRating, member.ID())
	}
	return r, nil
}
