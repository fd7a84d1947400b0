package seed

import (
	"context"
	"fmt"

	"skill-share/internal/domain/skill"
	"skill-share/internal/usecase"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, m usecase.MarketplaceUsecase) error
}

type Runner struct {
	Seeders []Seeder
}

func (r Runner) Run(ctx context.Context, m usecase.MarketplaceUsecase) error {
	if m == nil {
		return fmt.Errorf("nil marketplace")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Run(ctx, m); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}
	return nil
}

type UsersSeeder struct {
	Users []UserSpec
}

func (UsersSeeder) Name() string { return "users" }

func (s UsersSeeder) Run(_ context.Context, m usecase.MarketplaceUsecase) error {
	for _, u := range s.Users {
		if _, err := m.CreateUser(u.ID, skill.FromStrings(u.Known), skill.FromStrings(u.Learning)); err != nil {
			return fmt.Errorf("user %q: %w", u.ID, err)
		}
	}
	return nil
}

type ProjectsSeeder struct {
	Projects []ProjectSpec
}

func (ProjectsSeeder) Name() string { return "projects" }

func (s ProjectsSeeder) Run(_ context.Context, m usecase.MarketplaceUsecase) error {
	for _, p := range s.Projects {
		owner, err := m.User(p.Owner)
		if err != nil {
			return fmt.Errorf("project %q owner %q: %w", p.Name, p.Owner, err)
		}
		if _, err := m.CreateProject(owner, p.Name, skill.FromStrings(p.Required)); err != nil {
			return fmt.Errorf("project %q: %w", p.Name, err)
		}
	}
	return nil
}

// MembershipsSeeder replays join requests, approving the ones listed as members.
type MembershipsSeeder struct {
	Projects []ProjectSpec
}

func (MembershipsSeeder) Name() string { return "memberships" }

func (s MembershipsSeeder) Run(_ context.Context, m usecase.MarketplaceUsecase) error {
	for _, p := range s.Projects {
		owner, err := m.User(p.Owner)
		if err != nil {
			return fmt.Errorf("project %q owner %q: %w", p.Name, p.Owner, err)
		}
		for _, id := range p.Members {
			if err := request(m, p.Name, id); err != nil {
				return err
			}
			if err := m.Approve(owner, p.Name, id); err != nil {
				return fmt.Errorf("approve %q on %q: %w", id, p.Name, err)
			}
		}
		for _, id := range p.Pending {
			if err := request(m, p.Name, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func request(m usecase.MarketplaceUsecase, projectName, userID string) error {
	u, err := m.User(userID)
	if err != nil {
		return fmt.Errorf("member %q of %q: %w", userID, projectName, err)
	}
	if err := m.RequestJoin(u, projectName); err != nil {
		return fmt.Errorf("request %q on %q: %w", userID, projectName, err)
	}
	return nil
}
