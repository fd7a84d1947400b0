package usecase

import (
	"context"
	"errors"
	"fmt"

	"skill-share/internal/domain/project"
	"skill-share/internal/domain/skill"
	"skill-share/internal/domain/user"
	"skill-share/internal/notify"

	"go.uber.org/zap"
)

var ErrUnauthorized = errors.New("unauthorized")

type ProjectRegistry interface {
	Register(p *project.Project) error
	Lookup(name string) (*project.Project, error)
	List() []*project.Project
}

type UserRegistry interface {
	Add(u *user.User) error
	Get(id string) (*user.User, error)
}

type Notifier interface {
	Publish(evt notify.Event)
}

type MarketplaceUsecase interface {
	CreateUser(id string, known, learning []skill.Skill) (*user.User, error)
	User(id string) (*user.User, error)
	AddKnownSkill(actor *user.User, s skill.Skill) error
	AddLearningSkill(actor *user.User, s skill.Skill) error
	CreateProject(actor *user.User, name string, required []skill.Skill) (*project.Project, error)
	Project(name string) (*project.Project, error)
	RequestJoin(actor *user.User, projectName string) error
	Approve(actor *user.User, projectName, userID string) error
	Deny(actor *user.User, projectName, userID string) error
	Compatibility(actor *user.User, projectName, userID string) (int, error)
	PendingUsers(actor *user.User, projectName string) ([]*user.User, error)
	Complete(ctx context.Context, actor *user.User, projectName string, rater project.RatingProvider) ([]project.Outcome, error)
}

// Marketplace runs membership transitions on behalf of an explicit actor,
// logs them and publishes the resulting notifications.
type Marketplace struct {
	projects ProjectRegistry
	users    UserRegistry
	notifier Notifier
	log      *zap.Logger
}

func NewMarketplaceUsecase(projects ProjectRegistry, users UserRegistry, notifier Notifier, log *zap.Logger) *Marketplace {
	if log == nil {
		log = zap.NewNop()
	}
	return &Marketplace{projects: projects, users: users, notifier: notifier, log: log}
}

func (m *Marketplace) CreateUser(id string, known, learning []skill.Skill) (*user.User, error) {
	u := user.New(id, known, learning)
	if err := m.users.Add(u); err != nil {
		m.log.Warn("create user rejected", zap.String("user", u.ID()), zap.Error(err))
		return nil, err
	}
	m.log.Info("user created", zap.String("user", u.ID()),
		zap.Int("known", u.Known().Len()), zap.Int("learning", u.Learning().Len()))
	return u, nil
}

func (m *Marketplace) User(id string) (*user.User, error) {
	return m.users.Get(id)
}

func (m *Marketplace) AddKnownSkill(actor *user.User, s skill.Skill) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if err := actor.AddKnown(s); err != nil {
		m.log.Warn("add known skill rejected", zap.String("user", actor.ID()), zap.String("skill", s.String()), zap.Error(err))
		return err
	}
	m.log.Info("known skill added", zap.String("user", actor.ID()), zap.String("skill", s.String()))
	return nil
}

func (m *Marketplace) AddLearningSkill(actor *user.User, s skill.Skill) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if err := actor.AddLearning(s); err != nil {
		m.log.Warn("add learning skill rejected", zap.String("user", actor.ID()), zap.String("skill", s.String()), zap.Error(err))
		return err
	}
	m.log.Info("learning skill added", zap.String("user", actor.ID()), zap.String("skill", s.String()))
	return nil
}

// CreateProject registers a new project owned by actor.
func (m *Marketplace) CreateProject(actor *user.User, name string, required []skill.Skill) (*project.Project, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	p, err := project.New(name, required, actor)
	if err != nil {
		return nil, err
	}
	if err := m.projects.Register(p); err != nil {
		m.log.Warn("create project rejected", zap.String("project", p.Name()), zap.Error(err))
		return nil, fmt.Errorf("register %s: %w", p.Name(), err)
	}
	m.log.Info("project created", zap.String("project", p.Name()), zap.String("owner", actor.ID()),
		zap.Strings("required", skillNames(p.RequiredSkills().Sorted())))
	return p, nil
}

func (m *Marketplace) Project(name string) (*project.Project, error) {
	return m.projects.Lookup(name)
}

func (m *Marketplace) RequestJoin(actor *user.User, projectName string) error {
	if actor == nil {
		return ErrUnauthorized
	}
	p, err := m.projects.Lookup(projectName)
	if err != nil {
		return err
	}
	if err := p.RequestJoin(actor); err != nil {
		m.log.Warn("join request rejected", zap.String("project", projectName), zap.String("user", actor.ID()), zap.Error(err))
		return err
	}
	m.log.Info("user added to pending members", zap.String("project", projectName), zap.String("user", actor.ID()))
	m.publish(notify.NewEvent(notify.EventJoinRequested, projectName, actor.ID()))
	return nil
}

func (m *Marketplace) Approve(actor *user.User, projectName, userID string) error {
	p, u, err := m.resolve(projectName, userID)
	if err != nil {
		return err
	}
	if err := p.Approve(actor, u); err != nil {
		m.log.Warn("approve rejected", zap.String("project", projectName), zap.String("user", userID), zap.Error(err))
		return err
	}
	m.log.Info("member added to project", zap.String("project", projectName), zap.String("user", userID))
	m.publish(notify.NewEvent(notify.EventRequestApproved, projectName, userID))
	return nil
}

func (m *Marketplace) Deny(actor *user.User, projectName, userID string) error {
	p, u, err := m.resolve(projectName, userID)
	if err != nil {
		return err
	}
	if err := p.Deny(actor, u); err != nil {
		m.log.Warn("deny rejected", zap.String("project", projectName), zap.String("user", userID), zap.Error(err))
		return err
	}
	m.log.Info("join request denied", zap.String("project", projectName), zap.String("user", userID))
	m.publish(notify.NewEvent(notify.EventRequestDenied, projectName, userID))
	return nil
}

func (m *Marketplace) Compatibility(actor *user.User, projectName, userID string) (int, error) {
	p, u, err := m.resolve(projectName, userID)
	if err != nil {
		return 0, err
	}
	score, err := p.Compatibility(actor, u)
	if err != nil {
		m.log.Warn("compatibility rejected", zap.String("project", projectName), zap.String("user", userID), zap.Error(err))
		return 0, err
	}
	return score, nil
}

func (m *Marketplace) PendingUsers(actor *user.User, projectName string) ([]*user.User, error) {
	p, err := m.projects.Lookup(projectName)
	if err != nil {
		return nil, err
	}
	pending, err := p.PendingUsers(actor)
	if err != nil {
		m.log.Warn("pending users rejected", zap.String("project", projectName), zap.Error(err))
		return nil, err
	}
	return pending, nil
}

func (m *Marketplace) Complete(ctx context.Context, actor *user.User, projectName string, rater project.RatingProvider) ([]project.Outcome, error) {
	p, err := m.projects.Lookup(projectName)
	if err != nil {
		return nil, err
	}
	alreadyDone := p.IsCompleted()
	outcomes, err := p.Complete(ctx, actor, rater)
	if err != nil {
		m.log.Warn("complete rejected", zap.String("project", projectName), zap.Error(err))
		return nil, err
	}
	if alreadyDone {
		m.log.Info("project already complete", zap.String("project", projectName))
		return outcomes, nil
	}

	for _, o := range outcomes {
		for _, s := range o.Promoted {
			m.log.Info("member learned a new skill", zap.String("project", projectName),
				zap.String("user", o.Member.ID()), zap.String("skill", s.String()), zap.Int("rating", o.Rating))
			evt := notify.NewEvent(notify.EventSkillPromoted, projectName, o.Member.ID())
			evt.Skill = s.String()
			evt.Rating = o.Rating
			m.publish(evt)
		}
	}
	m.log.Info("project complete", zap.String("project", projectName), zap.Int("members", len(outcomes)))
	m.publish(notify.NewEvent(notify.EventProjectCompleted, projectName, actor.ID()))
	return outcomes, nil
}

func (m *Marketplace) resolve(projectName, userID string) (*project.Project, *user.User, error) {
	p, err := m.projects.Lookup(projectName)
	if err != nil {
		return nil, nil, err
	}
	u, err := m.users.Get(userID)
	if err != nil {
		return nil, nil, err
	}
	return p, u, nil
}

func (m *Marketplace) publish(evt notify.Event) {
	if m.notifier == nil {
		return
	}
	m.notifier.Publish(evt)
}

func skillNames(skills []skill.Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, s.String())
	}
	return out
}
