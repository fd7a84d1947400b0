package usecase

import (
	"context"
	"sort"

	"skill-share/internal/domain/matching"
	"skill-share/internal/domain/project"
	"skill-share/internal/domain/skill"
	"skill-share/internal/domain/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRecommendLimit   = 1
	maxRecommendLimit       = 50
	defaultRecommendWorkers = 4
)

type ProjectLister interface {
	List() []*project.Project
}

type RecommendationParams struct {
	Limit int
}

type RecommendationItem struct {
	Project *project.Project
	Name    string
	OwnerID string
	Score   int
	Matched []skill.Skill
	Missing []skill.Skill
}

type RecommendationUsecase interface {
	Recommend(ctx context.Context, u *user.User, params RecommendationParams) ([]RecommendationItem, error)
	RecommendMany(ctx context.Context, users []*user.User, params RecommendationParams) ([][]RecommendationItem, error)
}

type RecommendationOptions struct {
	// DefaultLimit applies when params.Limit is not positive.
	DefaultLimit int
	Workers      int
}

// Recommendation picks the open projects owned by someone else that best
// match a user. Ties keep registration order, so among equal scores the
// earliest registered project wins.
type Recommendation struct {
	projects ProjectLister
	log      *zap.Logger
	limit    int
	workers  int
}

func NewRecommendationUsecase(projects ProjectLister, log *zap.Logger, opts RecommendationOptions) *Recommendation {
	if log == nil {
		log = zap.NewNop()
	}
	limit := opts.DefaultLimit
	if limit <= 0 {
		limit = defaultRecommendLimit
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultRecommendWorkers
	}
	return &Recommendation{projects: projects, log: log, limit: limit, workers: workers}
}

func (u *Recommendation) Recommend(ctx context.Context, usr *user.User, params RecommendationParams) ([]RecommendationItem, error) {
	if usr == nil {
		return nil, ErrUnauthorized
	}

	limit := params.Limit
	if limit <= 0 {
		limit = u.limit
	}
	if limit > maxRecommendLimit {
		limit = maxRecommendLimit
	}

	known, learning := usr.Ledger()
	out := make([]RecommendationItem, 0)
	for _, p := range u.projects.List() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.IsCompleted() || p.IsOwner(usr) {
			continue
		}
		res := matching.Calculate(known, learning, p.RequiredSkills())
		out = append(out, RecommendationItem{
			Project: p,
			Name:    p.Name(),
			OwnerID: p.Owner().ID(),
			Score:   res.Score,
			Matched: res.Matched,
			Missing: res.Missing,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}

	if len(out) > 0 {
		u.log.Info("project recommended", zap.String("user", usr.ID()),
			zap.String("project", out[0].Name), zap.Int("score", out[0].Score))
	} else {
		u.log.Debug("no open projects to recommend", zap.String("user", usr.ID()))
	}
	return out, nil
}

// RecommendMany runs Recommend for every user with bounded concurrency. The
// result is aligned with users.
func (u *Recommendation) RecommendMany(ctx context.Context, users []*user.User, params RecommendationParams) ([][]RecommendationItem, error) {
	out := make([][]RecommendationItem, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for i, usr := range users {
		g.Go(func() error {
			items, err := u.Recommend(gctx, usr, params)
			if err != nil {
				return err
			}
			out[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
