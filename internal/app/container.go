package app

import (
	"context"
	"sync"

	"skill-share/internal/config"
	"skill-share/internal/directory"
	"skill-share/internal/logger"
	"skill-share/internal/notify"
	"skill-share/internal/usecase"

	"go.uber.org/zap"
)

type Container struct {
	Config         config.Config
	Logger         *zap.Logger
	Projects       *directory.Directory
	Users          *directory.Users
	Hub            *notify.Hub
	Marketplace    *usecase.Marketplace
	Recommendation *usecase.Recommendation
}

func NewContainer(cfg config.Config, log *zap.Logger) *Container {
	if log == nil {
		log = zap.NewNop()
	}
	projects := directory.New()
	users := directory.NewUsers()
	hub := notify.NewHub(log.Named("notify"), 0)

	recommendation := usecase.NewRecommendationUsecase(projects, log.Named("recommend"), usecase.RecommendationOptions{
		DefaultLimit: cfg.Recommend.Limit,
		Workers:      cfg.Recommend.Workers,
	})

	return &Container{
		Config:         cfg,
		Logger:         log,
		Projects:       projects,
		Users:          users,
		Hub:            hub,
		Marketplace:    usecase.NewMarketplaceUsecase(projects, users, hub, log.Named("marketplace")),
		Recommendation: recommendation,
	}
}

// Bootstrap builds the logger and container and starts the notification hub.
// The returned cleanup stops the hub and flushes the logger.
func Bootstrap(cfg config.Config) (*Container, func() error, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	log = log.With(zap.String("app", cfg.App.AppName), zap.String("env", cfg.App.Environment))

	c := NewContainer(cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Hub.Run(ctx)
	}()

	cleanup := func() error {
		cancel()
		wg.Wait()
		_ = log.Sync()
		return nil
	}
	return c, cleanup, nil
}
