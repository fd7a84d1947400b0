package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"skill-share/internal/app"
	"skill-share/internal/config"
	"skill-share/internal/notify"
	"skill-share/internal/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	seedPath string
	verbose  bool

	container *app.Container
	cleanup   func() error
	printerWG sync.WaitGroup
)

var rootCmd = &cobra.Command{
	Use:   "skillshare",
	Short: "Skill-sharing marketplace: match users to projects by skill overlap",
	Long: `skillshare keeps users' known and learning skills, projects and their
membership requests in memory, and recommends the open project that best
matches a user's skills.

State lives for one invocation. Use --seed (or SEED_PATH) to load users and
projects from a YAML file before running a command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if seedPath != "" {
			cfg.SeedPath = seedPath
		}

		container, cleanup, err = app.Bootstrap(cfg)
		if err != nil {
			return fmt.Errorf("failed to bootstrap app: %w", err)
		}
		startPrinter(container.Hub, cmd.ErrOrStderr())

		if cfg.SeedPath == "" {
			return nil
		}
		f, err := seed.Load(cfg.SeedPath)
		if err != nil {
			return err
		}
		if err := (seed.Runner{Seeders: f.Seeders()}).Run(cmd.Context(), container.Marketplace); err != nil {
			return err
		}
		container.Logger.Info("seed applied", zap.String("path", cfg.SeedPath),
			zap.Int("users", len(f.Users)), zap.Int("projects", len(f.Projects)))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "YAML file with users and projects to load")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(demoCmd, recommendCmd, scoreCmd, pendingCmd, completeCmd)
}

// startPrinter writes hub notifications to w until the hub shuts down.
func startPrinter(hub *notify.Hub, w io.Writer) {
	sub := hub.Subscribe()
	printerWG.Add(1)
	go func() {
		defer printerWG.Done()
		for evt := range sub.C {
			printEvent(w, evt)
		}
	}()
}

func printEvent(w io.Writer, evt notify.Event) {
	switch evt.Type {
	case notify.EventSkillPromoted:
		fmt.Fprintf(w, "notification: as project owner feedback was satisfactory, user %s has learned %s\n", evt.User, evt.Skill)
	case notify.EventProjectCompleted:
		fmt.Fprintf(w, "notification: project %s is complete\n", evt.Project)
	default:
		fmt.Fprintf(w, "notification: %s project=%s user=%s\n", evt.Type, evt.Project, evt.User)
	}
}

func shutdown() error {
	if cleanup == nil {
		return nil
	}
	err := cleanup()
	cleanup = nil
	printerWG.Wait()
	return err
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_ = shutdown()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
