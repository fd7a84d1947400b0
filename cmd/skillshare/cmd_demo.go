package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"skill-share/internal/domain/project"
	"skill-share/internal/domain/skill"
	"skill-share/internal/domain/user"
	"skill-share/internal/rating"
	"skill-share/internal/usecase"

	"github.com/spf13/cobra"
)

var demoRating int

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through a full request, approval and completion cycle",
	Long: `Creates two users and two projects, then walks the membership cycle:
recommend, request, deny, re-request, approve, complete with a rating and
recommend again. Ratings are read from standard input unless --rating is set.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVar(&demoRating, "rating", 0, "rate every member with this value instead of prompting")
}

func runDemo(cmd *cobra.Command, args []string) error {
	var rater project.RatingProvider = rating.NewPrompt(cmd.InOrStdin(), cmd.OutOrStdout(), container.Config.Rating.MaxAttempts, container.Logger)
	if cmd.Flags().Changed("rating") {
		r := demoRating
		rater = project.RatingFunc(func(context.Context, *user.User) (int, error) { return r, nil })
	}
	return demo(cmd.Context(), cmd.OutOrStdout(), container.Marketplace, container.Recommendation, rater)
}

func demo(ctx context.Context, w io.Writer, m usecase.MarketplaceUsecase, rec usecase.RecommendationUsecase, rater project.RatingProvider) error {
	c := skill.Skill("C Programming")
	uml := skill.Skill("UML Diagram Design")
	basket := skill.Skill("Underwater Basket Weaving")

	jeff, err := m.CreateUser("Jeff Jones", []skill.Skill{c, uml}, []skill.Skill{basket})
	if err != nil {
		return err
	}
	john, err := m.CreateUser("John Smith", []skill.Skill{c}, []skill.Skill{uml})
	if err != nil {
		return err
	}

	items, err := rec.Recommend(ctx, john, usecase.RecommendationParams{})
	if err != nil {
		return err
	}
	printRecommendations(w, john, items)

	if _, err := m.CreateProject(john, "PR1", []skill.Skill{basket}); err != nil {
		return err
	}
	if _, err := m.CreateProject(john, "PR2", []skill.Skill{basket, uml, c}); err != nil {
		return err
	}

	items, err = rec.Recommend(ctx, jeff, usecase.RecommendationParams{})
	if err != nil {
		return err
	}
	printRecommendations(w, jeff, items)
	if len(items) == 0 {
		return errors.New("demo: expected a recommendation for Jeff Jones")
	}
	target := items[0].Name

	if err := m.RequestJoin(jeff, target); err != nil {
		return err
	}
	if _, err := m.PendingUsers(jeff, target); err != nil {
		fmt.Fprintf(w, "%s viewing pending requests: %v\n", jeff.ID(), err)
	}
	pending, err := m.PendingUsers(john, target)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "pending on %s: %d\n", target, len(pending))

	if err := m.Deny(john, target, jeff.ID()); err != nil {
		return err
	}
	if err := m.Approve(john, target, jeff.ID()); err != nil {
		fmt.Fprintf(w, "approve after deny: %v\n", err)
	}

	if err := m.RequestJoin(jeff, target); err != nil {
		return err
	}
	score, err := m.Compatibility(john, target, jeff.ID())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s compatibility with %s: %d\n", jeff.ID(), target, score)
	if err := m.Approve(john, target, jeff.ID()); err != nil {
		return err
	}

	outcomes, err := m.Complete(ctx, john, target, rater)
	if err != nil {
		return err
	}
	printOutcomes(w, target, outcomes)

	items, err = rec.Recommend(ctx, jeff, usecase.RecommendationParams{})
	if err != nil {
		return err
	}
	printRecommendations(w, jeff, items)
	return nil
}
