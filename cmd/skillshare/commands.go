package main

import (
	"fmt"
	"io"
	"strings"

	"skill-share/internal/domain/project"
	"skill-share/internal/domain/skill"
	"skill-share/internal/domain/user"
	"skill-share/internal/rating"
	"skill-share/internal/usecase"

	"github.com/spf13/cobra"
)

var (
	recommendLimit int
	recommendAll   bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [user-id]",
	Short: "Recommend the open project that best matches a user",
	Long: `Scores every open project the user does not own by the number of its
required skills the user knows or is learning. Equal scores keep the order
in which projects were created.

Example:
  skillshare --seed market.yaml recommend jeff
  skillshare --seed market.yaml recommend --all --limit 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecommend,
}

var scoreCmd = &cobra.Command{
	Use:   "score [owner-id] [project] [user-id]",
	Short: "Show a user's compatibility with a project (owner only)",
	Args:  cobra.ExactArgs(3),
	RunE:  runScore,
}

var pendingCmd = &cobra.Command{
	Use:   "pending [owner-id] [project]",
	Short: "List pending join requests for a project (owner only)",
	Args:  cobra.ExactArgs(2),
	RunE:  runPending,
}

var completeCmd = &cobra.Command{
	Use:   "complete [owner-id] [project]",
	Short: "Complete a project, rating each member from standard input",
	Long: `Marks the project complete. For every member a rating is read from
standard input; members rated above 50 learn the project's skills they were
learning.`,
	Args: cobra.ExactArgs(2),
	RunE: runComplete,
}

func init() {
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "number of projects to return (default from RECOMMEND_LIMIT)")
	recommendCmd.Flags().BoolVar(&recommendAll, "all", false, "recommend for every known user")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	params := usecase.RecommendationParams{Limit: recommendLimit}

	if recommendAll {
		users := container.Users.List()
		results, err := container.Recommendation.RecommendMany(cmd.Context(), users, params)
		if err != nil {
			return err
		}
		for i, u := range users {
			printRecommendations(out, u, results[i])
		}
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("user id is required unless --all is set")
	}
	u, err := container.Marketplace.User(args[0])
	if err != nil {
		return err
	}
	items, err := container.Recommendation.Recommend(cmd.Context(), u, params)
	if err != nil {
		return err
	}
	printRecommendations(out, u, items)
	return nil
}

func printRecommendations(w io.Writer, u *user.User, items []usecase.RecommendationItem) {
	if len(items) == 0 {
		fmt.Fprintf(w, "%s: no open projects to recommend\n", u.ID())
		return
	}
	for _, it := range items {
		fmt.Fprintf(w, "%s: %s (owner %s) score=%d matched=[%s] missing=[%s]\n",
			u.ID(), it.Name, it.OwnerID, it.Score, joinSkills(it.Matched), joinSkills(it.Missing))
	}
}

func runScore(cmd *cobra.Command, args []string) error {
	owner, err := container.Marketplace.User(args[0])
	if err != nil {
		return err
	}
	score, err := container.Marketplace.Compatibility(owner, args[1], args[2])
	if err != nil {
		return err
	}
	p, err := container.Marketplace.Project(args[1])
	if err != nil {
		return err
	}
	u, err := container.Marketplace.User(args[2])
	if err != nil {
		return err
	}
	res := p.Match(u)
	fmt.Fprintf(cmd.OutOrStdout(), "%s on %s: %d matched=[%s] missing=[%s]\n",
		args[2], args[1], score, joinSkills(res.Matched), joinSkills(res.Missing))
	return nil
}

func runPending(cmd *cobra.Command, args []string) error {
	owner, err := container.Marketplace.User(args[0])
	if err != nil {
		return err
	}
	pending, err := container.Marketplace.PendingUsers(owner, args[1])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(pending) == 0 {
		fmt.Fprintf(out, "%s: no pending requests\n", args[1])
		return nil
	}
	for _, u := range pending {
		fmt.Fprintln(out, u.ID())
	}
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	owner, err := container.Marketplace.User(args[0])
	if err != nil {
		return err
	}
	prompt := rating.NewPrompt(cmd.InOrStdin(), cmd.OutOrStdout(), container.Config.Rating.MaxAttempts, container.Logger)
	outcomes, err := container.Marketplace.Complete(cmd.Context(), owner, args[1], prompt)
	if err != nil {
		return err
	}
	printOutcomes(cmd.OutOrStdout(), args[1], outcomes)
	return nil
}

func printOutcomes(w io.Writer, projectName string, outcomes []project.Outcome) {
	for _, o := range outcomes {
		fmt.Fprintf(w, "%s rated %d, learned [%s]\n", o.Member.ID(), o.Rating, joinSkills(o.Promoted))
	}
	fmt.Fprintf(w, "Project %s is complete.\n", projectName)
}

func joinSkills(skills []skill.Skill) string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}
