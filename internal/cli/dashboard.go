package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewDashboardCmd создаёт группу команд дашборда.
func NewDashboardCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard stats and upcoming posts",
	}

	cmd.AddCommand(
		newDashboardStatsCmd(clientFn, outputFn),
		newDashboardUpcomingCmd(clientFn, outputFn),
	)

	return cmd
}

func newDashboardStatsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show post counts by status and platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			stats, err := client.Stats()
			if err != nil {
				return err
			}

			headers := []string{"TOTAL", "SCHEDULED", "PUBLISHED", "DRAFT", "FAILED"}
			rows := [][]string{{
				strconv.Itoa(stats.TotalPosts),
				strconv.Itoa(stats.ScheduledPosts),
				strconv.Itoa(stats.PublishedPosts),
				strconv.Itoa(stats.DraftPosts),
				strconv.Itoa(stats.FailedPosts),
			}}

			out.Print(headers, rows, stats)

			if !out.jsonMode && len(stats.PostsByPlatform) > 0 {
				platformRows := make([][]string, 0, len(stats.PostsByPlatform))
				for platform, n := range stats.PostsByPlatform {
					platformRows = append(platformRows, []string{platform, strconv.Itoa(n)})
				}
				out.Table([]string{"PLATFORM", "POSTS"}, platformRows)
			}
			return nil
		},
	}
}

func newDashboardUpcomingCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "upcoming",
		Short: "Show the next scheduled posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			posts, err := client.Upcoming()
			if err != nil {
				return err
			}

			rows := make([][]string, len(posts))
			for i, p := range posts {
				rows[i] = postRow(p)
			}

			out.Print(postHeaders, rows, posts)
			return nil
		},
	}
}
