package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// postHeaders — общий набор колонок для таблиц постов.
var postHeaders = []string{"ID", "CONTENT", "PLATFORMS", "STATUS", "SCHEDULED"}

func postRow(p PostResponse) []string {
	return []string{
		p.ID,
		truncate(p.Content, 40),
		strings.Join(p.Platforms, ","),
		p.Status,
		p.ScheduledAt,
	}
}

// NewPostCmd создаёт группу команд для управления постами.
func NewPostCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage posts",
	}

	cmd.AddCommand(
		newPostListCmd(clientFn, outputFn),
		newPostCreateCmd(clientFn, outputFn),
		newPostShowCmd(clientFn, outputFn),
		newPostUpdateCmd(clientFn, outputFn),
		newPostDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

func newPostListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var status string
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			posts, err := client.ListPosts(ListPostsOpts{Status: status, Limit: limit, Offset: offset})
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

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (draft/scheduled/published/failed)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max posts to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Pagination offset")

	return cmd
}

func newPostCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var content string
	var platforms []string
	var imageURL string
	var scheduledAt string
	var status string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new post",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			post, err := client.CreatePost(CreatePostRequest{
				Content:     content,
				Platforms:   platforms,
				ImageURL:    imageURL,
				ScheduledAt: scheduledAt,
				Status:      status,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Post created: %s", post.ID))
			out.Print(postHeaders, [][]string{postRow(*post)}, post)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Post content (required)")
	cmd.Flags().StringSliceVar(&platforms, "platforms", nil, "Target platforms, comma-separated (required)")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "Image URL")
	cmd.Flags().StringVar(&scheduledAt, "at", "", "Publication time, RFC 3339 (required)")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (draft/scheduled, default scheduled)")
	cmd.MarkFlagRequired("content")
	cmd.MarkFlagRequired("platforms")
	cmd.MarkFlagRequired("at")

	return cmd
}

func newPostShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show post details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			post, err := client.GetPost(args[0])
			if err != nil {
				return err
			}

			headers := append(append([]string{}, postHeaders...), "PUBLISHED")
			row := append(postRow(*post), post.PublishedAt)
			out.Print(headers, [][]string{row}, post)
			return nil
		},
	}
}

func newPostUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var content string
	var platforms []string
	var imageURL string
	var scheduledAt string
	var status string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := UpdatePostRequest{}
			if cmd.Flags().Changed("content") {
				req.Content = &content
			}
			if cmd.Flags().Changed("platforms") {
				req.Platforms = platforms
			}
			if cmd.Flags().Changed("image-url") {
				req.ImageURL = &imageURL
			}
			if cmd.Flags().Changed("at") {
				req.ScheduledAt = &scheduledAt
			}
			if cmd.Flags().Changed("status") {
				req.Status = &status
			}

			post, err := client.UpdatePost(args[0], req)
			if err != nil {
				return err
			}

			out.Success("Post updated")
			out.Print(postHeaders, [][]string{postRow(*post)}, post)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringSliceVar(&platforms, "platforms", nil, "New target platforms")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "New image URL")
	cmd.Flags().StringVar(&scheduledAt, "at", "", "New publication time, RFC 3339")
	cmd.Flags().StringVar(&status, "status", "", "New status (draft/scheduled)")

	return cmd
}

func newPostDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeletePost(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Post deleted: %s", args[0]))
			return nil
		},
	}
}
