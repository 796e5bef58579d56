package cmd

import (
	"strings"

	"github.com/pretheevi/skillswap/pkg/service"
	"github.com/spf13/cobra"
)

var commentExpand []int64

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "View and add comments on posts",
}

var viewCommentsCmd = &cobra.Command{
	Use:   "view <post-id>",
	Short: "View a post and its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("post id", args[0])
		if err != nil {
			return err
		}
		svc := service.NewCommentService(app)
		return svc.View(cmd.Context(), id, commentExpand)
	},
}

var addCommentCmd = &cobra.Command{
	Use:   "add <post-id> [text...]",
	Short: "Comment on a post",
	Long:  "Comment on a post. Without text the comment is prompted for.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("post id", args[0])
		if err != nil {
			return err
		}
		svc := service.NewCommentService(app)
		return svc.Add(cmd.Context(), id, strings.Join(args[1:], " "))
	},
}

func init() {
	viewCommentsCmd.Flags().Int64SliceVar(&commentExpand, "expand", nil, "Show the full text of these comment ids")

	commentCmd.AddCommand(viewCommentsCmd)
	commentCmd.AddCommand(addCommentCmd)
}
