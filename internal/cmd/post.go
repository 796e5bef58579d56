package cmd

import (
	"github.com/pretheevi/skillswap/pkg/service"
	"github.com/spf13/cobra"
)

var (
	postInput service.PostInput
	postForce bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Create, edit and delete posts",
	Long:  "Share a skill with an image, or change one of your posts",
}

var createPostCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new post",
	Long: `Create a new post. An image (JPG, PNG or WEBP, at most 5MB) is required.
Values not given as flags are prompted for.`,
	Example: `  skillswap post create --title "Intro to Go" --category web --level beginner --image ./go.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		postSvc := service.NewPostService(app)
		return postSvc.Create(cmd.Context(), postInput)
	},
}

var editPostCmd = &cobra.Command{
	Use:   "edit <post-id>",
	Short: "Edit one of your posts",
	Long:  "Edit a post you wrote. Current values are offered as defaults; the image is kept unless replaced or removed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("post id", args[0])
		if err != nil {
			return err
		}
		postSvc := service.NewPostService(app)
		return postSvc.Edit(cmd.Context(), id, postInput)
	},
}

var deletePostCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("post id", args[0])
		if err != nil {
			return err
		}
		postSvc := service.NewPostService(app)
		return postSvc.Delete(cmd.Context(), id, postForce)
	},
}

func addPostFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&postInput.Title, "title", "t", "", "Post title")
	cmd.Flags().StringVarP(&postInput.Category, "category", "c", "", "Category (web, design, data, mobile, marketing, language)")
	cmd.Flags().StringVarP(&postInput.Level, "level", "l", "", "Level (beginner, intermediate, expert)")
	cmd.Flags().StringVarP(&postInput.Description, "description", "d", "", "Post description")
	cmd.Flags().StringVarP(&postInput.Image, "image", "i", "", "Path to an image file")
}

func init() {
	addPostFlags(createPostCmd)
	addPostFlags(editPostCmd)
	editPostCmd.Flags().BoolVar(&postInput.RemoveImage, "remove-image", false, "Remove the current image")
	editPostCmd.MarkFlagsMutuallyExclusive("image", "remove-image")
	deletePostCmd.Flags().BoolVarP(&postForce, "force", "f", false, "Skip confirmation")

	postCmd.AddCommand(createPostCmd)
	postCmd.AddCommand(editPostCmd)
	postCmd.AddCommand(deletePostCmd)
}
