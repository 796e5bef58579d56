package cmd

import (
	"github.com/pretheevi/skillswap/pkg/service"
	"github.com/spf13/cobra"
)

var profileInput service.ProfileInput

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View your profile and posts",
	Long:  "Show your profile and posts. Subcommands edit it, view other users and list follows.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewProfileService(app)
		return svc.Show(cmd.Context())
	},
}

var profileViewCmd = &cobra.Command{
	Use:   "view <user-id>",
	Short: "View a user profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("user id", args[0])
		if err != nil {
			return err
		}
		svc := service.NewProfileService(app)
		return svc.View(cmd.Context(), id)
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your profile",
	Long:  "Change your name, bio and profile picture. Name and bio are prompted for when not given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewProfileService(app)
		return svc.Edit(cmd.Context(), profileInput)
	},
}

var followersCmd = &cobra.Command{
	Use:   "followers [user-id]",
	Short: "List followers (yours by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := optionalUserID(args)
		if err != nil {
			return err
		}
		svc := service.NewProfileService(app)
		return svc.Followers(cmd.Context(), id)
	},
}

var followingCmd = &cobra.Command{
	Use:   "following [user-id]",
	Short: "List followed users (yours by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := optionalUserID(args)
		if err != nil {
			return err
		}
		svc := service.NewProfileService(app)
		return svc.Following(cmd.Context(), id)
	},
}

var followCmd = &cobra.Command{
	Use:   "follow <user-id>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("user id", args[0])
		if err != nil {
			return err
		}
		svc := service.NewProfileService(app)
		return svc.Follow(cmd.Context(), id)
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <user-id>",
	Short: "Unfollow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("user id", args[0])
		if err != nil {
			return err
		}
		svc := service.NewProfileService(app)
		return svc.Unfollow(cmd.Context(), id)
	},
}

// optionalUserID returns 0, meaning the session user, when no id was given
func optionalUserID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, nil
	}
	return parseID("user id", args[0])
}

func init() {
	profileEditCmd.Flags().StringVarP(&profileInput.Name, "name", "n", "", "Display name")
	profileEditCmd.Flags().StringVarP(&profileInput.Bio, "bio", "b", "", "Short bio")
	profileEditCmd.Flags().StringVarP(&profileInput.Avatar, "avatar", "a", "", "Path to a profile picture (JPG, PNG or WEBP)")

	profileCmd.AddCommand(profileViewCmd)
	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(followersCmd)
	profileCmd.AddCommand(followingCmd)
}
