package cmd

import (
	"github.com/pretheevi/skillswap/pkg/service"
	"github.com/spf13/cobra"
)

var (
	homeCategory string
	homeExpand   []int64
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "View the skill feed",
	Long: `View every post on SkillSwap, newest first.

Descriptions longer than 80 characters are cut; pass --expand with a post
id to show one in full.`,
	Example: `  skillswap home
  skillswap home --category design
  skillswap home --expand 12 --expand 15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		feedSvc := service.NewFeedService(app)
		return feedSvc.Home(cmd.Context(), service.HomeOptions{
			Category: homeCategory,
			Expand:   homeExpand,
		})
	},
}

var exploreCmd = &cobra.Command{
	Use:   "explore [query]",
	Short: "Search for users by name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		searchSvc := service.NewSearchService(app)
		return searchSvc.Explore(cmd.Context(), query)
	},
}

func init() {
	homeCmd.Flags().StringVarP(&homeCategory, "category", "c", "", "Only show one category (web, design, data, mobile, marketing, language)")
	homeCmd.Flags().Int64SliceVar(&homeExpand, "expand", nil, "Show the full description of these post ids")
}
