package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/pretheevi/skillswap/pkg/config"
	clierrors "github.com/pretheevi/skillswap/pkg/errors"
	"github.com/pretheevi/skillswap/pkg/logger"
	"github.com/pretheevi/skillswap/pkg/output"
	"github.com/pretheevi/skillswap/pkg/service"
	"github.com/pretheevi/skillswap/pkg/session"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputFmt  string

	// app is built once config is loaded; every command shares it
	app *service.App
	// started is set once flags and args were accepted
	started bool
)

var rootCmd = &cobra.Command{
	Use:   "skillswap",
	Short: "SkillSwap CLI - Share and discover skills",
	Long: `SkillSwap CLI is a command-line client for SkillSwap, a social
network for sharing skills. Post what you can teach, browse what others
offer, comment, and follow people directly from the terminal.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		started = true

		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		logger.Init(verbose)

		if cmd.Flags().Changed("output") {
			if !output.ValidateOutputFormat(outputFmt) {
				return clierrors.ValidationError("output", fmt.Sprintf("Unknown output format %q (use text, json or table)", outputFmt))
			}
			config.Set("output.format", outputFmt)
		}

		store := session.NewStore(config.GetSessionPath())
		if _, err := store.Load(); err != nil {
			logger.Warn("Ignoring unreadable session", "path", store.Path(), "error", err)
		}
		app = service.NewApp(store)
		return nil
	},
}

// Execute runs the command tree and exits non-zero on error
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !started {
			// usage errors from cobra itself
			fmt.Fprintf(os.Stderr, "Error: %v\nRun 'skillswap --help' for usage.\n", err)
		} else {
			logger.Debug("Command failed", "error", err)
			fmt.Fprint(os.Stderr, clierrors.FormatError(err))
		}
		stop()
		os.Exit(1)
	}
}

// parseID reads a numeric id argument
func parseID(name, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, clierrors.ValidationError(name, fmt.Sprintf("Invalid %s %q", name, arg))
	}
	return id, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/skillswap/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json, table")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(unfollowCmd)
	rootCmd.AddCommand(versionCmd)
}
