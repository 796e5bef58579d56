package cmd

import (
	"github.com/pretheevi/skillswap/pkg/service"
	"github.com/spf13/cobra"
)

var (
	authEmail    string
	authPassword string
	authName     string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Log in to SkillSwap, create an account, or log out",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to SkillSwap",
	Long:  "Authenticate with email and password. Missing values are prompted for.",
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService(app)
		return authSvc.Login(cmd.Context(), authEmail, authPassword)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new SkillSwap account",
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService(app)
		return authSvc.Register(cmd.Context(), service.RegisterInput{
			Name:  authName,
			Email: authEmail,
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from SkillSwap",
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService(app)
		return authSvc.Logout()
	},
}

func init() {
	loginCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "Account password (prompted without echo when omitted)")

	registerCmd.Flags().StringVarP(&authName, "name", "n", "", "Display name")
	registerCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(logoutCmd)
}
