package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecobasket/ecobasket/internal/auth"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		first, _ := cmd.Flags().GetString("first")
		last, _ := cmd.Flags().GetString("last")

		am, err := openAuth()
		if err != nil {
			return err
		}
		defer am.Close()

		u, err := am.SignUp(cmd.Context(), email, password, first, last)
		if errors.Is(err, auth.ErrEmailTaken) {
			return fmt.Errorf("an account with %s already exists", email)
		}
		if err != nil {
			return err
		}
		if u.DisplayName != "" {
			fmt.Printf("Welcome, %s! Run 'ecobasket login' to sign in.\n", u.DisplayName)
		} else {
			fmt.Println("Account created. Run 'ecobasket login' to sign in.")
		}
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		am, err := openAuth()
		if err != nil {
			return err
		}
		defer am.Close()

		u, err := am.SignIn(cmd.Context(), email, password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return fmt.Errorf("invalid email or password")
		}
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s.\n", u.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE: func(cmd *cobra.Command, args []string) error {
		am, err := openAuth()
		if err != nil {
			return err
		}
		defer am.Close()

		if err := am.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		am, err := openAuth()
		if err != nil {
			return err
		}
		defer am.Close()

		u, err := am.Current(cmd.Context())
		if err != nil {
			return err
		}
		if u == nil {
			fmt.Println("Not signed in.")
			return nil
		}
		if u.DisplayName != "" {
			fmt.Printf("%s <%s>\n", u.DisplayName, u.Email)
		} else {
			fmt.Println(u.Email)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	signupCmd.Flags().StringP("email", "e", "", "Email address")
	signupCmd.Flags().StringP("password", "p", "", "Password")
	signupCmd.Flags().String("first", "", "First name")
	signupCmd.Flags().String("last", "", "Last name")

	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password")
}
