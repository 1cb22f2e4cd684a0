package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/malex-office/internal/cli"
	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/storage"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the console session",
		Long:  `Sign in with a token issued by the Malex Office backend, sign out, or show who is signed in.`,
	}

	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authLogoutCmd())
	cmd.AddCommand(authWhoamiCmd())

	return cmd
}

func authLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a session token",
		Long: `Store the bearer token and user profile issued by the backend.

The token is read from --token or MALEX_TOKEN. The profile can be given as
the JSON the backend returns (--user) or field by field; missing fields are
prompted for.

Examples:
  malex auth login --token "$TOKEN" --user '{"name":"Jane Doe","email":"jane@malex.co.ke","role":"admin"}'
  malex auth login --token "$TOKEN" --name "Jane Doe" --role admin`,
		RunE: runAuthLogin,
	}

	cmd.Flags().String("token", "", "bearer token (default: $MALEX_TOKEN)")
	cmd.Flags().String("user", "", "user profile as JSON")
	cmd.Flags().String("name", "", "user name")
	cmd.Flags().String("email", "", "user email")
	cmd.Flags().String("role", "", "user role")

	return cmd
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("MALEX_TOKEN")
	}
	if token == "" {
		if token, err = a.ask(ctx, "Token", ""); err != nil {
			return err
		}
	}

	user, err := userFromFlags(cmd)
	if err != nil {
		return err
	}
	if user.Name == "" {
		if user.Name, err = a.ask(ctx, "Name", ""); err != nil {
			return err
		}
	}
	if user.Role == "" {
		if user.Role, err = a.ask(ctx, "Role", "user"); err != nil {
			return err
		}
	}

	if err := a.auth.Login(ctx, token, user); err != nil {
		return err
	}
	a.logActivity(ctx, storage.ActionLogin, "session", "", user.Email)

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("✓ Signed in as %s (%s)", user.DisplayName(), user.Role))) //nolint:forbidigo // User-facing output
	return nil
}

// userFromFlags builds the profile from --user and the per-field flags, the
// latter taking precedence.
func userFromFlags(cmd *cobra.Command) (model.User, error) {
	var user model.User

	if raw, _ := cmd.Flags().GetString("user"); strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return model.User{}, common.NewUserError("The --user value is not valid JSON", err)
		}
	}
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		user.Name = name
	}
	if email, _ := cmd.Flags().GetString("email"); email != "" {
		user.Email = email
	}
	if role, _ := cmd.Flags().GetString("role"); role != "" {
		user.Role = role
	}
	return user, nil
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			name := a.userName()
			if err := a.auth.Logout(ctx, a.client); err != nil {
				return err
			}
			a.logActivity(ctx, storage.ActionLogout, "session", "", name)

			fmt.Println(cli.FormatSuccess("✓ Signed out")) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func authWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			user, ok := a.auth.User()
			if !ok {
				fmt.Println(cli.FormatWarning("Not signed in. Run: malex auth login")) //nolint:forbidigo // User-facing output
				return nil
			}

			content := strings.Join([]string{
				fmt.Sprintf("%s  %s", cli.OfficeIcon, cli.FormatTitle(user.Initials())),
				"Name:  " + user.DisplayName(),
				"Email: " + user.Email,
				"Role:  " + user.Role,
			}, "\n")
			fmt.Println(cli.RenderBox("Session", content)) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}
