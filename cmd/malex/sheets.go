package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/malex-office/internal/cli"
	"github.com/Veraticus/malex-office/internal/config"
	"github.com/Veraticus/malex-office/internal/sheets"
)

// defaultTokenFile is where the Google Sheets OAuth token is kept unless
// sheets.token_file says otherwise.
const defaultTokenFile = "~/.config/malex/sheets-token.json"

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Google Sheets export setup",
	}

	cmd.AddCommand(sheetsAuthCmd())

	return cmd
}

func sheetsAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize exports to Google Sheets",
		Long: `Run the Google OAuth consent flow and save the resulting token.

Requires sheets.client_id and sheets.client_secret in the config file or the
GOOGLE_SHEETS_CLIENT_ID and GOOGLE_SHEETS_CLIENT_SECRET environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("listen")

			cfg := config.LoadSheetsConfig(viper.GetViper())
			if cfg.TokenFile == "" {
				cfg.TokenFile = config.ExpandPath(defaultTokenFile)
			}

			token, err := sheets.Authenticate(cmd.Context(), cfg, addr, func(url string) {
				fmt.Println(cli.FormatInfo("Open this URL in your browser to authorize Malex Office:")) //nolint:forbidigo // User-facing output
				fmt.Println(url)                                                                         //nolint:forbidigo // User-facing output
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("✓ Google Sheets authorized")) //nolint:forbidigo // User-facing output
			if token.RefreshToken == "" {
				fmt.Println(cli.FormatWarning("No refresh token was issued; exports will stop working when the token expires")) //nolint:forbidigo // User-facing output
			}
			fmt.Printf("Token saved to %s\n", cfg.TokenFile) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().String("listen", "localhost:8085", "address of the local OAuth callback server")

	return cmd
}
